package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]string{
		"12.5":   "12.5",
		" 7 ":    "7",
		"":       "0",
		"abc":    "0",
		"-3.25":  "-3.25",
		"1e2":    "100",
		"12,50":  "0",
		"  0.01": "0.01",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(want).Equal(Parse(in)), "Parse(%q)", in)
		})
	}
}

func TestFromAny(t *testing.T) {
	assert.True(t, FromAny(nil).IsZero())
	assert.True(t, FromAny(true).IsZero())
	assert.True(t, FromAny([]any{1}).IsZero())
	assert.True(t, decimal.NewFromFloat(4.5).Equal(FromAny(4.5)))
	assert.True(t, decimal.NewFromInt(3).Equal(FromAny("3")))
	assert.True(t, decimal.NewFromInt(9).Equal(FromAny(json.Number("9"))))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "10.01", Normalize(decimal.RequireFromString("10.005")).StringFixed(2))
	assert.Equal(t, "-10.01", Normalize(decimal.RequireFromString("-10.005")).StringFixed(2))
	assert.Equal(t, "3.00", Normalize(decimal.NewFromInt(3)).StringFixed(2))
}

func TestAmount_JSON(t *testing.T) {
	t.Run("should decode lenient values", func(t *testing.T) {
		// given
		var doc struct {
			A Amount `json:"a"`
			B Amount `json:"b"`
			C Amount `json:"c"`
			D Amount `json:"d"`
			E Amount `json:"e"`
		}

		// when
		err := json.Unmarshal([]byte(`{"a": 12.345, "b": "7.1", "c": null, "d": "lunch", "e": {"x": 1}}`), &doc)

		// then
		require.NoError(t, err)
		assert.Equal(t, "12.35", doc.A.StringFixed(2))
		assert.Equal(t, "7.10", doc.B.StringFixed(2))
		assert.True(t, doc.C.IsZero())
		assert.True(t, doc.D.IsZero())
		assert.True(t, doc.E.IsZero())
	})

	t.Run("should encode as a two decimal number and read back unchanged", func(t *testing.T) {
		// given
		in := NewAmount(decimal.RequireFromString("19.9"))

		// when
		encoded, err := json.Marshal(in)
		require.NoError(t, err)
		var out Amount
		require.NoError(t, json.Unmarshal(encoded, &out))

		// then
		assert.Equal(t, "19.90", string(encoded))
		assert.True(t, in.Equal(out.Decimal))
	})
}
