package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeArray(t *testing.T) {
	t.Run("should drop malformed blobs and elements", func(t *testing.T) {
		assert.Empty(t, DecodeArray(ExpensesKey, []byte(`not json`)))
		assert.Empty(t, DecodeArray(ExpensesKey, []byte(`{"a":1}`)))
		assert.Empty(t, DecodeArray(ExpensesKey, []byte(`null`)))

		records := DecodeArray(ExpensesKey, []byte(`[{"id":1}, 5, "x", {"id":"2"}]`))
		assert.Len(t, records, 2)
		assert.Equal(t, 1, Int(records[0]["id"]))
		assert.Equal(t, 2, Int(records[1]["id"]))
	})
}

func TestDecodeObject(t *testing.T) {
	assert.Empty(t, DecodeObject(BudgetsKey, []byte(`[1,2]`)))
	assert.Empty(t, DecodeObject(BudgetsKey, []byte(`null`)))
	assert.Len(t, DecodeObject(BudgetsKey, []byte(`{"2024-01":{}}`)), 1)
}

func TestCoercion(t *testing.T) {
	assert.Equal(t, 7, Int(json.Number("7")))
	assert.Equal(t, 7, Int(json.Number("7.9")))
	assert.Equal(t, 0, Int(nil))
	assert.Equal(t, 0, Int("seven"))
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "12", String(json.Number("12")))
	assert.Empty(t, Object("x"))
}
