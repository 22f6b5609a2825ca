package money

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places every stored amount is normalized to.
const Places = 2

var hundred = decimal.NewFromInt(100)

// Hundred returns 100 as a decimal.
func Hundred() decimal.Decimal {
	return hundred
}

// Normalize rounds the amount to currency precision (half away from zero).
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// NonNegative returns d, or zero when d is negative.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Parse converts free-form user input into an amount. It never fails:
// anything that is not a number becomes zero.
func Parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FromAny coerces a decoded JSON value into an amount.
// Numbers and numeric strings are accepted, everything else is zero.
func FromAny(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(n)
	case json.Number:
		return Parse(n.String())
	case string:
		return Parse(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case decimal.Decimal:
		return n
	default:
		return decimal.Zero
	}
}

// Amount is a currency value that decodes leniently from persisted JSON.
// Missing, null, malformed or non-numeric values decode as zero instead of failing.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: Normalize(d)}
}

func AmountFromString(s string) Amount {
	return NewAmount(Parse(s))
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(Normalize(a.Decimal).StringFixed(Places)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = Normalize(FromAny(raw))
	return nil
}
