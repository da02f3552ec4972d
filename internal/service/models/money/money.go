package money

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in minor units. All price arithmetic in the
// service happens on this type; decimal strings exist only at the JSON
// boundary.
type Cents int64

// FromDecimalString parses a 2-decimal price string like "67.50" into cents.
func FromDecimalString(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}

	return Cents(d.Shift(2).Round(0).IntPart()), nil
}

// Decimal returns the amount as a decimal value in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount as a fixed 2-decimal string, e.g. "67.50".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// ApplyRate multiplies the amount by rate and rounds half-up to whole cents.
func (c Cents) ApplyRate(rate decimal.Decimal) Cents {
	return Cents(c.Decimal().Mul(rate).Shift(2).Round(0).IntPart())
}

// MulInt multiplies the amount by an integer quantity.
func (c Cents) MulInt(n int) Cents {
	return c * Cents(n)
}

// MarshalJSON renders the amount as a fixed 2-decimal string.
func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts both "67.50" and bare numbers.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var f json.Number
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		s = f.String()
	}

	parsed, err := FromDecimalString(s)
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}
