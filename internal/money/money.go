// Package money holds AED amounts. Values are decimals kept at fils (two
// places) precision; rounding is half-up for the non-negative amounts the
// service deals in.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Currency is the ISO code every amount in the service is expressed in.
const Currency = "AED"

const places = 2

var hundred = decimal.NewFromInt(100)

// Amount is a monetary value in AED. The zero value is AED 0.00.
type Amount struct {
	d decimal.Decimal
}

// Zero is AED 0.00.
var Zero = Amount{}

func fromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d.Round(places)}
}

// FromFloat converts a decimal AED value, rounding to the nearest fil.
func FromFloat(v float64) Amount {
	return fromDecimal(decimal.NewFromFloat(v))
}

// Parse reads a decimal string such as "517.5" or "AED 45.00".
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), Currency))
	if s == "" {
		return Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return fromDecimal(d), nil
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// Mul multiplies the amount by an integer quantity.
func (a Amount) Mul(qty int) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(int64(qty)))}
}

// Percent returns pct percent of a, rounded half-up to the nearest fil.
func (a Amount) Percent(pct int64) Amount {
	return fromDecimal(a.d.Mul(decimal.NewFromInt(pct)).Div(hundred))
}

// Equal compares values, ignoring representation.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// Decimal formats the amount as "285.00".
func (a Amount) Decimal() string {
	return a.d.StringFixed(places)
}

// String formats the amount for display, e.g. "AED 517.50".
func (a Amount) String() string {
	return Currency + " " + a.Decimal()
}

// MarshalJSON encodes the amount as a decimal AED number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal()), nil
}

// UnmarshalJSON accepts a decimal AED number or numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	d, err := decimal.NewFromString(strings.Trim(string(data), `"`))
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = fromDecimal(d)
	return nil
}

// MarshalBSONValue stores the amount as a Decimal128.
func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(a.Decimal())
	if err != nil {
		return 0, nil, fmt.Errorf("encode amount %s: %w", a, err)
	}
	return bson.MarshalValue(d128)
}

// UnmarshalBSONValue reads a Decimal128, double, integer or string amount.
func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	var (
		d   decimal.Decimal
		err error
	)
	switch t {
	case bsontype.Decimal128:
		d, err = decimal.NewFromString(raw.Decimal128().String())
	case bsontype.Double:
		d = decimal.NewFromFloat(raw.Double())
	case bsontype.Int32:
		d = decimal.NewFromInt32(raw.Int32())
	case bsontype.Int64:
		d = decimal.NewFromInt(raw.Int64())
	case bsontype.String:
		d, err = decimal.NewFromString(raw.StringValue())
	default:
		return fmt.Errorf("cannot decode amount from BSON %s", t)
	}
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	*a = fromDecimal(d)
	return nil
}
