package folio

import "github.com/shopspring/decimal"

// number is any value M and Q accept.
type number interface {
	float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal
}

func newDecimal[T number](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	default:
		return decimal.NewFromUint64(any(value).(uint64))
	}
}

// Quantity is a number of units held. Fractional units are allowed.
type Quantity struct {
	value decimal.Decimal
}

// Q creates a Quantity.
func Q[T number](value T) Quantity { return Quantity{value: newDecimal(value)} }

func (q Quantity) Decimal() decimal.Decimal { return q.value }
func (q Quantity) IsNegative() bool         { return q.value.IsNegative() }
func (q Quantity) String() string           { return q.value.String() }

func (q Quantity) MarshalJSON() ([]byte, error)     { return q.value.MarshalJSON() }
func (q *Quantity) UnmarshalJSON(data []byte) error { return q.value.UnmarshalJSON(data) }
