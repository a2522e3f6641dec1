package khalon

import "github.com/shopspring/decimal"

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
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
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Price is the per-share price of a listing. Unlike Money it may be
// fractional, so cost computations stay exact until rounded to whole Khal.
type Price struct {
	value decimal.Decimal
}

// P creates a Price from any numeric value.
func P[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Price {
	return Price{value: newDecimal(value)}
}

func (p Price) Equal(q Price) bool    { return p.value.Equal(q.value) }
func (p Price) LessThan(q Price) bool { return p.value.LessThan(q.value) }
func (p Price) IsPositive() bool      { return p.value.IsPositive() }
func (p Price) IsZero() bool          { return p.value.IsZero() }
func (p Price) String() string        { return p.value.String() }

// Cost returns quantity shares at this price, rounded to the nearest whole
// Khal. Buy cost and sell proceeds use the same rounding, so a round trip at
// an unchanged price is exactly balance-neutral.
func (p Price) Cost(quantity int64) Money {
	return K(p.value.Mul(decimal.NewFromInt(quantity)).Round(0).IntPart())
}

// MarshalJSON implements the json.Marshaler interface for Price.
func (p Price) MarshalJSON() ([]byte, error) {
	return p.value.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Price.
func (p *Price) UnmarshalJSON(data []byte) error {
	return p.value.UnmarshalJSON(data)
}
