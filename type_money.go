package khalon

import (
	"strconv"

	"github.com/Rhymond/go-money"
)

// KhalCode is the currency code registered for the bot currency.
const KhalCode = "KHL"

func init() {
	// The Khal has no fractional unit, balances are whole Khal.
	money.AddCurrency(KhalCode, "Khal", "1 $", ".", ",", 0)
}

// Money represents an amount of Khal. The zero value is zero Khal.
//
// Amounts are whole integers: fractional balances are not representable.
type Money struct {
	value int64
}

// K creates a Money of the given whole Khal amount.
func K(value int64) Money { return Money{value: value} }

// Int64 returns the amount as a plain integer.
func (m Money) Int64() int64 { return m.value }

// String formats the amount with its currency, e.g. "100 Khal".
func (m Money) String() string {
	return money.New(m.value, KhalCode).Display()
}

func (m Money) Equal(n Money) bool              { return m.value == n.value }
func (m Money) IsZero() bool                    { return m.value == 0 }
func (m Money) IsPositive() bool                { return m.value > 0 }
func (m Money) IsNegative() bool                { return m.value < 0 }
func (m Money) LessThan(n Money) bool           { return m.value < n.value }
func (m Money) GreaterThan(n Money) bool        { return m.value > n.value }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value >= n.value }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value + n.value} }
func (m Money) Sub(n Money) Money { return Money{value: m.value - n.value} }

// MarshalJSON persists the amount as a bare integer.
func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, m.value, 10), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface for Money.
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	m.value = v
	return nil
}
