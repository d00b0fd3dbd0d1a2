package pricing

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Change is a relative variance in percent. It is undefined when the base
// value is zero.
type Change struct {
	Percent decimal.Decimal
	Defined bool
}

// PercentChange returns (value - base) / |base| * 100.
func PercentChange(base, value decimal.Decimal) Change {
	if base.IsZero() {
		return Change{}
	}
	return Change{
		Percent: value.Sub(base).Div(base.Abs()).Mul(hundred),
		Defined: true,
	}
}

// String renders the change with two decimals, or "undefined".
func (c Change) String() string {
	if !c.Defined {
		return "undefined"
	}
	return c.Percent.StringFixed(2) + "%"
}

// MarshalJSON encodes an undefined change as null.
func (c Change) MarshalJSON() ([]byte, error) {
	if !c.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(c.Percent)
}
