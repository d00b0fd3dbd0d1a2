// Package pricing computes the derived amounts of quotes: line totals,
// document totals and discounts. Every function is pure and works on
// decimal values so that two runs over the same input are identical.
package pricing

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountKind tells how a discount value is applied to its base amount.
type DiscountKind int

const (
	KindNone DiscountKind = iota
	KindPercentage
	KindFixed
)

func (k DiscountKind) String() string {
	switch k {
	case KindPercentage:
		return "percentage"
	case KindFixed:
		return "fixed"
	default:
		return "none"
	}
}

// ParseDiscountKind accepts "percentage", "fixed" and "none" (or empty).
func ParseDiscountKind(s string) (DiscountKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return KindNone, nil
	case "percentage", "percent", "%":
		return KindPercentage, nil
	case "fixed", "amount":
		return KindFixed, nil
	default:
		return KindNone, goerr.Wrap(ErrInvalidInput, "unknown discount kind", goerr.V(FieldKey, "discount_kind"), goerr.V(CodeKey, CodeUnknown), goerr.V(ValueKey, s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k DiscountKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *DiscountKind) UnmarshalText(b []byte) error {
	parsed, err := ParseDiscountKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Discount is a tagged discount value. Build it with Percent, Fixed or
// NoDiscount; the zero value means no discount.
type Discount struct {
	kind  DiscountKind
	value decimal.Decimal
}

// Percent returns a discount of v percent of the base amount.
func Percent(v decimal.Decimal) Discount {
	return Discount{kind: KindPercentage, value: v}
}

// Fixed returns a discount of exactly v, whatever the base amount.
func Fixed(v decimal.Decimal) Discount {
	return Discount{kind: KindFixed, value: v}
}

// NoDiscount returns the empty discount.
func NoDiscount() Discount {
	return Discount{}
}

// NewDiscount builds a Discount from a kind and value as they come off the wire.
func NewDiscount(kind DiscountKind, v decimal.Decimal) Discount {
	if kind == KindNone {
		return Discount{}
	}
	return Discount{kind: kind, value: v}
}

func (d Discount) Kind() DiscountKind     { return d.kind }
func (d Discount) Value() decimal.Decimal { return d.value }
func (d Discount) IsZero() bool           { return d.kind == KindNone || d.value.IsZero() }

// Validate rejects negative values and percentages above 100.
func (d Discount) Validate() error {
	if d.kind == KindNone {
		return nil
	}
	if d.value.IsNegative() {
		return invalid("discount", CodeNegative, "discount must not be negative", d.value.String())
	}
	if d.kind == KindPercentage && d.value.GreaterThan(hundred) {
		return invalid("discount", CodeOutOfRange, "percentage discount must be between 0 and 100", d.value.String())
	}
	return nil
}

// Resolve returns the amount this discount removes from base. A fixed
// discount is not capped to base.
func (d Discount) Resolve(base decimal.Decimal) decimal.Decimal {
	return ResolveDiscount(base, d.value, d.kind)
}

// ResolveDiscount converts a discount value of the given kind into an amount
// relative to base.
func ResolveDiscount(base, value decimal.Decimal, kind DiscountKind) decimal.Decimal {
	switch kind {
	case KindPercentage:
		return base.Mul(value.Div(hundred))
	case KindFixed:
		return value
	default:
		return decimal.Zero
	}
}
