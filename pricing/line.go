package pricing

import (
	"github.com/shopspring/decimal"
)

// LineItem is one priced entry of a quote.
type LineItem struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  Discount
	TaxRate   decimal.Decimal // percent, 0..100
}

// LineTotals holds the derived amounts of a LineItem.
//
// Total == AfterDiscount + Tax and AfterDiscount == Subtotal - DiscountAmount.
type LineTotals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	AfterDiscount  decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal

	// OverDiscount is set when the discount exceeds the subtotal and the
	// line carries a negative amount.
	OverDiscount bool
}

// Gross returns Quantity * UnitPrice.
func (it LineItem) Gross() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}

// Validate checks the raw fields of the item.
func (it LineItem) Validate() error {
	if it.Quantity.IsNegative() {
		return invalid("quantity", CodeNegative, "quantity must not be negative", it.Quantity.String())
	}
	if it.UnitPrice.IsNegative() {
		return invalid("unit_price", CodeNegative, "unit price must not be negative", it.UnitPrice.String())
	}
	if err := it.Discount.Validate(); err != nil {
		return err
	}
	return validateRate("tax_rate", it.TaxRate)
}

// Recompute derives every amount of the item. The order of operations is
// subtotal, discount, after-discount, tax, total.
func Recompute(it LineItem) (LineTotals, error) {
	if err := it.Validate(); err != nil {
		return LineTotals{}, err
	}
	return recompute(it), nil
}

// recompute assumes it has been validated.
func recompute(it LineItem) LineTotals {
	subtotal := it.Gross()
	discount := it.Discount.Resolve(subtotal)
	after := subtotal.Sub(discount)
	tax := after.Mul(it.TaxRate.Div(hundred))
	return LineTotals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		AfterDiscount:  after,
		Tax:            tax,
		Total:          after.Add(tax),
		OverDiscount:   after.IsNegative(),
	}
}

func validateRate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return invalid(field, CodeOutOfRange, "rate must be between 0 and 100", rate.String())
	}
	return nil
}
