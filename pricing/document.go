package pricing

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
)

// TaxMode selects how a document computes its tax amount.
type TaxMode int

const (
	// TaxPerItem sums the tax of each line at its own rate (quote preview).
	TaxPerItem TaxMode = iota
	// TaxNominal applies one document rate to the discounted subtotal (quote form).
	TaxNominal
)

func (m TaxMode) String() string {
	if m == TaxNominal {
		return "nominal"
	}
	return "per_item"
}

// ParseTaxMode accepts "per_item" (default when empty) and "nominal".
func ParseTaxMode(s string) (TaxMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per_item", "per-item", "item":
		return TaxPerItem, nil
	case "nominal", "document":
		return TaxNominal, nil
	default:
		return TaxPerItem, goerr.Wrap(ErrInvalidInput, "unknown tax mode", goerr.V(FieldKey, "tax_mode"), goerr.V(CodeKey, CodeUnknown), goerr.V(ValueKey, s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m TaxMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *TaxMode) UnmarshalText(b []byte) error {
	parsed, err := ParseTaxMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Document is a quote: an ordered list of items plus document-level
// discount and tax settings.
type Document struct {
	Items    []LineItem
	Discount Discount
	TaxRate  decimal.Decimal // nominal rate, only read in TaxNominal mode
	TaxMode  TaxMode
}

// Totals holds the derived amounts of a Document.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	AfterDiscount  decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal

	// LineDiscountTotal is the sum of the item-level discounts. It is
	// informational: the document discount is resolved on the gross subtotal.
	LineDiscountTotal decimal.Decimal

	TaxMode TaxMode
	Lines   []LineTotals

	// OverDiscount is set when the document or any of its lines ends up
	// with a negative amount after discount.
	OverDiscount bool
}

// Totals validates the document and aggregates it with the tax path chosen
// by its TaxMode.
func (d Document) Totals() (Totals, error) {
	switch d.TaxMode {
	case TaxNominal:
		return AggregateNominalTax(d.Items, d.Discount, d.TaxRate)
	default:
		if !d.TaxRate.IsZero() {
			return Totals{}, goerr.Wrap(ErrTaxModeConflict, "nominal tax rate set on a per-item document",
				goerr.V(FieldKey, "tax_rate"), goerr.V(CodeKey, CodeTaxModeConflict), goerr.V(ValueKey, d.TaxRate.String()))
		}
		return AggregatePerItemTax(d.Items, d.Discount)
	}
}

// AggregatePerItemTax totals items taxing each line at its own rate.
func AggregatePerItemTax(items []LineItem, discount Discount) (Totals, error) {
	t, err := aggregate(items, discount)
	if err != nil {
		return Totals{}, err
	}
	t.TaxMode = TaxPerItem
	for _, l := range t.Lines {
		t.TaxAmount = t.TaxAmount.Add(l.Tax)
	}
	t.TotalAmount = t.AfterDiscount.Add(t.TaxAmount)
	return t, nil
}

// AggregateNominalTax totals items applying a single document tax rate to
// the discounted subtotal. Item tax rates are ignored for the tax amount.
func AggregateNominalTax(items []LineItem, discount Discount, taxRate decimal.Decimal) (Totals, error) {
	if err := validateRate("tax_rate", taxRate); err != nil {
		return Totals{}, err
	}
	t, err := aggregate(items, discount)
	if err != nil {
		return Totals{}, err
	}
	t.TaxMode = TaxNominal
	t.TaxAmount = t.AfterDiscount.Mul(taxRate.Div(hundred))
	t.TotalAmount = t.AfterDiscount.Add(t.TaxAmount)
	return t, nil
}

// aggregate validates everything first, then fills the parts shared by both
// tax paths.
func aggregate(items []LineItem, discount Discount) (Totals, error) {
	if err := discount.Validate(); err != nil {
		return Totals{}, goerr.Wrap(err, "invalid document discount")
	}
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return Totals{}, goerr.Wrap(err, "invalid line item", goerr.V(IndexKey, i))
		}
	}

	t := Totals{
		Subtotal:          decimal.Zero,
		TaxAmount:         decimal.Zero,
		LineDiscountTotal: decimal.Zero,
		Lines:             make([]LineTotals, len(items)),
	}
	// An empty document has nothing to discount, even with a fixed discount set.
	if len(items) == 0 {
		t.DiscountAmount = decimal.Zero
		t.AfterDiscount = decimal.Zero
		return t, nil
	}
	for i, it := range items {
		l := recompute(it)
		t.Lines[i] = l
		t.Subtotal = t.Subtotal.Add(l.Subtotal)
		t.LineDiscountTotal = t.LineDiscountTotal.Add(l.DiscountAmount)
		if l.OverDiscount {
			t.OverDiscount = true
		}
	}
	t.DiscountAmount = discount.Resolve(t.Subtotal)
	t.AfterDiscount = t.Subtotal.Sub(t.DiscountAmount)
	if t.AfterDiscount.IsNegative() {
		t.OverDiscount = true
	}
	return t, nil
}
