package models

import (
	"time"

	"github.com/diewo77/dashcore/pricing"
)

// QuoteRecord is a persisted quote. The amount columns are a snapshot of the
// totals at save time and only serve listing; reads recompute from the items.
type QuoteRecord struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PublicID  string    `gorm:"size:36;uniqueIndex;not null" json:"id"`
	Reference string    `gorm:"size:100;index" json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TaxMode       string  `gorm:"size:20;not null" json:"tax_mode"`
	DiscountKind  string  `gorm:"size:20;not null" json:"discount_kind"`
	DiscountValue Decimal `gorm:"not null" json:"discount_value"`
	TaxRate       Decimal `gorm:"not null" json:"tax_rate"`

	Subtotal       Decimal `gorm:"not null" json:"subtotal"`
	DiscountAmount Decimal `gorm:"not null" json:"discount_amount"`
	AfterDiscount  Decimal `gorm:"not null" json:"after_discount"`
	TaxAmount      Decimal `gorm:"not null" json:"tax_amount"`
	TotalAmount    Decimal `gorm:"not null" json:"total_amount"`
	OverDiscount   bool    `gorm:"index;not null;default:false" json:"over_discount"`

	Items []QuoteItemRecord `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (QuoteRecord) TableName() string { return "quotes" }

// QuoteItemRecord is one line of a persisted quote, kept in Position order.
type QuoteItemRecord struct {
	ID            uint    `gorm:"primaryKey" json:"-"`
	QuoteID       uint    `gorm:"index;not null" json:"-"`
	Position      int     `gorm:"not null" json:"position"`
	Quantity      Decimal `gorm:"not null" json:"quantity"`
	UnitPrice     Decimal `gorm:"not null" json:"unit_price"`
	DiscountKind  string  `gorm:"size:20;not null" json:"discount_kind"`
	DiscountValue Decimal `gorm:"not null" json:"discount_value"`
	TaxRate       Decimal `gorm:"not null" json:"tax_rate"`
}

func (QuoteItemRecord) TableName() string { return "quote_items" }

// NewQuoteRecord builds a record from a document and its computed totals.
func NewQuoteRecord(publicID, ref string, doc pricing.Document, t pricing.Totals) *QuoteRecord {
	rec := &QuoteRecord{
		PublicID:      publicID,
		Reference:     ref,
		TaxMode:       doc.TaxMode.String(),
		DiscountKind:  doc.Discount.Kind().String(),
		DiscountValue: NewDecimal(doc.Discount.Value()),
		TaxRate:       NewDecimal(doc.TaxRate),
	}
	rec.SetTotals(t)
	rec.Items = make([]QuoteItemRecord, len(doc.Items))
	for i, it := range doc.Items {
		rec.Items[i] = QuoteItemRecord{
			Position:      i,
			Quantity:      NewDecimal(it.Quantity),
			UnitPrice:     NewDecimal(it.UnitPrice),
			DiscountKind:  it.Discount.Kind().String(),
			DiscountValue: NewDecimal(it.Discount.Value()),
			TaxRate:       NewDecimal(it.TaxRate),
		}
	}
	return rec
}

// SetTotals copies the snapshot columns from t.
func (q *QuoteRecord) SetTotals(t pricing.Totals) {
	q.Subtotal = NewDecimal(t.Subtotal)
	q.DiscountAmount = NewDecimal(t.DiscountAmount)
	q.AfterDiscount = NewDecimal(t.AfterDiscount)
	q.TaxAmount = NewDecimal(t.TaxAmount)
	q.TotalAmount = NewDecimal(t.TotalAmount)
	q.OverDiscount = t.OverDiscount
}

// Document rebuilds the pricing document. Items must be sorted by Position.
func (q *QuoteRecord) Document() (pricing.Document, error) {
	mode, err := pricing.ParseTaxMode(q.TaxMode)
	if err != nil {
		return pricing.Document{}, err
	}
	kind, err := pricing.ParseDiscountKind(q.DiscountKind)
	if err != nil {
		return pricing.Document{}, err
	}
	doc := pricing.Document{
		Discount: pricing.NewDiscount(kind, q.DiscountValue.Decimal),
		TaxRate:  q.TaxRate.Decimal,
		TaxMode:  mode,
		Items:    make([]pricing.LineItem, len(q.Items)),
	}
	for i, it := range q.Items {
		k, err := pricing.ParseDiscountKind(it.DiscountKind)
		if err != nil {
			return pricing.Document{}, err
		}
		doc.Items[i] = pricing.LineItem{
			Quantity:  it.Quantity.Decimal,
			UnitPrice: it.UnitPrice.Decimal,
			Discount:  pricing.NewDiscount(k, it.DiscountValue.Decimal),
			TaxRate:   it.TaxRate.Decimal,
		}
	}
	return doc, nil
}
