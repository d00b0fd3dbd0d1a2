package pricing

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
)

// Quote is an editable document that always carries totals matching its
// current content. Each mutation recomputes the whole document; a rejected
// mutation leaves both the document and its totals unchanged.
//
// A Quote is owned by a single caller and is not safe for concurrent use.
type Quote struct {
	doc    Document
	totals Totals
}

// NewQuote returns an empty quote using the given tax mode.
func NewQuote(mode TaxMode) *Quote {
	q := &Quote{doc: Document{TaxMode: mode}}
	// an empty document cannot fail validation
	q.totals, _ = q.doc.Totals()
	return q
}

// QuoteFromDocument builds a quote from an existing document.
func QuoteFromDocument(doc Document) (*Quote, error) {
	doc.Items = slices.Clone(doc.Items)
	totals, err := doc.Totals()
	if err != nil {
		return nil, err
	}
	return &Quote{doc: doc, totals: totals}, nil
}

// Snapshot returns copies of the current document and totals.
func (q *Quote) Snapshot() (Document, Totals) {
	doc := q.doc
	doc.Items = slices.Clone(q.doc.Items)
	totals := q.totals
	totals.Lines = slices.Clone(q.totals.Lines)
	return doc, totals
}

// Totals returns a copy of the current totals.
func (q *Quote) Totals() Totals {
	_, t := q.Snapshot()
	return t
}

// Len returns the number of items.
func (q *Quote) Len() int { return len(q.doc.Items) }

// AddItem appends an item.
func (q *Quote) AddItem(it LineItem) error {
	next := q.doc
	next.Items = append(slices.Clone(q.doc.Items), it)
	return q.apply(next)
}

// SetItem replaces the item at index i.
func (q *Quote) SetItem(i int, it LineItem) error {
	if err := q.checkIndex(i); err != nil {
		return err
	}
	next := q.doc
	next.Items = slices.Clone(q.doc.Items)
	next.Items[i] = it
	return q.apply(next)
}

// RemoveItem deletes the item at index i.
func (q *Quote) RemoveItem(i int) error {
	if err := q.checkIndex(i); err != nil {
		return err
	}
	next := q.doc
	next.Items = slices.Delete(slices.Clone(q.doc.Items), i, i+1)
	return q.apply(next)
}

// SetDiscount replaces the document-level discount.
func (q *Quote) SetDiscount(d Discount) error {
	next := q.doc
	next.Items = slices.Clone(q.doc.Items)
	next.Discount = d
	return q.apply(next)
}

// SetTaxRate replaces the nominal document tax rate.
func (q *Quote) SetTaxRate(rate decimal.Decimal) error {
	next := q.doc
	next.Items = slices.Clone(q.doc.Items)
	next.TaxRate = rate
	return q.apply(next)
}

func (q *Quote) apply(next Document) error {
	totals, err := next.Totals()
	if err != nil {
		return err
	}
	q.doc = next
	q.totals = totals
	return nil
}

func (q *Quote) checkIndex(i int) error {
	if i < 0 || i >= len(q.doc.Items) {
		return goerr.Wrap(ErrInvalidInput, "item index out of range", goerr.V(IndexKey, i), goerr.V(CodeKey, CodeOutOfRange), goerr.V("len", len(q.doc.Items)))
	}
	return nil
}
