// Package store persists quotes and risk assessments with gorm.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/dashcore/internal/models"
	"github.com/diewo77/dashcore/pricing"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
)

var ErrNotFound = goerr.New("record not found")

// StoredQuote is a quote as read back: totals are recomputed from the items.
type StoredQuote struct {
	ID        string
	Reference string
	CreatedAt time.Time
	UpdatedAt time.Time
	Document  pricing.Document
	Totals    pricing.Totals
}

type QuoteFilter struct {
	OverDiscount *bool
	Limit        int
	Offset       int
}

type QuoteStore struct {
	db *gorm.DB
}

func NewQuoteStore(db *gorm.DB) *QuoteStore {
	return &QuoteStore{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB { return db.Order("position") }

// Save computes the totals of doc and writes the quote with its items in one
// transaction. Nothing is written when the document is invalid.
func (s *QuoteStore) Save(ctx context.Context, ref string, doc pricing.Document) (*StoredQuote, error) {
	totals, err := doc.Totals()
	if err != nil {
		return nil, err
	}
	rec := models.NewQuoteRecord(uuid.NewString(), ref, doc, totals)
	items := rec.Items
	rec.Items = nil

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return goerr.Wrap(err, "insert quote")
		}
		return insertItems(tx, rec.ID, items)
	})
	if err != nil {
		return nil, err
	}
	return &StoredQuote{
		ID:        rec.PublicID,
		Reference: rec.Reference,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Document:  doc,
		Totals:    totals,
	}, nil
}

// Update replaces the content of an existing quote. Items and snapshot totals
// are rewritten together. A non-empty ref replaces the stored reference.
func (s *QuoteStore) Update(ctx context.Context, id, ref string, doc pricing.Document) (*StoredQuote, error) {
	totals, err := doc.Totals()
	if err != nil {
		return nil, err
	}
	next := models.NewQuoteRecord(id, "", doc, totals)

	var rec models.QuoteRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("public_id = ?", id).First(&rec).Error; err != nil {
			return notFound(err, "quote", id)
		}
		if err := tx.Where("quote_id = ?", rec.ID).Delete(&models.QuoteItemRecord{}).Error; err != nil {
			return goerr.Wrap(err, "delete quote items", goerr.V("quote_id", id))
		}
		if ref != "" {
			rec.Reference = ref
		}
		rec.TaxMode = next.TaxMode
		rec.DiscountKind = next.DiscountKind
		rec.DiscountValue = next.DiscountValue
		rec.TaxRate = next.TaxRate
		rec.SetTotals(totals)
		if err := tx.Omit("Items").Save(&rec).Error; err != nil {
			return goerr.Wrap(err, "update quote", goerr.V("quote_id", id))
		}
		return insertItems(tx, rec.ID, next.Items)
	})
	if err != nil {
		return nil, err
	}
	return &StoredQuote{
		ID:        rec.PublicID,
		Reference: rec.Reference,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Document:  doc,
		Totals:    totals,
	}, nil
}

func insertItems(tx *gorm.DB, quoteID uint, items []models.QuoteItemRecord) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].QuoteID = quoteID
	}
	if err := tx.Create(&items).Error; err != nil {
		return goerr.Wrap(err, "insert quote items", goerr.V("count", len(items)))
	}
	return nil
}

// Get loads a quote and recomputes its totals from the stored items.
func (s *QuoteStore) Get(ctx context.Context, id string) (*StoredQuote, error) {
	var rec models.QuoteRecord
	err := s.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("public_id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, notFound(err, "quote", id)
	}
	doc, err := rec.Document()
	if err != nil {
		return nil, goerr.Wrap(err, "decode stored quote", goerr.V("quote_id", id))
	}
	totals, err := doc.Totals()
	if err != nil {
		return nil, goerr.Wrap(err, "recompute stored quote", goerr.V("quote_id", id))
	}
	return &StoredQuote{
		ID:        rec.PublicID,
		Reference: rec.Reference,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Document:  doc,
		Totals:    totals,
	}, nil
}

// List returns quote headers with their snapshot totals, newest first.
func (s *QuoteStore) List(ctx context.Context, f QuoteFilter) ([]models.QuoteRecord, error) {
	q := s.db.WithContext(ctx).Model(&models.QuoteRecord{}).Order("id desc")
	if f.OverDiscount != nil {
		q = q.Where("over_discount = ?", *f.OverDiscount)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var out []models.QuoteRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, goerr.Wrap(err, "list quotes")
	}
	return out, nil
}

// Delete removes a quote and its items.
func (s *QuoteStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec models.QuoteRecord
		if err := tx.Where("public_id = ?", id).First(&rec).Error; err != nil {
			return notFound(err, "quote", id)
		}
		if err := tx.Where("quote_id = ?", rec.ID).Delete(&models.QuoteItemRecord{}).Error; err != nil {
			return goerr.Wrap(err, "delete quote items", goerr.V("quote_id", id))
		}
		if err := tx.Delete(&rec).Error; err != nil {
			return goerr.Wrap(err, "delete quote", goerr.V("quote_id", id))
		}
		return nil
	})
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return goerr.Wrap(ErrNotFound, kind+" not found", goerr.V("id", id))
	}
	return goerr.Wrap(err, "load "+kind, goerr.V("id", id))
}
