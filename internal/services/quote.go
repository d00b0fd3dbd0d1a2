package services

import (
	"context"
	"log/slog"

	"github.com/diewo77/dashcore/internal/metrics"
	"github.com/diewo77/dashcore/internal/models"
	"github.com/diewo77/dashcore/internal/store"
	"github.com/diewo77/dashcore/pricing"
)

// QuoteRepository is the persistence used by QuoteService.
type QuoteRepository interface {
	Save(ctx context.Context, ref string, doc pricing.Document) (*store.StoredQuote, error)
	Update(ctx context.Context, id, ref string, doc pricing.Document) (*store.StoredQuote, error)
	Get(ctx context.Context, id string) (*store.StoredQuote, error)
	List(ctx context.Context, f store.QuoteFilter) ([]models.QuoteRecord, error)
	Delete(ctx context.Context, id string) error
}

type QuoteService struct {
	repo   QuoteRepository
	logger *slog.Logger
}

func NewQuoteService(repo QuoteRepository, logger *slog.Logger) *QuoteService {
	return &QuoteService{repo: repo, logger: logger}
}

// Compute returns the totals of doc without persisting anything.
func (s *QuoteService) Compute(doc pricing.Document) (pricing.Totals, error) {
	t, err := doc.Totals()
	s.observe(doc, t, err)
	return t, err
}

func (s *QuoteService) Save(ctx context.Context, ref string, doc pricing.Document) (*store.StoredQuote, error) {
	q, err := s.repo.Save(ctx, ref, doc)
	if err != nil {
		s.observe(doc, pricing.Totals{}, err)
		return nil, err
	}
	s.observe(doc, q.Totals, nil)
	s.logger.Info("quote saved", "quote_id", q.ID, "reference", ref, "total", q.Totals.TotalAmount.String())
	return q, nil
}

func (s *QuoteService) Update(ctx context.Context, id, ref string, doc pricing.Document) (*store.StoredQuote, error) {
	q, err := s.repo.Update(ctx, id, ref, doc)
	if err != nil {
		s.observe(doc, pricing.Totals{}, err)
		return nil, err
	}
	s.observe(doc, q.Totals, nil)
	s.logger.Info("quote updated", "quote_id", id, "reference", q.Reference, "total", q.Totals.TotalAmount.String())
	return q, nil
}

func (s *QuoteService) Get(ctx context.Context, id string) (*store.StoredQuote, error) {
	return s.repo.Get(ctx, id)
}

func (s *QuoteService) List(ctx context.Context, f store.QuoteFilter) ([]models.QuoteRecord, error) {
	return s.repo.List(ctx, f)
}

func (s *QuoteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("quote deleted", "quote_id", id)
	return nil
}

func (s *QuoteService) observe(doc pricing.Document, t pricing.Totals, err error) {
	metrics.ObserveQuote(doc.TaxMode.String(), err, t.OverDiscount)
	if err == nil && t.OverDiscount {
		s.logger.Warn("discount exceeds its base",
			"tax_mode", doc.TaxMode.String(),
			"subtotal", t.Subtotal.String(),
			"after_discount", t.AfterDiscount.String(),
		)
	}
}
