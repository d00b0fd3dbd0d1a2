package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/diewo77/dashcore/internal/metrics"
	"github.com/diewo77/dashcore/internal/store"
	"github.com/diewo77/dashcore/risk"
)

type RiskRepository interface {
	Replace(ctx context.Context, contractRef string, a risk.Assessment, at time.Time) (*store.StoredAssessment, error)
	Get(ctx context.Context, contractRef string) (*store.StoredAssessment, error)
	ListByLevel(ctx context.Context, level risk.Level) ([]store.StoredAssessment, error)
}

type RiskService struct {
	repo   RiskRepository
	rules  risk.Rules
	logger *slog.Logger
	now    func() time.Time
}

type RiskOption func(*RiskService)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) RiskOption {
	return func(s *RiskService) { s.now = now }
}

func NewRiskService(repo RiskRepository, rules risk.Rules, logger *slog.Logger, opts ...RiskOption) *RiskService {
	s := &RiskService{repo: repo, rules: rules, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess evaluates the contract and stores the result in place of any
// previous assessment of the same contract.
func (s *RiskService) Assess(ctx context.Context, contractRef string, c risk.Contract) (*store.StoredAssessment, error) {
	now := s.now()
	a := risk.Assess(c, s.rules, now)

	stored, err := s.repo.Replace(ctx, contractRef, a, now)
	if err != nil {
		return nil, err
	}
	metrics.ObserveRisk(string(a.Level), a.Score)

	log := s.logger.With("contract_ref", contractRef, "risk_score", a.Score, "risk_level", string(a.Level))
	if a.Level == risk.LevelCritical {
		top, _ := a.Highest()
		log.Warn("critical contract risk", "top_factor", top.Code, "factors", len(a.Factors))
	} else {
		log.Info("contract assessed", "factors", len(a.Factors))
	}
	return stored, nil
}

func (s *RiskService) Get(ctx context.Context, contractRef string) (*store.StoredAssessment, error) {
	return s.repo.Get(ctx, contractRef)
}

func (s *RiskService) List(ctx context.Context, level risk.Level) ([]store.StoredAssessment, error) {
	return s.repo.ListByLevel(ctx, level)
}
