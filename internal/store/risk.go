package store

import (
	"context"
	"time"

	"github.com/diewo77/dashcore/internal/models"
	"github.com/diewo77/dashcore/risk"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoredAssessment is the persisted assessment of one contract.
type StoredAssessment struct {
	ID          string
	ContractRef string
	AssessedAt  time.Time
	Assessment  risk.Assessment
}

type RiskStore struct {
	db *gorm.DB
}

func NewRiskStore(db *gorm.DB) *RiskStore {
	return &RiskStore{db: db}
}

func orderedFactors(db *gorm.DB) *gorm.DB { return db.Order("position") }

// Replace upserts the assessment of the contract and swaps its factors for
// those of a. The result never mixes factors of two assessments. Concurrent
// callers for the same contract serialize on the contract_ref row.
func (s *RiskStore) Replace(ctx context.Context, contractRef string, a risk.Assessment, at time.Time) (*StoredAssessment, error) {
	rec := models.NewRiskAssessmentRecord(uuid.NewString(), contractRef, a, at)
	factors := rec.Factors
	rec.Factors = nil

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contract_ref"}},
			DoUpdates: clause.AssignmentColumns([]string{"public_id", "score", "level", "assessed_at"}),
		}).Create(rec).Error
		if err != nil {
			return goerr.Wrap(err, "upsert assessment", goerr.V("contract_ref", contractRef))
		}

		// The returned id is not reliable after a conflict update on sqlite.
		var cur models.RiskAssessmentRecord
		if err := tx.Select("id").Where("contract_ref = ?", contractRef).First(&cur).Error; err != nil {
			return goerr.Wrap(err, "reload assessment", goerr.V("contract_ref", contractRef))
		}
		if err := tx.Where("assessment_id = ?", cur.ID).Delete(&models.RiskFactorRecord{}).Error; err != nil {
			return goerr.Wrap(err, "delete previous factors", goerr.V("contract_ref", contractRef))
		}
		if len(factors) == 0 {
			return nil
		}
		for i := range factors {
			factors[i].AssessmentID = cur.ID
		}
		if err := tx.Create(&factors).Error; err != nil {
			return goerr.Wrap(err, "insert factors", goerr.V("contract_ref", contractRef))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &StoredAssessment{ID: rec.PublicID, ContractRef: contractRef, AssessedAt: at, Assessment: a}, nil
}

// Get returns the current assessment of a contract.
func (s *RiskStore) Get(ctx context.Context, contractRef string) (*StoredAssessment, error) {
	var rec models.RiskAssessmentRecord
	err := s.db.WithContext(ctx).
		Preload("Factors", orderedFactors).
		Where("contract_ref = ?", contractRef).
		First(&rec).Error
	if err != nil {
		return nil, notFound(err, "risk assessment", contractRef)
	}
	return toStored(&rec)
}

// ListByLevel returns assessments at the given level, or all of them when
// level is empty, highest score first.
func (s *RiskStore) ListByLevel(ctx context.Context, level risk.Level) ([]StoredAssessment, error) {
	q := s.db.WithContext(ctx).Preload("Factors", orderedFactors).Order("score desc, id")
	if level != "" {
		q = q.Where("level = ?", string(level))
	}
	var recs []models.RiskAssessmentRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "list risk assessments", goerr.V("level", string(level)))
	}
	out := make([]StoredAssessment, 0, len(recs))
	for i := range recs {
		sa, err := toStored(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *sa)
	}
	return out, nil
}

func toStored(rec *models.RiskAssessmentRecord) (*StoredAssessment, error) {
	a, err := rec.Assessment()
	if err != nil {
		return nil, goerr.Wrap(err, "decode stored assessment", goerr.V("contract_ref", rec.ContractRef))
	}
	return &StoredAssessment{
		ID:          rec.PublicID,
		ContractRef: rec.ContractRef,
		AssessedAt:  rec.AssessedAt,
		Assessment:  a,
	}, nil
}
