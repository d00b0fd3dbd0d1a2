package models

import (
	"time"

	"github.com/diewo77/dashcore/risk"
)

// RiskAssessmentRecord is the latest assessment of one contract.
type RiskAssessmentRecord struct {
	ID          uint      `gorm:"primaryKey"`
	PublicID    string    `gorm:"size:36;uniqueIndex;not null"`
	ContractRef string    `gorm:"size:100;uniqueIndex;not null"`
	Score       int       `gorm:"not null"`
	Level       string    `gorm:"size:20;index;not null"`
	AssessedAt  time.Time `gorm:"not null"`
	CreatedAt   time.Time

	Factors []RiskFactorRecord `gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE"`
}

func (RiskAssessmentRecord) TableName() string { return "risk_assessments" }

type RiskFactorRecord struct {
	ID           uint   `gorm:"primaryKey"`
	AssessmentID uint   `gorm:"index;not null"`
	Position     int    `gorm:"not null"`
	Code         string `gorm:"size:100;not null"`
	Category     string `gorm:"size:20;not null"`
	Severity     string `gorm:"size:20;not null"`
	Likelihood   string `gorm:"size:20"`
	Description  string `gorm:"size:500"`
}

func (RiskFactorRecord) TableName() string { return "risk_factors" }

// NewRiskAssessmentRecord flattens an assessment for storage.
func NewRiskAssessmentRecord(publicID, contractRef string, a risk.Assessment, at time.Time) *RiskAssessmentRecord {
	rec := &RiskAssessmentRecord{
		PublicID:    publicID,
		ContractRef: contractRef,
		Score:       a.Score,
		Level:       string(a.Level),
		AssessedAt:  at,
		Factors:     make([]RiskFactorRecord, len(a.Factors)),
	}
	for i, f := range a.Factors {
		rec.Factors[i] = RiskFactorRecord{
			Position:    i,
			Code:        f.Code,
			Category:    string(f.Category),
			Severity:    f.Severity.String(),
			Likelihood:  f.Likelihood.String(),
			Description: f.Description,
		}
	}
	return rec
}

// Assessment converts the record back. Score and level are taken as stored.
func (r *RiskAssessmentRecord) Assessment() (risk.Assessment, error) {
	out := risk.Assessment{
		Score:   r.Score,
		Level:   risk.Level(r.Level),
		Factors: make([]risk.Factor, len(r.Factors)),
	}
	for i, f := range r.Factors {
		sev, err := risk.ParseSeverity(f.Severity)
		if err != nil {
			return risk.Assessment{}, err
		}
		lik, err := risk.ParseLikelihood(f.Likelihood)
		if err != nil {
			return risk.Assessment{}, err
		}
		out.Factors[i] = risk.Factor{
			Code:        f.Code,
			Category:    risk.Category(f.Category),
			Severity:    sev,
			Likelihood:  lik,
			Description: f.Description,
		}
	}
	return out, nil
}
