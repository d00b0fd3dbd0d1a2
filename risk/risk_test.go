package risk_test

import (
	"errors"
	"testing"
	"testing/quick"
	"time"

	"github.com/diewo77/dashcore/risk"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factorsOf(sevs ...risk.Severity) []risk.Factor {
	out := make([]risk.Factor, len(sevs))
	for i, s := range sevs {
		out[i] = risk.Factor{Category: risk.CategoryFinancial, Severity: s}
	}
	return out
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		sevs  []risk.Severity
		score int
		level risk.Level
	}{
		{"empty", nil, 0, risk.LevelLow},
		{"critical and medium", []risk.Severity{risk.SeverityCritical, risk.SeverityMedium}, 75, risk.LevelHigh},
		{"single low", []risk.Severity{risk.SeverityLow}, 25, risk.LevelLow},
		{"single critical", []risk.Severity{risk.SeverityCritical}, 90, risk.LevelCritical},
		{"rounds half up", []risk.Severity{risk.SeverityHigh, risk.SeverityMedium}, 68, risk.LevelHigh},
		{"low and medium", []risk.Severity{risk.SeverityLow, risk.SeverityMedium}, 43, risk.LevelMedium},
		{"duplicates count", []risk.Severity{risk.SeverityLow, risk.SeverityLow, risk.SeverityCritical}, 47, risk.LevelMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := risk.Aggregate(factorsOf(tt.sevs...))
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.level, got.Level)
			assert.Len(t, got.Factors, len(tt.sevs))
		})
	}
}

func TestLevelFromScore(t *testing.T) {
	tests := map[int]risk.Level{
		0: risk.LevelLow, 25: risk.LevelLow,
		26: risk.LevelMedium, 50: risk.LevelMedium,
		51: risk.LevelHigh, 75: risk.LevelHigh,
		76: risk.LevelCritical, 100: risk.LevelCritical,
	}
	for score, want := range tests {
		assert.Equal(t, want, risk.LevelFromScore(score), "score %d", score)
	}
}

func severityFrom(b uint8) risk.Severity {
	return risk.Severity(int(b)%4 + 1)
}

func TestAggregate_Bounds(t *testing.T) {
	prop := func(raw []uint8) bool {
		sevs := make([]risk.Severity, len(raw))
		for i, b := range raw {
			sevs[i] = severityFrom(b)
		}
		got := risk.Aggregate(factorsOf(sevs...))
		if len(raw) == 0 {
			return got.Score == 0 && got.Level == risk.LevelLow
		}
		return got.Score >= 0 && got.Score <= 100 && got.Level == risk.LevelFromScore(got.Score)
	}
	require.NoError(t, quick.Check(prop, nil))
}

func TestAggregate_SeverityUpgradeNeverLowersScore(t *testing.T) {
	prop := func(raw []uint8, pick uint8) bool {
		if len(raw) == 0 {
			return true
		}
		sevs := make([]risk.Severity, len(raw))
		for i, b := range raw {
			sevs[i] = severityFrom(b)
		}
		i := int(pick) % len(sevs)
		if sevs[i] == risk.SeverityCritical {
			return true
		}
		before := risk.Aggregate(factorsOf(sevs...))
		sevs[i]++
		after := risk.Aggregate(factorsOf(sevs...))
		return after.Score >= before.Score
	}
	require.NoError(t, quick.Check(prop, nil))
}

func TestSeverityScores(t *testing.T) {
	assert.Equal(t, 90, risk.SeverityCritical.Score())
	assert.Equal(t, 75, risk.SeverityHigh.Score())
	assert.Equal(t, 60, risk.SeverityMedium.Score())
	assert.Equal(t, 25, risk.SeverityLow.Score())
	assert.Equal(t, 0, risk.Severity(0).Score())
}

func dec(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func codes(factors []risk.Factor) []string {
	out := make([]string, len(factors))
	for i, f := range factors {
		out[i] = f.Code
	}
	return out
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	soon := now.AddDate(0, 0, 10)
	past := now.AddDate(0, 0, -1)
	later := now.AddDate(1, 0, 0)
	edge := now.Add(30 * 24 * time.Hour)

	tests := []struct {
		name     string
		contract risk.Contract
		want     []string
		score    int
		level    risk.Level
	}{
		{
			name: "healthy contract",
			contract: risk.Contract{
				Counterparty: "ACME", Value: dec("5000"), ExpirationDate: &later,
				Compliance: map[string]bool{"gdpr": true},
			},
			want: []string{}, score: 0, level: risk.LevelLow,
		},
		{
			name: "high value, expiring, gdpr unset",
			contract: risk.Contract{
				Counterparty: "ACME", Value: dec("150000"), ExpirationDate: &soon,
				Compliance: map[string]bool{"gdpr": false},
			},
			want:  []string{risk.CodeValueHigh, risk.CodeExpiring, "compliance_gdpr_unset"},
			score: 80, level: risk.LevelCritical,
		},
		{
			name:     "incomplete data skips checks",
			contract: risk.Contract{Counterparty: "ACME"},
			want:     []string{risk.CodeValueMissing},
			score:    60, level: risk.LevelHigh,
		},
		{
			name:     "expired",
			contract: risk.Contract{Counterparty: "ACME", Value: dec("10"), ExpirationDate: &past},
			want:     []string{risk.CodeExpired},
			score:    90, level: risk.LevelCritical,
		},
		{
			name:     "expiry exactly at the window edge counts as expiring",
			contract: risk.Contract{Counterparty: "ACME", Value: dec("10"), ExpirationDate: &edge},
			want:     []string{risk.CodeExpiring},
			score:    75, level: risk.LevelHigh,
		},
		{
			name:     "threshold itself is not high value",
			contract: risk.Contract{Counterparty: "ACME", Value: dec("100000")},
			want:     []string{},
			score:    0, level: risk.LevelLow,
		},
		{
			name:     "negative value and missing counterparty",
			contract: risk.Contract{Value: dec("-1"), Compliance: map[string]bool{"GDPR": true}},
			want:     []string{risk.CodeValueNegative, risk.CodeCounterpartyMissing},
			score:    58, level: risk.LevelHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factors := risk.Evaluate(tt.contract, risk.DefaultRules(), now)
			assert.Equal(t, tt.want, append([]string{}, codes(factors)...))

			got := risk.Assess(tt.contract, risk.DefaultRules(), now)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.level, got.Level)
		})
	}
}

func TestEvaluate_CustomCompliance(t *testing.T) {
	rules := risk.DefaultRules()
	rules.RequiredCompliance = []string{"gdpr", "soc2"}

	factors := risk.Evaluate(risk.Contract{
		Counterparty: "ACME", Value: dec("1"),
		Compliance: map[string]bool{"gdpr": true},
	}, rules, time.Now())

	require.Len(t, factors, 1)
	assert.Equal(t, "compliance_soc2_unset", factors[0].Code)
	assert.Equal(t, risk.SeverityHigh, factors[0].Severity)
	assert.Equal(t, risk.CategoryCompliance, factors[0].Category)
}

func TestRules_Validate(t *testing.T) {
	require.NoError(t, risk.DefaultRules().Validate())

	r := risk.DefaultRules()
	r.ExpiryWindow = 0
	assert.True(t, errors.Is(r.Validate(), risk.ErrInvalidRules))

	r = risk.DefaultRules()
	r.HighValueThreshold = decimal.NewFromInt(-1)
	assert.True(t, errors.Is(r.Validate(), risk.ErrInvalidRules))

	r = risk.DefaultRules()
	r.RequiredCompliance = []string{" "}
	assert.True(t, errors.Is(r.Validate(), risk.ErrInvalidRules))
}

func TestParse(t *testing.T) {
	s, err := risk.ParseSeverity("HIGH")
	require.NoError(t, err)
	assert.Equal(t, risk.SeverityHigh, s)

	_, err = risk.ParseSeverity("extreme")
	assert.True(t, errors.Is(err, risk.ErrUnknownValue))

	l, err := risk.ParseLikelihood("certain")
	require.NoError(t, err)
	assert.Equal(t, risk.LikelihoodCertain, l)

	lvl, err := risk.ParseLevel("Critical")
	require.NoError(t, err)
	assert.Equal(t, risk.LevelCritical, lvl)

	assert.Error(t, risk.Category("weather").Validate())
	assert.NoError(t, risk.CategoryLegal.Validate())
}

func TestAssessment_Helpers(t *testing.T) {
	a := risk.Aggregate([]risk.Factor{
		{Code: "a", Category: risk.CategoryLegal, Severity: risk.SeverityLow},
		{Code: "b", Category: risk.CategoryLegal, Severity: risk.SeverityCritical},
		{Code: "c", Category: risk.CategoryFinancial, Severity: risk.SeverityHigh},
	})
	top, ok := a.Highest()
	require.True(t, ok)
	assert.Equal(t, "b", top.Code)
	assert.Equal(t, map[risk.Category]int{risk.CategoryLegal: 2, risk.CategoryFinancial: 1}, a.CountBy())

	_, ok = risk.Aggregate(nil).Highest()
	assert.False(t, ok)
}
