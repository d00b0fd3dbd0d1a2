// Package risk turns the observable attributes of a contract into weighted
// risk factors and aggregates them into a 0-100 score and a level.
package risk

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Category groups risk factors by business domain.
type Category string

const (
	CategoryFinancial    Category = "financial"
	CategoryLegal        Category = "legal"
	CategoryOperational  Category = "operational"
	CategoryCompliance   Category = "compliance"
	CategoryReputational Category = "reputational"
)

// Validate checks that c is one of the known categories.
func (c Category) Validate() error {
	switch c {
	case CategoryFinancial, CategoryLegal, CategoryOperational, CategoryCompliance, CategoryReputational:
		return nil
	}
	return goerr.Wrap(ErrUnknownValue, "unknown risk category", goerr.V("category", string(c)))
}

// Severity is how bad a factor is when it materializes.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// SeverityScores maps every severity to its contribution to the score.
var SeverityScores = map[Severity]int{
	SeverityCritical: 90,
	SeverityHigh:     75,
	SeverityMedium:   60,
	SeverityLow:      25,
}

// Score returns the table value for s, or 0 for an unknown severity.
func (s Severity) Score() int {
	return SeverityScores[s]
}

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseSeverity parses the lowercase severity names.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	}
	return 0, goerr.Wrap(ErrUnknownValue, "unknown severity", goerr.V("severity", s))
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Likelihood is how probable a factor is. It is carried for display and
// does not enter the score.
type Likelihood int

const (
	LikelihoodUnknown Likelihood = iota
	LikelihoodRare
	LikelihoodUnlikely
	LikelihoodPossible
	LikelihoodLikely
	LikelihoodCertain
)

var likelihoodNames = []string{"unknown", "rare", "unlikely", "possible", "likely", "certain"}

func (l Likelihood) String() string {
	if l < 0 || int(l) >= len(likelihoodNames) {
		return "unknown"
	}
	return likelihoodNames[l]
}

// ParseLikelihood parses the lowercase likelihood names; empty means unknown.
func ParseLikelihood(s string) (Likelihood, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LikelihoodUnknown, nil
	}
	for i, name := range likelihoodNames {
		if name == s {
			return Likelihood(i), nil
		}
	}
	return LikelihoodUnknown, goerr.Wrap(ErrUnknownValue, "unknown likelihood", goerr.V("likelihood", s))
}

func (l Likelihood) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Likelihood) UnmarshalText(b []byte) error {
	v, err := ParseLikelihood(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Level is the bucket a score falls into.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Levels lists the levels from lowest to highest.
var Levels = []Level{LevelLow, LevelMedium, LevelHigh, LevelCritical}

// LevelFromScore buckets a score: <26 low, 26-50 medium, 51-75 high, 76+ critical.
func LevelFromScore(score int) Level {
	switch {
	case score >= 76:
		return LevelCritical
	case score >= 51:
		return LevelHigh
	case score >= 26:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ParseLevel parses a level name.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return l, nil
		}
	}
	return "", goerr.Wrap(ErrUnknownValue, "unknown risk level", goerr.V("level", s))
}
