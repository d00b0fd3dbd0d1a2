package risk

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
)

// Contract holds the attributes the detector looks at. Nil fields are
// unknown and the checks depending on them are skipped.
type Contract struct {
	Counterparty   string
	Value          *decimal.Decimal
	ExpirationDate *time.Time
	// Compliance maps a flag name (gdpr, ...) to whether it is satisfied.
	// A nil map means compliance data was not provided.
	Compliance map[string]bool
}

// Rules parameterizes factor detection.
type Rules struct {
	HighValueThreshold decimal.Decimal
	ExpiryWindow       time.Duration
	RequiredCompliance []string
}

// DefaultRules returns a 100000 high-value threshold, a 30 day expiry window
// and GDPR as the only required compliance flag.
func DefaultRules() Rules {
	return Rules{
		HighValueThreshold: decimal.NewFromInt(100000),
		ExpiryWindow:       30 * 24 * time.Hour,
		RequiredCompliance: []string{"gdpr"},
	}
}

// Validate checks the rule parameters.
func (r Rules) Validate() error {
	if r.HighValueThreshold.IsNegative() {
		return goerr.Wrap(ErrInvalidRules, "high value threshold must not be negative", goerr.V("threshold", r.HighValueThreshold.String()))
	}
	if r.ExpiryWindow <= 0 {
		return goerr.Wrap(ErrInvalidRules, "expiry window must be positive", goerr.V("window", r.ExpiryWindow.String()))
	}
	for _, flag := range r.RequiredCompliance {
		if strings.TrimSpace(flag) == "" {
			return goerr.Wrap(ErrInvalidRules, "empty compliance flag name")
		}
	}
	return nil
}

// Factor codes produced by Evaluate
const (
	CodeValueMissing        = "contract_value_missing"
	CodeValueHigh           = "contract_value_high"
	CodeValueNegative       = "contract_value_negative"
	CodeExpired             = "contract_expired"
	CodeExpiring            = "contract_expiring"
	CodeCounterpartyMissing = "counterparty_missing"
)

// ComplianceCode returns the factor code raised for an unset compliance flag.
func ComplianceCode(flag string) string {
	return "compliance_" + strings.ToLower(flag) + "_unset"
}

// Evaluate runs every check against c and returns the detected factors.
func Evaluate(c Contract, rules Rules, now time.Time) []Factor {
	var factors []Factor

	switch {
	case c.Value == nil:
		factors = append(factors, Factor{
			Code: CodeValueMissing, Category: CategoryFinancial, Severity: SeverityMedium, Likelihood: LikelihoodPossible,
			Description: "contract value is not specified",
		})
	case c.Value.IsNegative():
		factors = append(factors, Factor{
			Code: CodeValueNegative, Category: CategoryFinancial, Severity: SeverityCritical, Likelihood: LikelihoodCertain,
			Description: "contract value is negative",
		})
	case c.Value.GreaterThan(rules.HighValueThreshold):
		factors = append(factors, Factor{
			Code: CodeValueHigh, Category: CategoryFinancial, Severity: SeverityHigh, Likelihood: LikelihoodPossible,
			Description: "contract value exceeds " + rules.HighValueThreshold.String(),
		})
	}

	if c.ExpirationDate != nil {
		switch {
		case c.ExpirationDate.Before(now):
			factors = append(factors, Factor{
				Code: CodeExpired, Category: CategoryOperational, Severity: SeverityCritical, Likelihood: LikelihoodCertain,
				Description: "contract expired on " + c.ExpirationDate.Format(time.DateOnly),
			})
		case !c.ExpirationDate.After(now.Add(rules.ExpiryWindow)):
			factors = append(factors, Factor{
				Code: CodeExpiring, Category: CategoryOperational, Severity: SeverityHigh, Likelihood: LikelihoodLikely,
				Description: "contract expires on " + c.ExpirationDate.Format(time.DateOnly),
			})
		}
	}

	if c.Compliance != nil {
		satisfied := make(map[string]bool, len(c.Compliance))
		for k, v := range c.Compliance {
			satisfied[strings.ToLower(k)] = v
		}
		for _, flag := range rules.RequiredCompliance {
			if satisfied[strings.ToLower(flag)] {
				continue
			}
			sev := SeverityHigh
			if strings.EqualFold(flag, "gdpr") {
				sev = SeverityCritical
			}
			factors = append(factors, Factor{
				Code: ComplianceCode(flag), Category: CategoryCompliance, Severity: sev, Likelihood: LikelihoodLikely,
				Description: strings.ToUpper(flag) + " compliance is not confirmed",
			})
		}
	}

	if strings.TrimSpace(c.Counterparty) == "" {
		factors = append(factors, Factor{
			Code: CodeCounterpartyMissing, Category: CategoryLegal, Severity: SeverityLow, Likelihood: LikelihoodPossible,
			Description: "counterparty is not named",
		})
	}

	return factors
}

// Assess evaluates c and aggregates the resulting factors.
func Assess(c Contract, rules Rules, now time.Time) Assessment {
	return Aggregate(Evaluate(c, rules, now))
}
