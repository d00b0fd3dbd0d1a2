package risk

import "math"

// Factor is one detected condition contributing to a contract's risk.
type Factor struct {
	Code        string     `json:"code"`
	Category    Category   `json:"category"`
	Severity    Severity   `json:"severity"`
	Likelihood  Likelihood `json:"likelihood"`
	Description string     `json:"description,omitempty"`
}

// Assessment is the aggregated result for one set of factors.
type Assessment struct {
	Score   int      `json:"risk_score"`
	Level   Level    `json:"risk_level"`
	Factors []Factor `json:"factors"`
}

// Aggregate scores factors as the rounded mean of their severity scores.
// Every factor weighs 1 and duplicates count independently. An empty set
// scores 0.
func Aggregate(factors []Factor) Assessment {
	out := Assessment{Factors: append([]Factor{}, factors...)}
	if len(factors) == 0 {
		out.Level = LevelFromScore(0)
		return out
	}

	sum := 0
	for _, f := range factors {
		sum += f.Severity.Score()
	}
	score := int(math.Round(float64(sum) / float64(len(factors))))
	out.Score = min(max(score, 0), 100)
	out.Level = LevelFromScore(out.Score)
	return out
}

// Highest returns the most severe factor, or false when there is none.
func (a Assessment) Highest() (Factor, bool) {
	if len(a.Factors) == 0 {
		return Factor{}, false
	}
	top := a.Factors[0]
	for _, f := range a.Factors[1:] {
		if f.Severity > top.Severity {
			top = f
		}
	}
	return top, true
}

// CountBy returns how many factors fall in each category.
func (a Assessment) CountBy() map[Category]int {
	out := make(map[Category]int)
	for _, f := range a.Factors {
		out[f.Category]++
	}
	return out
}
