// Package verdict holds the structured output of a judging run.
package verdict

import (
	"math"

	"github.com/kailas-cloud/vecjudge/internal/domain/rubric"
)

// RuleVerdict is the outcome of one rule. Order in Result.Details matches the rubric.
type RuleVerdict struct {
	RuleID      string          `json:"rule_id"`
	Description string          `json:"description"`
	Passed      bool            `json:"passed"`
	Weight      float64         `json:"weight"`
	Severity    rubric.Severity `json:"severity"`
}

// RubricSummary identifies the rubric a result was produced with.
type RubricSummary struct {
	Name         string  `json:"name"`
	Version      string  `json:"version"`
	PassingScore float64 `json:"passing_score"`
}

// Result is the aggregate weighted verdict.
type Result struct {
	Score   float64       `json:"score"`
	Passed  bool          `json:"passed"`
	Details []RuleVerdict `json:"details"`
	Rubric  RubricSummary `json:"rubric"`
}

// Summarize extracts the identity fields of a rubric.
func Summarize(r *rubric.Rubric) RubricSummary {
	return RubricSummary{Name: r.Name(), Version: r.Version(), PassingScore: r.PassingScore()}
}

// Round3 rounds half away from zero to 3 decimals.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
