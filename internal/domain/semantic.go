package domain

import (
	"context"
	"strings"
)

// Verdict is the answer of a semantic checker for a single rule.
type Verdict string

// Semantic verdicts.
const (
	VerdictPass         Verdict = "PASS"
	VerdictFail         Verdict = "FAIL"
	VerdictInconclusive Verdict = "inconclusive"
)

// ParseVerdict reads a free-form model reply. Anything that does not start
// with PASS or FAIL is inconclusive.
func ParseVerdict(reply string) Verdict {
	s := strings.ToUpper(strings.TrimSpace(reply))
	switch {
	case strings.HasPrefix(s, string(VerdictPass)):
		return VerdictPass
	case strings.HasPrefix(s, string(VerdictFail)):
		return VerdictFail
	default:
		return VerdictInconclusive
	}
}

// IsDefinite reports whether the verdict is PASS or FAIL.
func (v Verdict) IsDefinite() bool {
	return v == VerdictPass || v == VerdictFail
}

// SemanticChecker is the shared contract for model-based rule evaluation.
type SemanticChecker interface {
	Ask(ctx context.Context, question, answer, contextText, rule string) (Verdict, error)
}

// HealthChecker verifies backend availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// KeyPrefix namespaces every key this service writes to the KV store.
const KeyPrefix = "vecjudge:"
