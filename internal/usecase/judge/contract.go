package judge

import (
	"context"

	"github.com/kailas-cloud/vecjudge/internal/domain/rubric"
)

// RubricSource resolves a rubric identifier to a parsed rubric.
type RubricSource interface {
	Load(ctx context.Context, id string) (rubric.Rubric, error)
}

// RuleEvaluator scores a single rule. Implementations never fail: an
// uncertain outcome is reported as not passed.
type RuleEvaluator interface {
	Evaluate(ctx context.Context, rule *rubric.Rule, answer, contextText, question string) bool
}
