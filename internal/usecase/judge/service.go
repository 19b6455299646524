package judge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/domain/rubric"
	"github.com/kailas-cloud/vecjudge/internal/domain/verdict"
	logpkg "github.com/kailas-cloud/vecjudge/internal/logger"
	"github.com/kailas-cloud/vecjudge/internal/metrics"
)

// contextSeparator joins context documents into the text handed to checkers.
const contextSeparator = "\n\n"

// Service scores answers against rubrics.
type Service struct {
	rules         RuleEvaluator
	source        RubricSource
	defaultRubric string
	logger        *zap.Logger
}

// New creates a judge service. source may be nil when only Judge is used.
func New(rules RuleEvaluator, source RubricSource, defaultRubric string, logger *zap.Logger) *Service {
	return &Service{rules: rules, source: source, defaultRubric: defaultRubric, logger: logger}
}

// JudgeByID resolves the rubric by identifier and judges the answer with it.
// An empty id selects the default rubric.
func (s *Service) JudgeByID(
	ctx context.Context, question, answer string, contextDocs []string, rubricID string,
) (verdict.Result, error) {
	if s.source == nil {
		return verdict.Result{}, fmt.Errorf("judge: no rubric source configured")
	}
	if rubricID == "" {
		rubricID = s.defaultRubric
	}

	rub, err := s.source.Load(ctx, rubricID)
	if err != nil {
		return verdict.Result{}, fmt.Errorf("load rubric: %w", err)
	}
	return s.Judge(ctx, question, answer, contextDocs, &rub), nil
}

// Judge evaluates every rule in declared order and aggregates the weighted score.
// A rubric whose weights sum to zero scores 0.
func (s *Service) Judge(
	ctx context.Context, question, answer string, contextDocs []string, rub *rubric.Rubric,
) verdict.Result {
	start := time.Now()
	contextText := strings.Join(contextDocs, contextSeparator)
	rules := rub.Rules()

	total := 0.0
	for i := range rules {
		total += rules[i].Weight()
	}
	if total == 0 {
		total = 1.0
	}

	earned := 0.0
	details := make([]verdict.RuleVerdict, 0, len(rules))
	for i := range rules {
		rule := &rules[i]
		ok := s.rules.Evaluate(ctx, rule, answer, contextText, question)
		if ok {
			earned += rule.Weight()
		}
		details = append(details, verdict.RuleVerdict{
			RuleID:      rule.ID(),
			Description: rule.Description(),
			Passed:      ok,
			Weight:      rule.Weight(),
			Severity:    rule.Severity(),
		})
	}

	score := verdict.Round3(earned / total)
	res := verdict.Result{
		Score:   score,
		Passed:  score >= rub.PassingScore(),
		Details: details,
		Rubric:  verdict.Summarize(rub),
	}

	outcome := "fail"
	if res.Passed {
		outcome = "pass"
	}
	metrics.JudgeRunsTotal.WithLabelValues(rub.Key(), outcome).Inc()

	logpkg.FromContext(ctx, s.logger).Debug("Answer judged",
		zap.String("rubric", rub.Key()),
		zap.Float64("score", res.Score),
		zap.Bool("passed", res.Passed),
		zap.Int("rules", len(rules)),
		zap.Duration("duration", time.Since(start)),
	)
	return res
}
