// Package checker evaluates a single rubric rule against an answer and its context.
//
// Lexical rules (contains_any, contains_all) are pure substring checks. Every
// other checker kind goes to the semantic capability. Grading is conservative:
// a missing backend, a backend error, a timeout, a panic or an inconclusive
// reply all score the rule as not passed. None of these abort a judging run.
package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/domain"
	"github.com/kailas-cloud/vecjudge/internal/domain/rubric"
	logpkg "github.com/kailas-cloud/vecjudge/internal/logger"
	"github.com/kailas-cloud/vecjudge/internal/metrics"
)

// Rule outcome labels.
const (
	outcomePass         = "pass"
	outcomeFail         = "fail"
	outcomeInconclusive = "inconclusive"
	outcomeError        = "error"
	outcomeTimeout      = "timeout"
	outcomeUnavailable  = "unavailable"
)

// Dispatcher selects the evaluation strategy of a rule.
type Dispatcher struct {
	semantic Capability
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a dispatcher over the given semantic capability.
func New(semantic Capability, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{semantic: semantic, logger: logger}
}

// WithTimeout bounds every semantic call. Zero leaves only the caller deadline.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	d.timeout = timeout
	return d
}

// Semantic returns the configured semantic capability.
func (d *Dispatcher) Semantic() Capability { return d.semantic }

// Evaluate reports whether the rule passes for the answer and context.
func (d *Dispatcher) Evaluate(ctx context.Context, rule *rubric.Rule, answer, contextText, question string) bool {
	checker := rule.Checker()
	if checker.IsLexical() {
		ok := Lexical(checker, rule.Terms(), answer+"\n"+contextText)
		d.record(checker, ok)
		return ok
	}
	return d.evaluateSemantic(ctx, rule, answer, contextText, question)
}

// Lexical lower-cases terms and text and checks substring containment.
// contains_any with no terms fails; contains_all with no terms passes.
func Lexical(kind rubric.Checker, terms []string, text string) bool {
	haystack := strings.ToLower(text)
	switch kind {
	case rubric.ContainsAny:
		for _, t := range terms {
			if strings.Contains(haystack, strings.ToLower(t)) {
				return true
			}
		}
		return false
	case rubric.ContainsAll:
		for _, t := range terms {
			if !strings.Contains(haystack, strings.ToLower(t)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (d *Dispatcher) evaluateSemantic(
	ctx context.Context, rule *rubric.Rule, answer, contextText, question string,
) (passed bool) {
	log := logpkg.FromContext(ctx, d.logger).With(
		zap.String("rule_id", rule.ID()),
		zap.String("checker", string(rule.Checker())),
	)

	if !d.semantic.IsAvailable() {
		log.Warn("Semantic checker unavailable, rule scored as not passed")
		metrics.RuleOutcomesTotal.WithLabelValues(string(rule.Checker()), outcomeUnavailable).Inc()
		return false
	}

	defer func() {
		if rvr := recover(); rvr != nil {
			log.Error("Semantic checker panicked, rule scored as not passed", zap.Any("panic", rvr))
			metrics.RuleOutcomesTotal.WithLabelValues(string(rule.Checker()), outcomeError).Inc()
			passed = false
		}
	}()

	if d.timeout > 0 {
		var cancel func()
		ctx, cancel = contextWithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	v, err := d.semantic.ask(ctx, question, answer, contextText, rule.Description())
	if err != nil {
		outcome := classify(err)
		log.Warn("Semantic check failed, rule scored as not passed",
			zap.String("outcome", outcome),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		metrics.RuleOutcomesTotal.WithLabelValues(string(rule.Checker()), outcome).Inc()
		return false
	}

	switch v {
	case domain.VerdictPass:
		metrics.RuleOutcomesTotal.WithLabelValues(string(rule.Checker()), outcomePass).Inc()
		return true
	case domain.VerdictFail:
		metrics.RuleOutcomesTotal.WithLabelValues(string(rule.Checker()), outcomeFail).Inc()
		return false
	default:
		log.Warn("Semantic check inconclusive, rule scored as not passed", zap.String("verdict", string(v)))
		metrics.RuleOutcomesTotal.WithLabelValues(string(rule.Checker()), outcomeInconclusive).Inc()
		return false
	}
}

func (d *Dispatcher) record(kind rubric.Checker, ok bool) {
	outcome := outcomeFail
	if ok {
		outcome = outcomePass
	}
	metrics.RuleOutcomesTotal.WithLabelValues(string(kind), outcome).Inc()
}

func classify(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return outcomeTimeout
	case errors.Is(err, domain.ErrCheckerUnavailable):
		return outcomeUnavailable
	default:
		return outcomeError
	}
}

func contextWithTimeout(ctx context.Context, d time.Duration) (context.Context, func()) {
	return context.WithTimeoutCause(ctx, d, fmt.Errorf("semantic check exceeded %s: %w", d, context.DeadlineExceeded))
}
