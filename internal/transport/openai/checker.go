// Package openai implements the semantic rule checker over an OpenAI-compatible chat API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/domain"
	"github.com/kailas-cloud/vecjudge/internal/metrics"
)

// zeroTemperature is the smallest temperature go-openai will serialize.
// A literal 0 is dropped by omitempty and the server default applies.
const zeroTemperature = math.SmallestNonzeroFloat32

const promptTemplate = `You are a rigorous evaluator.
Rule: %s
Question: %s
Answer: %s
Context:
%s

Respond ONLY with PASS or FAIL based on the rule.`

// Checker asks a chat model whether an answer satisfies a rule.
type Checker struct {
	client          *openai.Client
	model           string
	maxContextChars int
	logger          *zap.Logger
}

// Config holds the semantic checker settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// MaxContextChars truncates the context sent to the model. Zero sends it whole.
	MaxContextChars int
	Logger          *zap.Logger
}

// NewChecker creates an OpenAI-compatible semantic checker.
func NewChecker(cfg *Config) *Checker {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Checker{
		client:          openai.NewClientWithConfig(clientCfg),
		model:           cfg.Model,
		maxContextChars: cfg.MaxContextChars,
		logger:          cfg.Logger,
	}
}

// Model returns the configured chat model.
func (c *Checker) Model() string { return c.model }

// Ask implements domain.SemanticChecker. A reply that starts with neither
// PASS nor FAIL is VerdictInconclusive with a nil error.
func (c *Checker) Ask(ctx context.Context, question, answer, contextText, rule string) (domain.Verdict, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: c.prompt(question, answer, contextText, rule),
		}},
		Temperature: zeroTemperature,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.SemanticRequestsTotal.WithLabelValues(c.model, "error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			metrics.SemanticErrorsTotal.WithLabelValues(c.model, "timeout").Inc()
			return domain.VerdictInconclusive, fmt.Errorf("semantic request: %w", ctxErr)
		}
		metrics.SemanticErrorsTotal.WithLabelValues(c.model, "api_error").Inc()
		return domain.VerdictInconclusive, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.SemanticRequestsTotal.WithLabelValues(c.model, "error").Inc()
		metrics.SemanticErrorsTotal.WithLabelValues(c.model, "empty_response").Inc()
		return domain.VerdictInconclusive, fmt.Errorf("empty chat response: %w", domain.ErrSemanticProviderError)
	}

	metrics.SemanticRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.SemanticRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	reply := resp.Choices[0].Message.Content
	v := domain.ParseVerdict(reply)
	if !v.IsDefinite() {
		metrics.SemanticErrorsTotal.WithLabelValues(c.model, "inconclusive").Inc()
		c.logger.Debug("Inconclusive semantic reply", zap.String("model", c.model), zap.String("reply", truncate(reply, 200)))
	}
	return v, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Checker) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (c *Checker) prompt(question, answer, contextText, rule string) string {
	if c.maxContextChars > 0 {
		contextText = truncate(contextText, c.maxContextChars)
	}
	return fmt.Sprintf(promptTemplate, rule, question, answer, contextText)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrSemanticProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrSemanticProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = strings.TrimSpace(string(reqErr.Body))
		}
		return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("chat request failed: %w: %w", wrap, err)
}

// extractDetail reads the "detail" field some OpenAI-compatible gateways return.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
