package checker

import (
	"context"

	"github.com/kailas-cloud/vecjudge/internal/domain"
)

// Capability is the semantic backend selected once at startup: Available(backend) or Unavailable().
type Capability struct {
	backend domain.SemanticChecker
}

// Available wraps a configured semantic backend. A nil backend is Unavailable.
func Available(backend domain.SemanticChecker) Capability {
	return Capability{backend: backend}
}

// Unavailable is the capability used when no semantic backend is configured.
func Unavailable() Capability {
	return Capability{}
}

// IsAvailable reports whether a backend is configured.
func (c Capability) IsAvailable() bool {
	return c.backend != nil
}

// HealthCheck probes the backend when it supports health checks.
func (c Capability) HealthCheck(ctx context.Context) error {
	if c.backend == nil {
		return domain.ErrCheckerUnavailable
	}
	if hc, ok := c.backend.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // backend errors are already wrapped
	}
	return nil
}

func (c Capability) ask(ctx context.Context, question, answer, contextText, rule string) (domain.Verdict, error) {
	if c.backend == nil {
		return domain.VerdictInconclusive, domain.ErrCheckerUnavailable
	}
	return c.backend.Ask(ctx, question, answer, contextText, rule) //nolint:wrapcheck // classified by caller
}
