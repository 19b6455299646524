package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckEmpty indicates no indexed chunks. Queries still succeed.
	CheckEmpty CheckResult = "empty"
	// CheckDisabled indicates an optional component that is not configured.
	CheckDisabled CheckResult = "disabled"
)

// Component names.
const (
	componentIndex    = "index"
	componentSemantic = "semantic"
	componentCache    = "cache"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index    IndexReader
	semantic SemanticChecker
	cache    CachePinger
}

// New creates a Service. semantic and cache can be nil when not configured.
func New(index IndexReader, semantic SemanticChecker, cache CachePinger) *Service {
	return &Service{index: index, semantic: semantic, cache: cache}
}

// Check runs health checks against all components. Only CheckError degrades.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 3)

	if s.index.Len() > 0 {
		checks[componentIndex] = CheckOK
	} else {
		checks[componentIndex] = CheckEmpty
	}

	checks[componentSemantic] = CheckDisabled
	if s.semantic != nil {
		checks[componentSemantic] = probe(s.semantic.HealthCheck(ctx))
	}

	checks[componentCache] = CheckDisabled
	if s.cache != nil {
		checks[componentCache] = probe(s.cache.Ping(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func probe(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
