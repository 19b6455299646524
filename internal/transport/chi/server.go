// Package chi exposes the query and judging services over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/domain"
	"github.com/kailas-cloud/vecjudge/internal/domain/verdict"
	logpkg "github.com/kailas-cloud/vecjudge/internal/logger"
	askuc "github.com/kailas-cloud/vecjudge/internal/usecase/ask"
	corpusuc "github.com/kailas-cloud/vecjudge/internal/usecase/corpus"
	healthuc "github.com/kailas-cloud/vecjudge/internal/usecase/health"
)

// maxBodyBytes bounds request bodies. Context documents dominate judge requests.
const maxBodyBytes = 4 << 20

// Asker answers questions from the index.
type Asker interface {
	Ask(ctx context.Context, question string, k int) (askuc.Answer, error)
}

// Judge scores answers against a rubric resolved by identifier.
type Judge interface {
	JudgeByID(ctx context.Context, question, answer string, contextDocs []string, rubricID string) (verdict.Result, error)
}

// Corpus reports and rebuilds the served index.
type Corpus interface {
	Current() corpusuc.Summary
	Rebuild(ctx context.Context) (corpusuc.Summary, error)
}

// RubricLister lists the available rubric identifiers.
type RubricLister interface {
	List(ctx context.Context) ([]string, error)
}

// HealthReporter aggregates component health.
type HealthReporter interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the HTTP API.
type Server struct {
	ask           Asker
	judge         Judge
	corpus        Corpus
	rubrics       RubricLister
	health        HealthReporter
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ask Asker,
	judge Judge,
	corpus Corpus,
	rubrics RubricLister,
	health HealthReporter,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ask:     ask,
		judge:   judge,
		corpus:  corpus,
		rubrics: rubrics,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		rubricNotFoundHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrInvalidRubric, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Root)
	r.Post("/ask", s.Ask)
	r.Post("/judge", s.Judge)
	r.Post("/reindex", s.Reindex)
	r.Get("/rubrics", s.ListRubrics)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.corpus.Current())
}

// Ask handles POST /ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	answer, err := s.ask.Ask(r.Context(), req.Question, req.K)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// Judge handles POST /judge.
func (s *Server) Judge(w http.ResponseWriter, r *http.Request) {
	var req JudgeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rubricID := req.RubricID
	if rubricID == "" && req.RubricPath != "" {
		rubricID = path.Base(strings.ReplaceAll(req.RubricPath, `\`, "/"))
	}

	res, err := s.judge.JudgeByID(r.Context(), req.Question, req.Answer, req.ContextDocs, rubricID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Reindex handles POST /reindex.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	sum, err := s.corpus.Rebuild(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sum)
}

// ListRubrics handles GET /rubrics.
func (s *Server) ListRubrics(w http.ResponseWriter, r *http.Request) {
	ids, err := s.rubrics.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, http.StatusOK, RubricListResponse{Rubrics: ids})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// safeDomainMessage returns a client-facing message for err. Validation and
// not-found errors keep their detail; everything else is masked.
func safeDomainMessage(err error) string {
	var invalid *domain.InvalidRubricError
	if errors.As(err, &invalid) {
		return invalid.Error()
	}
	var notFound *domain.RubricNotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}

	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}

	sentinels := []error{
		domain.ErrInvalidRubric,
		domain.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func rubricNotFoundHandler(w http.ResponseWriter, err error, msg string) bool {
	var notFound *domain.RubricNotFoundError
	if !errors.As(err, &notFound) {
		return false
	}
	writeError(w, http.StatusNotFound, ErrorResponseCodeRubricNotFound, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
