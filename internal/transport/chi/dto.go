package chi

import (
	"encoding/json"
	"net/http"
)

// ErrorResponseCode is the machine-readable error code of an API error.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeRubricNotFound   ErrorResponseCode = "rubric_not_found"
	ErrorResponseCodeNotFound         ErrorResponseCode = "not_found"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
	K        int    `json:"k"`
}

// JudgeRequest is the body of POST /judge.
// RubricPath is accepted for older clients; only its base name is used.
type JudgeRequest struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	ContextDocs []string `json:"context_docs"`
	RubricID    string   `json:"rubric_id"`
	RubricPath  string   `json:"rubric_path"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// RubricListResponse is the body of GET /rubrics.
type RubricListResponse struct {
	Rubrics []string `json:"rubrics"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
