package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource (rubric, corpus folder).
	ErrNotFound = errors.New("not found")
	// ErrInvalidRubric signals a rubric that violates a schema constraint.
	ErrInvalidRubric = errors.New("invalid rubric")
	// ErrInvalidRequest signals a malformed caller request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrCheckerUnavailable signals that no semantic backend is configured.
	ErrCheckerUnavailable = errors.New("semantic checker unavailable")
	// ErrSemanticProviderError signals a semantic backend failure.
	ErrSemanticProviderError = errors.New("semantic provider error")
)

// InvalidRubricError wraps ErrInvalidRubric with the violated field.
type InvalidRubricError struct {
	Field  string
	Reason string
}

func (e *InvalidRubricError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRubric.Error(), e.Field, e.Reason)
}

func (e *InvalidRubricError) Unwrap() error { return ErrInvalidRubric }

// NewInvalidRubric creates an invalid rubric error for field.
func NewInvalidRubric(field, reason string) error {
	return &InvalidRubricError{Field: field, Reason: reason}
}

// RubricNotFoundError wraps ErrNotFound with the unresolved rubric identifier.
type RubricNotFoundError struct {
	ID string
}

func (e *RubricNotFoundError) Error() string {
	return fmt.Sprintf("rubric %q %s", e.ID, ErrNotFound.Error())
}

func (e *RubricNotFoundError) Unwrap() error { return ErrNotFound }

// NewRubricNotFound creates a rubric not found error.
func NewRubricNotFound(id string) error {
	return &RubricNotFoundError{ID: id}
}
