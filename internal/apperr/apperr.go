// Package apperr is the error vocabulary shared by the product usecase and
// whatever routing layer sits in front of it.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is matching.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failure")
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// FieldIssue is a single rejected field.
type FieldIssue struct {
	Field  string
	Reason string
}

// ValidationError reports caller-supplied data that failed structural or
// type checks. It is raised before any store access.
type ValidationError struct {
	Issues []FieldIssue
}

// Invalid builds a ValidationError for one field.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Issues: []FieldIssue{{Field: field, Reason: reason}}}
}

// Add appends an issue.
func (e *ValidationError) Add(field, reason string) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Reason: reason})
}

// HasIssues reports whether any issue was recorded.
func (e *ValidationError) HasIssues() bool {
	return e != nil && len(e.Issues) > 0
}

// Field returns the first offending field name.
func (e *ValidationError) Field() string {
	if len(e.Issues) == 0 {
		return ""
	}
	return e.Issues[0].Field
}

// Fields maps each offending field to its reason. The first reason wins
// when a field is reported twice.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Issues))
	for _, is := range e.Issues {
		if _, ok := out[is.Field]; !ok {
			out[is.Field] = is.Reason
		}
	}
	return out
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", is.Field, is.Reason))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports that no document matched the addressed identifier.
type NotFoundError struct {
	ID string
}

// NotFound builds a NotFoundError for id.
func NotFound(id string) *NotFoundError {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with ID %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PersistenceError wraps a failure of the store itself. The cause stays
// reachable through Unwrap, so context cancellation remains detectable.
type PersistenceError struct {
	Op  string
	Err error
}

// Persistence wraps err as a PersistenceError for the named store operation.
func Persistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// KindOf classifies err. Wrapped errors are unwrapped.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	default:
		return KindUnknown
	}
}
