package shared

import (
	"sort"
	"strings"
)

// Error codes surfaced across the API boundary.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeBadRequest = "bad_request"
	CodeConflict   = "conflict"
	CodeInternal   = "internal_error"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound   = NewDomainError(CodeNotFound, "Resource not found")
	ErrBadRequest = NewDomainError(CodeBadRequest, "Bad request")
	ErrConflict   = NewDomainError(CodeConflict, "Resource conflict")
	ErrInternal   = NewDomainError(CodeInternal, "Internal error")
)

// ValidationError collects per-field validation messages. A single request
// can violate several constraints at once, so messages accumulate instead
// of short-circuiting on the first failure.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "Validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return "Validation failed: " + strings.Join(names, ", ")
}

// Add appends a message for the given field
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// Merge folds another validation error's messages into this one
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, messages := range other.Fields {
		e.Fields[field] = append(e.Fields[field], messages...)
	}
}

// HasErrors reports whether any field message was recorded
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// AsError returns the validation error as an error, or nil when empty.
// Returning the typed nil directly would yield a non-nil error interface.
func (e *ValidationError) AsError() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}
