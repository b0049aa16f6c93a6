package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced in the API error envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeGeneration   = "GENERATION_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// Error is a business-rule failure carrying the HTTP status and wire code the
// boundary translates it to. Anything that is not an *Error surfaces as a
// generic internal error.
type Error struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports malformed input or a failed business precondition.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message}
}

// NewNotFoundError reports an absent record. Records owned by another user
// report the same error so existence does not leak.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf("%s with id %s not found", resource, id)}
}

// NewGenerationError reports a fatal content-generator failure.
func NewGenerationError(err error) *Error {
	return &Error{Code: CodeGeneration, Status: http.StatusInternalServerError, Message: "failed to generate content", Err: err}
}

// NewConflictError reports a lost optimistic-concurrency race that did not
// resolve within the retry budget.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: message}
}

// AsServiceError unwraps err into *Error if it is one.
func AsServiceError(err error) (*Error, bool) {
	var serr *Error
	if errors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}
