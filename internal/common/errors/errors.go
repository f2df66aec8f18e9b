// internal/common/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error codes shared across the pipeline stages.
const (
	ErrCodeQueryRefinementFailed   = "QUERY_REFINEMENT_FAILED"
	ErrCodeWebSearchTimeout        = "WEB_SEARCH_TIMEOUT"
	ErrCodeWebSearchFailed         = "WEB_SEARCH_FAILED"
	ErrCodeLiteratureSearchFailed  = "LITERATURE_SEARCH_FAILED"
	ErrCodeResearchSynthesisFailed = "RESEARCH_SYNTHESIS_FAILED"
	ErrCodeAnswerValidationFailed  = "ANSWER_VALIDATION_FAILED"
	ErrCodeProviderUnavailable     = "PROVIDER_UNAVAILABLE"
	ErrCodeRateLimited             = "RATE_LIMITED"
	ErrCodeInvalidInput            = "INVALID_INPUT"
	ErrCodeEmptyQuestion           = "EMPTY_QUESTION"
	ErrCodeInternal                = "INTERNAL_ERROR"
)

// StandardError is the error type used across the service.
type StandardError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// New creates a StandardError with the given code and message.
func New(code, message string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Wrap creates a StandardError around an underlying cause.
func Wrap(err error, code, message string) *StandardError {
	se := New(code, message)
	se.cause = err
	if err != nil {
		se.Details = err.Error()
	}
	return se
}

// WithRetryable marks whether the failed operation may be retried.
func (e *StandardError) WithRetryable(retryable bool) *StandardError {
	e.Retryable = retryable
	return e
}

// WithMetadata attaches a key/value pair for structured logging.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// IsRetryable reports whether err (or any wrapped error) is retryable.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// CodeOf extracts the error code, or ErrCodeInternal for unknown errors.
func CodeOf(err error) string {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
