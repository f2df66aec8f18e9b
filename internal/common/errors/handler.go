// internal/common/errors/handler.go
package errors

import (
	"errors"
	"net/http"
)

// HTTPStatus maps an error to the HTTP status the API should respond with.
// Client faults get 4xx, everything else is a 500: the pipeline itself
// degrades to fallback answers before an error reaches the handler, so a
// 500 here means the service, not the question, is broken.
func HTTPStatus(err error) int {
	var se *StandardError
	if !errors.As(err, &se) {
		return http.StatusInternalServerError
	}
	switch se.Code {
	case ErrCodeEmptyQuestion, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeProviderUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Category buckets error codes for metrics labels.
func Category(err error) string {
	switch CodeOf(err) {
	case ErrCodeEmptyQuestion, ErrCodeInvalidInput:
		return "client"
	case ErrCodeWebSearchTimeout, ErrCodeWebSearchFailed, ErrCodeLiteratureSearchFailed:
		return "search"
	case ErrCodeQueryRefinementFailed, ErrCodeResearchSynthesisFailed, ErrCodeAnswerValidationFailed, ErrCodeProviderUnavailable, ErrCodeRateLimited:
		return "provider"
	default:
		return "internal"
	}
}
