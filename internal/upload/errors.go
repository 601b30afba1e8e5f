package upload

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/autolens/internal/classifier"
	"github.com/JaimeStill/autolens/internal/selector"
)

// Domain errors for workflow operations.
var (
	ErrSuperseded = errors.New("session superseded by a newer upload")
	ErrClosed     = errors.New("workflow closed")
)

// MapHTTPStatus maps workflow errors to HTTP status codes. Classification
// failures are rendered results, not request failures.
func MapHTTPStatus(err error) int {
	switch {
	case err == nil,
		errors.Is(err, selector.ErrNoSelection),
		errors.Is(err, classifier.ErrTransport),
		errors.Is(err, classifier.ErrRejected):
		return http.StatusOK
	case errors.Is(err, classifier.ErrValidation):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, selector.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
