package preview

import (
	"errors"
	"net/http"
)

// Domain errors for preview operations.
var (
	ErrNotFound = errors.New("preview not found")
	ErrRevoked  = errors.New("preview already revoked")
	ErrEmpty    = errors.New("preview file is empty")
)

// MapHTTPStatus maps preview errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrRevoked) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmpty) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
