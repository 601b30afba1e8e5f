package classifier

import (
	"errors"
	"net/http"
)

// Kind identifies the class of a classification failure.
type Kind int

const (
	// KindValidation is a non-image selection, recovered locally.
	KindValidation Kind = iota
	// KindTransport is a connection, timeout, status, or response-shape failure.
	KindTransport
	// KindRejected is a semantic error returned by the classification service.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by errors.Is against an *Error of the same kind.
var (
	ErrValidation = errors.New("invalid image file")
	ErrTransport  = errors.New("classification transport failure")
	ErrRejected   = errors.New("classification rejected")
)

// Error is a typed classification failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Validation returns a KindValidation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Transport returns a KindTransport error wrapping cause.
func Transport(message string, cause error) *Error {
	return &Error{Kind: KindTransport, Message: message, Err: cause}
}

// Rejected returns a KindRejected error carrying the service message.
func Rejected(message string) *Error {
	return &Error{Kind: KindRejected, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrRejected:
		return e.Kind == KindRejected
	}
	return false
}

// MapHTTPStatus maps classification errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrValidation) {
		return http.StatusUnsupportedMediaType
	}
	if errors.Is(err, ErrRejected) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrTransport) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
