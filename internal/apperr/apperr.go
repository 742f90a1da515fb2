package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error for HTTP mapping and logging.
type Kind int

const (
	// KindValidation marks malformed or missing client input, rejected before any I/O.
	KindValidation Kind = iota
	// KindAuth marks bad credentials or an invalid/expired session token.
	KindAuth
	// KindNotFound marks a missing user, customer, card, category or item.
	KindNotFound
	// KindConflict marks a duplicate registration.
	KindConflict
	// KindUpstream marks a non-2xx or malformed response from an external provider.
	KindUpstream
	// KindUpstreamAuth marks a failed token exchange with an external provider.
	KindUpstreamAuth
)

// Error is the application error type carried across service boundaries.
type Error struct {
	Kind    Kind
	Message string
	// UpstreamStatus holds the provider HTTP status for upstream kinds.
	UpstreamStatus int
	// Detail carries diagnostic context that must not reach clients in production.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same kind, so callers can use errors.Is with sentinels.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// StatusCode maps the error kind to an HTTP response status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream, KindUpstreamAuth:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Validation builds a client input rejection.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Auth builds a credential or session failure.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// NotFound builds a missing resource error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a duplicate resource error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Upstream wraps a provider failure with its status and message for diagnostics.
func Upstream(status int, message string) *Error {
	return &Error{
		Kind:           KindUpstream,
		Message:        "upstream provider error",
		UpstreamStatus: status,
		Detail:         fmt.Sprintf("status %d: %s", status, message),
	}
}

// UpstreamAuth wraps a failed provider token exchange. It is distinguished from
// Upstream because it blocks every subsequent call to that provider.
func UpstreamAuth(status int, message string) *Error {
	return &Error{
		Kind:           KindUpstreamAuth,
		Message:        "upstream authentication failed",
		UpstreamStatus: status,
		Detail:         fmt.Sprintf("status %d: %s", status, message),
	}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
