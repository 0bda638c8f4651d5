package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable, machine-readable classification of a failure.
// Callers branch on Kind, never on Message.
type Kind string

const (
	KindUnauthorized        Kind = "unauthorized"
	KindForbidden           Kind = "forbidden"
	KindNotFound            Kind = "not_found"
	KindAlreadyRedeemed     Kind = "already_redeemed"
	KindInvalidAction       Kind = "invalid_action"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindInvalidRequest      Kind = "invalid_request"
	KindConflict            Kind = "conflict"
	KindRateLimited         Kind = "rate_limited"
	KindTransient           Kind = "transient"
)

var allKinds = []Kind{
	KindUnauthorized,
	KindForbidden,
	KindNotFound,
	KindAlreadyRedeemed,
	KindInvalidAction,
	KindInsufficientBalance,
	KindInvalidRequest,
	KindConflict,
	KindRateLimited,
	KindTransient,
}

// ParseKind accepts only the kinds declared above.
func ParseKind(s string) (Kind, bool) {
	for _, k := range allKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the caller may safely retry the request.
func (e *Error) Retryable() bool { return e.Kind == KindTransient }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func AlreadyRedeemed(message string) *Error { return New(KindAlreadyRedeemed, message) }

func InvalidAction(message string) *Error { return New(KindInvalidAction, message) }

func InsufficientBalance(message string) *Error { return New(KindInsufficientBalance, message) }

func InvalidRequest(message string) *Error { return New(KindInvalidRequest, message) }

// Conflict reports a write that collides with existing catalog or account data.
// It is distinct from AlreadyRedeemed, which only the redemption flow returns.
func Conflict(message string) *Error { return New(KindConflict, message) }

func RateLimited(message string) *Error { return New(KindRateLimited, message) }

// Transient wraps a downstream provider or persistence failure.
func Transient(message string, err error) *Error {
	return &Error{Kind: KindTransient, Message: message, Err: err}
}

// KindOf extracts the Kind of err. Errors that carry no Kind are treated as
// transient downstream failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyRedeemed, KindConflict:
		return http.StatusConflict
	case KindInvalidAction:
		return http.StatusUnprocessableEntity
	case KindInsufficientBalance:
		return http.StatusPaymentRequired
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusServiceUnavailable
	}
}

// FromStatus is the inverse of HTTPStatus for clients that only see a status
// code. A bare 409 is read as already_redeemed; conflict always travels with
// an explicit kind.
func FromStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindAlreadyRedeemed
	case http.StatusUnprocessableEntity:
		return KindInvalidAction
	case http.StatusPaymentRequired:
		return KindInsufficientBalance
	case http.StatusBadRequest:
		return KindInvalidRequest
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindTransient
	}
}

// Message returns the human-readable message of err, hiding wrapped causes.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
