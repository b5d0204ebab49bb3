// Package error defines the typed domain errors of the playproof service.
//
// Domain rejections are expected outcomes of the authentication protocol and
// are returned, not logged as failures. Infrastructure errors are wrapped at
// the use-case boundary and surfaced uniformly as ErrInternal.
package error

import "errors"

// Kind classifies an error for boundary mapping (HTTP status, log severity).
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindRateLimited  Kind = "rate_limited"
	KindDomain       Kind = "domain"
	KindInfra        Kind = "infra"
)

// Code is a machine-readable error identifier, stable across releases.
type Code string

const (
	CodePlayerNotFound    Code = "PLAYER_NOT_FOUND"
	CodePlayerTagInvalid  Code = "PLAYER_TAG_INVALID"
	CodeTooManyAttempts   Code = "TOO_MANY_ATTEMPTS"
	CodeSessionNotFound   Code = "SESSION_NOT_FOUND"
	CodeSessionExpired    Code = "SESSION_EXPIRED"
	CodeAttemptsExceeded  Code = "ATTEMPTS_EXCEEDED"
	CodeAttemptFailed     Code = "ATTEMPT_FAILED"
	CodeInvalidBotsAmount Code = "INVALID_BOTS_AMOUNT_FOR_EVENT"
	CodeBrawlerUnknown    Code = "BRAWLER_UNKNOWN"
	CodeEventTypeUnknown  Code = "EVENT_TYPE_UNKNOWN"

	CodeTokenRequired          Code = "TOKEN_REQUIRED"
	CodeTokenInvalid           Code = "TOKEN_INVALID"
	CodeTokenRevoked           Code = "TOKEN_REVOKED"
	CodeAuthenticationNotFound Code = "AUTHENTICATION_NOT_FOUND"

	CodeInternal Code = "INTERNAL"
)

// Error is the canonical domain error type. Equality for errors.Is is by code,
// so wrapped instances still match their sentinel.
type Error struct {
	kind    Kind
	code    Code
	message string
	cause   error
}

// New creates a new domain Error.
func New(kind Kind, code Code, message string) *Error {
	return &Error{kind: kind, code: code, message: message}
}

// Wrap attaches a cause to a sentinel, preserving kind and code.
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{
		kind:    sentinel.kind,
		code:    sentinel.code,
		message: sentinel.message,
		cause:   cause,
	}
}

func (e *Error) Error() string { return e.message }
func (e *Error) Kind() Kind    { return e.kind }
func (e *Error) Code() Code    { return e.code }
func (e *Error) Unwrap() error { return e.cause }

// Is matches by code so errors.Is(Wrap(ErrX, cause), ErrX) holds.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.code == other.code
}

// Player errors
var (
	ErrPlayerNotFound = New(KindNotFound, CodePlayerNotFound, "player does not exist")

	ErrPlayerTagInvalid = New(KindValidation, CodePlayerTagInvalid, "player tag is invalid")

	ErrTooManyAttempts = New(KindRateLimited, CodeTooManyAttempts, "too many authentication sessions for this player")
)

// Session errors
var (
	ErrSessionNotFound = New(KindNotFound, CodeSessionNotFound, "authentication session not found")

	ErrSessionExpired = New(KindUnauthorized, CodeSessionExpired, "authentication session has expired")

	ErrAttemptsExceeded = New(KindUnauthorized, CodeAttemptsExceeded, "verification attempts exhausted")
)

// Task errors
var (
	ErrInvalidBotsAmount = New(KindValidation, CodeInvalidBotsAmount, "bots amount is not legal for the given event type")

	ErrBrawlerUnknown = New(KindValidation, CodeBrawlerUnknown, "brawler id is not known")

	ErrEventTypeUnknown = New(KindValidation, CodeEventTypeUnknown, "event type is not known")
)

// Token errors
var (
	ErrTokenRequired = New(KindValidation, CodeTokenRequired, "token is required")

	ErrTokenInvalid = New(KindUnauthorized, CodeTokenInvalid, "token is invalid")

	ErrTokenRevoked = New(KindUnauthorized, CodeTokenRevoked, "token has been revoked")

	ErrAuthenticationNotFound = New(KindNotFound, CodeAuthenticationNotFound, "authentication not found")
)

// ErrInternal is the uniform surface for unexpected infrastructure failures.
var ErrInternal = New(KindInfra, CodeInternal, "internal failure, try again later")

// Internal wraps an infrastructure error into the uniform failure surface.
func Internal(cause error) *Error {
	return Wrap(ErrInternal, cause)
}
