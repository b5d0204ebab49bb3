package model

import (
	"log/slog"
	"time"

	domainerror "github.com/arqon/playproof/internal/domain/error"
)

// maskedToken is what every token renders as through fmt, %#v, and slog.
// Raw secrets are only reachable through the explicit Reveal accessor.
const maskedToken = "[redacted]"

// SessionToken is the opaque handle identifying one outstanding challenge.
type SessionToken struct {
	value string
}

// NewSessionToken wraps a freshly minted opaque value.
func NewSessionToken(value string) (SessionToken, error) {
	if value == "" {
		return SessionToken{}, domainerror.ErrTokenRequired
	}
	return SessionToken{value: value}, nil
}

func (t SessionToken) String() string   { return maskedToken }
func (t SessionToken) GoString() string { return maskedToken }
func (t SessionToken) IsEmpty() bool    { return t.value == "" }

// Reveal returns the raw secret. Call sites are the transport boundary and
// the hasher, nothing else.
func (t SessionToken) Reveal() string { return t.value }

// LogValue keeps the secret out of structured logs.
func (t SessionToken) LogValue() slog.Value { return slog.StringValue(maskedToken) }

// AccessToken is the short-lived credential for authenticated API access.
type AccessToken struct {
	value     string
	expiresAt time.Time
}

// NewAccessToken wraps a signed token with its absolute expiry.
func NewAccessToken(value string, expiresAt time.Time) (AccessToken, error) {
	if value == "" {
		return AccessToken{}, domainerror.ErrTokenRequired
	}
	return AccessToken{value: value, expiresAt: expiresAt}, nil
}

func (t AccessToken) String() string       { return maskedToken }
func (t AccessToken) GoString() string     { return maskedToken }
func (t AccessToken) IsEmpty() bool        { return t.value == "" }
func (t AccessToken) ExpiresAt() time.Time { return t.expiresAt }

func (t AccessToken) Reveal() string { return t.value }

func (t AccessToken) LogValue() slog.Value { return slog.StringValue(maskedToken) }

// RefreshToken is the long-lived credential used to terminate (and, in a
// fuller system, renew) an authentication.
type RefreshToken struct {
	value string
}

// NewRefreshToken wraps a freshly minted opaque value.
func NewRefreshToken(value string) (RefreshToken, error) {
	if value == "" {
		return RefreshToken{}, domainerror.ErrTokenRequired
	}
	return RefreshToken{value: value}, nil
}

func (t RefreshToken) String() string   { return maskedToken }
func (t RefreshToken) GoString() string { return maskedToken }
func (t RefreshToken) IsEmpty() bool    { return t.value == "" }

func (t RefreshToken) Reveal() string { return t.value }

func (t RefreshToken) LogValue() slog.Value { return slog.StringValue(maskedToken) }
