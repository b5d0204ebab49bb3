package model

import (
	"time"

	domainerror "github.com/arqon/playproof/internal/domain/error"
)

// SessionStatus tracks the lifecycle of an authentication session.
type SessionStatus string

const (
	// SessionStatusActive is a session whose challenge can still be attempted.
	SessionStatusActive SessionStatus = "active"
	// SessionStatusSucceeded is a session whose challenge was verified.
	// Succeeded sessions do not count against the per-player session limit.
	SessionStatusSucceeded SessionStatus = "succeeded"
	// SessionStatusFailed is a session whose attempts were exhausted.
	SessionStatusFailed SessionStatus = "failed"
)

func (s SessionStatus) String() string { return string(s) }

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusActive, SessionStatusSucceeded, SessionStatusFailed:
		return true
	default:
		return false
	}
}

// AuthenticationSession is the persisted envelope around a challenge: the
// opaque session token, the owning player tag, the challenge itself, and
// session-level timing. One session exists per issued token; tokens are never
// reused.
type AuthenticationSession struct {
	token     SessionToken
	playerTag PlayerTag
	challenge *OwnershipChallenge
	createdAt time.Time
	duration  time.Duration
	status    SessionStatus
}

// SessionConfig holds configuration for session creation.
type SessionConfig struct {
	SessionDuration time.Duration
	MaxAttempts     int
}

// DefaultSessionConfig returns default session configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SessionDuration: 10 * time.Minute,
		MaxAttempts:     3,
	}
}

// NewAuthenticationSession creates a new active session around a challenge.
func NewAuthenticationSession(
	token SessionToken,
	challenge *OwnershipChallenge,
	createdAt time.Time,
	duration time.Duration,
) (*AuthenticationSession, error) {
	if token.IsEmpty() {
		return nil, domainerror.ErrTokenRequired
	}
	if challenge == nil {
		return nil, domainerror.ErrSessionNotFound
	}

	return &AuthenticationSession{
		token:     token,
		playerTag: challenge.PlayerTag(),
		challenge: challenge,
		createdAt: createdAt,
		duration:  duration,
		status:    SessionStatusActive,
	}, nil
}

// ReconstructAuthenticationSession rebuilds a session from persisted data.
func ReconstructAuthenticationSession(
	token SessionToken,
	challenge *OwnershipChallenge,
	createdAt time.Time,
	duration time.Duration,
	status SessionStatus,
) *AuthenticationSession {
	return &AuthenticationSession{
		token:     token,
		playerTag: challenge.PlayerTag(),
		challenge: challenge,
		createdAt: createdAt,
		duration:  duration,
		status:    status,
	}
}

// Getters

func (s *AuthenticationSession) Token() SessionToken            { return s.token }
func (s *AuthenticationSession) PlayerTag() PlayerTag           { return s.playerTag }
func (s *AuthenticationSession) Challenge() *OwnershipChallenge { return s.challenge }
func (s *AuthenticationSession) CreatedAt() time.Time           { return s.createdAt }
func (s *AuthenticationSession) Duration() time.Duration        { return s.duration }
func (s *AuthenticationSession) Status() SessionStatus          { return s.status }

// Queries

// ExpiresAt is the session-level expiry, computed independently of the
// challenge's own time frame.
func (s *AuthenticationSession) ExpiresAt() time.Time {
	return s.createdAt.Add(s.duration)
}

func (s *AuthenticationSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt())
}

// Commands

// MarkSucceeded transitions the session to its terminal success state.
func (s *AuthenticationSession) MarkSucceeded() {
	s.status = SessionStatusSucceeded
}

// MarkFailed transitions the session to its terminal failure state, reached
// when the challenge's attempts are exhausted.
func (s *AuthenticationSession) MarkFailed() {
	s.status = SessionStatusFailed
}
