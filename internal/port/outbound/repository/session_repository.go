package repository

import (
	"context"
	"time"

	"github.com/arqon/playproof/internal/domain/model"
)

// SessionLimit bounds how many active-or-failed sessions one player may hold
// within a trailing window. Succeeded sessions are excluded from the count.
type SessionLimit struct {
	Window    time.Duration
	Threshold int
}

// SessionRepository persists in-flight challenge sessions keyed by session
// token digest. Sessions are stored and looked up by the SHA-512 digest of
// the token; the raw token never reaches storage.
type SessionRepository interface {
	// IssueSession atomically counts the player's recent active-or-failed
	// sessions and inserts the new one, serialized per player tag so
	// concurrent issuance cannot exceed the limit. Returns ErrLimitExceeded
	// when the count has reached limit.Threshold.
	IssueSession(ctx context.Context, tokenDigest string, session *model.AuthenticationSession, limit SessionLimit) error

	// FindByTokenDigest retrieves a session by its token digest.
	// Returns ErrNotFound when no session matches.
	FindByTokenDigest(ctx context.Context, tokenDigest string) (*model.AuthenticationSession, error)

	// AddAttempt increments the challenge attempt counter, conditional on
	// attempts < max_attempts, and flips the session to failed when the
	// increment reaches the maximum. Returns the new attempt count.
	AddAttempt(ctx context.Context, tokenDigest string) (int, error)

	// MarkSucceeded transitions an active session to succeeded. The update is
	// a compare-and-swap on status: ErrAlreadyTerminal is returned when the
	// session was already terminal, so two concurrent completions cannot
	// both succeed.
	MarkSucceeded(ctx context.Context, tokenDigest string) error

	// DeleteExpired removes sessions whose expiry passed before cutoff.
	// Returns the number of sessions deleted.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
