package repository

import (
	"context"
	"time"

	"github.com/arqon/playproof/internal/domain/model"
)

// TerminatedAuthentication describes a revoked authentication, returned so
// the caller can blacklist the paired access token for its remaining life.
type TerminatedAuthentication struct {
	PlayerTag         model.PlayerTag
	AccessTokenDigest string
	AccessExpiresAt   time.Time
}

// AuthenticationRepository persists issued token pairs. Tokens are stored
// only as SHA-512 digests; revocation is keyed by refresh token digest.
type AuthenticationRepository interface {
	// IssueAuthentication persists a new authentication. Digests are
	// computed by the caller from the raw tokens.
	IssueAuthentication(ctx context.Context, refreshDigest, accessDigest string, auth *model.Authentication) error

	// TerminateAuthentication revokes the authentication matching the
	// refresh token digest. Returns ErrNotFound when no live authentication
	// matches.
	TerminateAuthentication(ctx context.Context, refreshDigest string) (*TerminatedAuthentication, error)

	// DeleteExpired removes authentications whose refresh expiry passed
	// before cutoff. Returns the number of rows deleted.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
