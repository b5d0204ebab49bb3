package cache

import (
	"context"
	"time"
)

// TokenBlacklist records access-token digests whose authentication was
// terminated before the token's natural expiry. Entries are keyed by digest,
// never by raw token, and expire on their own.
type TokenBlacklist interface {
	// Add blacklists a token digest for ttl.
	Add(ctx context.Context, tokenDigest string, ttl time.Duration) error

	// IsBlacklisted reports whether a token digest is blacklisted.
	IsBlacklisted(ctx context.Context, tokenDigest string) (bool, error)
}
