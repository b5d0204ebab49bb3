package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arqon/playproof/internal/port/outbound/cache"
)

const (
	tokenBlacklistKeyPrefix = "playproof:blacklist:"
)

// tokenBlacklist implements cache.TokenBlacklist. Keys are SHA-512 digests
// of revoked access tokens; entries expire with the token itself, so the
// blacklist never holds more than the live revocation set.
type tokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist creates a new TokenBlacklist.
func NewTokenBlacklist(client *redis.Client) cache.TokenBlacklist {
	return &tokenBlacklist{
		client: client,
	}
}

func (b *tokenBlacklist) Add(ctx context.Context, tokenDigest string, ttl time.Duration) error {
	if tokenDigest == "" || ttl <= 0 {
		return nil
	}

	key := blacklistKey(tokenDigest)

	// Value doesn't matter, we just check existence
	if err := b.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

func (b *tokenBlacklist) IsBlacklisted(ctx context.Context, tokenDigest string) (bool, error) {
	if tokenDigest == "" {
		return false, nil
	}

	key := blacklistKey(tokenDigest)

	count, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return count > 0, nil
}

// Key helper

func blacklistKey(tokenDigest string) string {
	return tokenBlacklistKeyPrefix + tokenDigest
}
