package mocks

import (
	"context"
	"sync"
	"time"
)

// TokenBlacklist is a mock implementation of cache.TokenBlacklist.
type TokenBlacklist struct {
	mu sync.RWMutex

	// Storage
	entries map[string]time.Duration // digest -> ttl it was stored with

	// Call tracking
	Calls struct {
		Add           int
		IsBlacklisted int
	}

	// Error injection
	Errors struct {
		Add           error
		IsBlacklisted error
	}
}

// NewTokenBlacklist creates a new mock TokenBlacklist.
func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{
		entries: make(map[string]time.Duration),
	}
}

func (m *TokenBlacklist) Add(ctx context.Context, tokenDigest string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Add++

	if m.Errors.Add != nil {
		return m.Errors.Add
	}
	if tokenDigest == "" || ttl <= 0 {
		return nil
	}
	m.entries[tokenDigest] = ttl
	return nil
}

func (m *TokenBlacklist) IsBlacklisted(ctx context.Context, tokenDigest string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.Calls.IsBlacklisted++

	if m.Errors.IsBlacklisted != nil {
		return false, m.Errors.IsBlacklisted
	}
	_, ok := m.entries[tokenDigest]
	return ok, nil
}

// TTL returns the ttl a digest was blacklisted with, or zero.
func (m *TokenBlacklist) TTL(tokenDigest string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[tokenDigest]
}
