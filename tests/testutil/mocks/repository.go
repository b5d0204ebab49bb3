// Package mocks provides mock implementations of ports for testing.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/arqon/playproof/internal/domain/model"
	"github.com/arqon/playproof/internal/port/outbound/repository"
)

// --- SessionRepository Mock ---

// sessionRecord mirrors a persisted session row: the aggregate plus the
// mutable attempt counter and status.
type sessionRecord struct {
	session  *model.AuthenticationSession
	attempts int
	status   model.SessionStatus
}

// SessionRepository is a mock implementation of repository.SessionRepository.
type SessionRepository struct {
	mu sync.RWMutex

	// Storage
	sessions map[string]*sessionRecord // by token digest

	// Call tracking
	Calls struct {
		IssueSession      int
		FindByTokenDigest int
		AddAttempt        int
		MarkSucceeded     int
		DeleteExpired     int
	}

	// Error injection
	Errors struct {
		IssueSession      error
		FindByTokenDigest error
		AddAttempt        error
		MarkSucceeded     error
		DeleteExpired     error
	}
}

// NewSessionRepository creates a new mock SessionRepository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*sessionRecord),
	}
}

func (m *SessionRepository) IssueSession(
	ctx context.Context,
	tokenDigest string,
	session *model.AuthenticationSession,
	limit repository.SessionLimit,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.IssueSession++

	if m.Errors.IssueSession != nil {
		return m.Errors.IssueSession
	}

	since := session.CreatedAt().Add(-limit.Window)
	recent := 0
	for _, rec := range m.sessions {
		if rec.session.PlayerTag().Equals(session.PlayerTag()) &&
			rec.session.CreatedAt().After(since) &&
			rec.status != model.SessionStatusSucceeded {
			recent++
		}
	}
	if recent >= limit.Threshold {
		return repository.ErrLimitExceeded
	}

	m.sessions[tokenDigest] = &sessionRecord{
		session:  session,
		attempts: session.Challenge().Attempts(),
		status:   session.Status(),
	}
	return nil
}

func (m *SessionRepository) FindByTokenDigest(ctx context.Context, tokenDigest string) (*model.AuthenticationSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.Calls.FindByTokenDigest++

	if m.Errors.FindByTokenDigest != nil {
		return nil, m.Errors.FindByTokenDigest
	}

	rec, ok := m.sessions[tokenDigest]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec.reconstruct(), nil
}

func (m *SessionRepository) AddAttempt(ctx context.Context, tokenDigest string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.AddAttempt++

	if m.Errors.AddAttempt != nil {
		return 0, m.Errors.AddAttempt
	}

	rec, ok := m.sessions[tokenDigest]
	if !ok {
		return 0, repository.ErrNotFound
	}
	max := rec.session.Challenge().MaxAttempts()
	if rec.status != model.SessionStatusActive || rec.attempts >= max {
		return 0, repository.ErrAlreadyTerminal
	}

	rec.attempts++
	if rec.attempts >= max {
		rec.status = model.SessionStatusFailed
	}
	return rec.attempts, nil
}

func (m *SessionRepository) MarkSucceeded(ctx context.Context, tokenDigest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.MarkSucceeded++

	if m.Errors.MarkSucceeded != nil {
		return m.Errors.MarkSucceeded
	}

	rec, ok := m.sessions[tokenDigest]
	if !ok {
		return repository.ErrNotFound
	}
	if rec.status != model.SessionStatusActive {
		return repository.ErrAlreadyTerminal
	}
	rec.status = model.SessionStatusSucceeded
	return nil
}

func (m *SessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.DeleteExpired++

	if m.Errors.DeleteExpired != nil {
		return 0, m.Errors.DeleteExpired
	}

	deleted := 0
	for digest, rec := range m.sessions {
		if rec.session.ExpiresAt().Before(cutoff) {
			delete(m.sessions, digest)
			deleted++
		}
	}
	return deleted, nil
}

// Attempts returns the stored attempt counter for a token digest.
func (m *SessionRepository) Attempts(tokenDigest string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.sessions[tokenDigest]; ok {
		return rec.attempts
	}
	return 0
}

// Status returns the stored status for a token digest.
func (m *SessionRepository) Status(tokenDigest string) model.SessionStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.sessions[tokenDigest]; ok {
		return rec.status
	}
	return ""
}

func (rec *sessionRecord) reconstruct() *model.AuthenticationSession {
	original := rec.session.Challenge()
	challenge := model.ReconstructOwnershipChallenge(
		original.ID(),
		original.PlayerTag(),
		original.Task(),
		original.TimeFrame(),
		rec.attempts,
		original.MaxAttempts(),
	)
	return model.ReconstructAuthenticationSession(
		rec.session.Token(),
		challenge,
		rec.session.CreatedAt(),
		rec.session.Duration(),
		rec.status,
	)
}

// --- AuthenticationRepository Mock ---

type authenticationRecord struct {
	auth         *model.Authentication
	accessDigest string
	revoked      bool
}

// AuthenticationRepository is a mock implementation of
// repository.AuthenticationRepository.
type AuthenticationRepository struct {
	mu sync.RWMutex

	// Storage
	records map[string]*authenticationRecord // by refresh token digest

	// Call tracking
	Calls struct {
		IssueAuthentication     int
		TerminateAuthentication int
		DeleteExpired           int
	}

	// Error injection
	Errors struct {
		IssueAuthentication     error
		TerminateAuthentication error
		DeleteExpired           error
	}
}

// NewAuthenticationRepository creates a new mock AuthenticationRepository.
func NewAuthenticationRepository() *AuthenticationRepository {
	return &AuthenticationRepository{
		records: make(map[string]*authenticationRecord),
	}
}

func (m *AuthenticationRepository) IssueAuthentication(
	ctx context.Context,
	refreshDigest string,
	accessDigest string,
	auth *model.Authentication,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.IssueAuthentication++

	if m.Errors.IssueAuthentication != nil {
		return m.Errors.IssueAuthentication
	}

	m.records[refreshDigest] = &authenticationRecord{
		auth:         auth,
		accessDigest: accessDigest,
	}
	return nil
}

func (m *AuthenticationRepository) TerminateAuthentication(
	ctx context.Context,
	refreshDigest string,
) (*repository.TerminatedAuthentication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.TerminateAuthentication++

	if m.Errors.TerminateAuthentication != nil {
		return nil, m.Errors.TerminateAuthentication
	}

	rec, ok := m.records[refreshDigest]
	if !ok || rec.revoked {
		return nil, repository.ErrNotFound
	}
	rec.revoked = true

	return &repository.TerminatedAuthentication{
		PlayerTag:         rec.auth.PlayerTag(),
		AccessTokenDigest: rec.accessDigest,
		AccessExpiresAt:   rec.auth.AccessToken().ExpiresAt(),
	}, nil
}

func (m *AuthenticationRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.DeleteExpired++

	if m.Errors.DeleteExpired != nil {
		return 0, m.Errors.DeleteExpired
	}

	deleted := 0
	for digest, rec := range m.records {
		if rec.auth.ExpiresAt().Before(cutoff) {
			delete(m.records, digest)
			deleted++
		}
	}
	return deleted, nil
}

// Revoked reports whether an authentication was terminated.
func (m *AuthenticationRepository) Revoked(refreshDigest string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[refreshDigest]
	return ok && rec.revoked
}
