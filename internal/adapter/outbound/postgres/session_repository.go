package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arqon/playproof/internal/domain/model"
	"github.com/arqon/playproof/internal/port/outbound/repository"
)

// sessionRepository implements repository.SessionRepository.
type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) repository.SessionRepository {
	return &sessionRepository{pool: pool}
}

func (r *sessionRepository) IssueSession(
	ctx context.Context,
	tokenDigest string,
	session *model.AuthenticationSession,
	limit repository.SessionLimit,
) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("issue session: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag := session.PlayerTag().String()

	// Serialize count-then-insert per player tag. The advisory lock closes
	// the check-then-act race between concurrent issuances for one player
	// without locking the whole table.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, tag); err != nil {
		return fmt.Errorf("issue session: advisory lock: %w", err)
	}

	const countQuery = `
		SELECT COUNT(*)
		FROM auth_session
		WHERE player_tag = $1
		  AND issued_at > $2
		  AND status <> 'succeeded'`

	var recent int
	since := session.CreatedAt().Add(-limit.Window)
	if err := tx.QueryRow(ctx, countQuery, tag, since).Scan(&recent); err != nil {
		return fmt.Errorf("issue session: count: %w", err)
	}
	if recent >= limit.Threshold {
		return repository.ErrLimitExceeded
	}

	const insertQuery = `
		INSERT INTO auth_session (
			token_digest, player_tag, challenge_id, brawler_id, event_type,
			bots_amount, issued_at, expires_at, attempts, max_attempts, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	challenge := session.Challenge()
	task := challenge.Task()
	_, err = tx.Exec(ctx, insertQuery,
		tokenDigest,
		tag,
		challenge.ID(),
		task.BrawlerID().Int64(),
		task.EventType().String(),
		task.BotsAmount(),
		challenge.TimeFrame().IssuedAt(),
		challenge.TimeFrame().ExpiresAt(),
		challenge.Attempts(),
		challenge.MaxAttempts(),
		session.Status().String(),
	)
	if err != nil {
		return fmt.Errorf("issue session: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("issue session: commit: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindByTokenDigest(ctx context.Context, tokenDigest string) (*model.AuthenticationSession, error) {
	const query = `
		SELECT token_digest, player_tag, challenge_id, brawler_id, event_type,
		       bots_amount, issued_at, expires_at, attempts, max_attempts, status
		FROM auth_session
		WHERE token_digest = $1`

	row := r.pool.QueryRow(ctx, query, tokenDigest)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

func (r *sessionRepository) AddAttempt(ctx context.Context, tokenDigest string) (int, error) {
	// Conditional increment: the ceiling is enforced in the same statement,
	// so concurrent attempts cannot push the counter past max_attempts.
	const query = `
		UPDATE auth_session
		SET attempts = attempts + 1,
		    status = CASE WHEN attempts + 1 >= max_attempts THEN 'failed' ELSE status END
		WHERE token_digest = $1
		  AND status = 'active'
		  AND attempts < max_attempts
		RETURNING attempts`

	var attempts int
	err := r.pool.QueryRow(ctx, query, tokenDigest).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, r.classifyMissing(ctx, tokenDigest)
		}
		return 0, fmt.Errorf("add attempt: %w", err)
	}
	return attempts, nil
}

func (r *sessionRepository) MarkSucceeded(ctx context.Context, tokenDigest string) error {
	const query = `
		UPDATE auth_session
		SET status = 'succeeded'
		WHERE token_digest = $1
		  AND status = 'active'`

	tag, err := r.pool.Exec(ctx, query, tokenDigest)
	if err != nil {
		return fmt.Errorf("mark succeeded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissing(ctx, tokenDigest)
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	const query = `DELETE FROM auth_session WHERE expires_at < $1`

	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// classifyMissing distinguishes "no such session" from "session already in a
// terminal state" after a conditional update matched nothing.
func (r *sessionRepository) classifyMissing(ctx context.Context, tokenDigest string) error {
	const query = `SELECT 1 FROM auth_session WHERE token_digest = $1`

	var one int
	err := r.pool.QueryRow(ctx, query, tokenDigest).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("classify session state: %w", err)
	}
	return repository.ErrAlreadyTerminal
}
