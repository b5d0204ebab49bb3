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

// authenticationRepository implements repository.AuthenticationRepository.
type authenticationRepository struct {
	pool *pgxpool.Pool
}

// NewAuthenticationRepository creates a new AuthenticationRepository.
func NewAuthenticationRepository(pool *pgxpool.Pool) repository.AuthenticationRepository {
	return &authenticationRepository{pool: pool}
}

func (r *authenticationRepository) IssueAuthentication(
	ctx context.Context,
	refreshDigest string,
	accessDigest string,
	auth *model.Authentication,
) error {
	const query = `
		INSERT INTO authentication (
			refresh_token_digest, access_token_digest, player_tag,
			issued_at, expires_at, access_expires_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		refreshDigest,
		accessDigest,
		auth.PlayerTag().String(),
		auth.IssuedAt(),
		auth.ExpiresAt(),
		auth.AccessToken().ExpiresAt(),
	)
	if err != nil {
		return fmt.Errorf("issue authentication: %w", err)
	}
	return nil
}

func (r *authenticationRepository) TerminateAuthentication(
	ctx context.Context,
	refreshDigest string,
) (*repository.TerminatedAuthentication, error) {
	// Revocation is a one-way flip. The revoked_at IS NULL guard makes a
	// repeated terminate with the same refresh token report not-found.
	const query = `
		UPDATE authentication
		SET revoked_at = now()
		WHERE refresh_token_digest = $1
		  AND revoked_at IS NULL
		  AND expires_at > now()
		RETURNING player_tag, access_token_digest, access_expires_at`

	var (
		playerTag       string
		accessDigest    string
		accessExpiresAt time.Time
	)
	err := r.pool.QueryRow(ctx, query, refreshDigest).Scan(&playerTag, &accessDigest, &accessExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("terminate authentication: %w", err)
	}

	return &repository.TerminatedAuthentication{
		PlayerTag:         model.ReconstructPlayerTag(playerTag),
		AccessTokenDigest: accessDigest,
		AccessExpiresAt:   accessExpiresAt,
	}, nil
}

func (r *authenticationRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	const query = `DELETE FROM authentication WHERE expires_at < $1`

	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired authentications: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
