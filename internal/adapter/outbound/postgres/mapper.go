package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/arqon/playproof/internal/domain/model"
)

// scanSession rebuilds an AuthenticationSession from an auth_session row.
// Only the token digest survives persistence, so the reconstructed session
// carries the digest where the raw secret would be.
func scanSession(row pgx.Row) (*model.AuthenticationSession, error) {
	var (
		tokenDigest string
		playerTag   string
		challengeID uuid.UUID
		brawlerID   int64
		eventType   string
		botsAmount  int
		issuedAt    time.Time
		expiresAt   time.Time
		attempts    int
		maxAttempts int
		status      string
	)
	err := row.Scan(
		&tokenDigest, &playerTag, &challengeID, &brawlerID, &eventType,
		&botsAmount, &issuedAt, &expiresAt, &attempts, &maxAttempts, &status,
	)
	if err != nil {
		return nil, err
	}

	bid, err := model.NewBrawlerID(brawlerID)
	if err != nil {
		return nil, fmt.Errorf("stored brawler id %d: %w", brawlerID, err)
	}
	et, err := model.NewEventType(eventType)
	if err != nil {
		return nil, fmt.Errorf("stored event type %q: %w", eventType, err)
	}
	task, err := model.NewOwnershipTask(bid, et, botsAmount)
	if err != nil {
		return nil, fmt.Errorf("stored task: %w", err)
	}

	token, err := model.NewSessionToken(tokenDigest)
	if err != nil {
		return nil, fmt.Errorf("stored token digest: %w", err)
	}

	tag := model.ReconstructPlayerTag(playerTag)
	challenge := model.ReconstructOwnershipChallenge(
		challengeID,
		tag,
		task,
		model.ReconstructTimeFrame(issuedAt, expiresAt),
		attempts,
		maxAttempts,
	)

	return model.ReconstructAuthenticationSession(
		token,
		challenge,
		issuedAt,
		expiresAt.Sub(issuedAt),
		model.SessionStatus(status),
	), nil
}
