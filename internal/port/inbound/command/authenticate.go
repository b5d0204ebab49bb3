package command

import (
	"context"
	"time"

	"github.com/arqon/playproof/internal/domain/model"
)

// Authenticate initiates proof-of-play authentication for a claimed player
// tag. Returns a session token and the in-game task the player must perform.
type Authenticate struct {
	// PlayerTag is the raw claimed tag; normalization and validation happen
	// inside the handler.
	PlayerTag string
}

func (c Authenticate) CommandName() string {
	return "playproof.authenticate"
}

// AuthenticateResult contains the issued session token and the challenge the
// caller relays to the human player.
type AuthenticateResult struct {
	SessionToken model.SessionToken
	ChallengeID  string
	BrawlerID    model.BrawlerID
	EventType    model.EventType
	BotsAmount   int
	ExpiresAt    time.Time
}

// AuthenticateHandler handles the Authenticate command.
type AuthenticateHandler interface {
	Handle(ctx context.Context, cmd Authenticate) (AuthenticateResult, error)
}
