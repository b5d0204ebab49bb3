// Package gamedata defines the port to the read-only public game-data feed,
// the verification oracle of the proof-of-play protocol.
package gamedata

import (
	"context"
	"errors"

	"github.com/arqon/playproof/internal/domain/model"
)

var (
	// ErrPlayerNotFound is returned when the feed does not know the tag.
	ErrPlayerNotFound = errors.New("player not found in game data feed")

	// ErrNoBattles is returned when the player's battle log is empty.
	ErrNoBattles = errors.New("player has no reported battles")
)

// Client is the game-data feed boundary the core depends on.
type Client interface {
	// PlayerExists confirms a claimed player identity exists.
	PlayerExists(ctx context.Context, tag model.PlayerTag) (bool, error)

	// LastBattle fetches the most recent reported battle for a player.
	// Returns ErrNoBattles when the log is empty and ErrPlayerNotFound when
	// the tag is unknown to the feed.
	LastBattle(ctx context.Context, tag model.PlayerTag) (model.Battle, error)
}
