package mocks

import (
	"context"
	"sync"

	"github.com/arqon/playproof/internal/domain/model"
	"github.com/arqon/playproof/internal/port/outbound/gamedata"
)

// GameDataClient is a mock implementation of gamedata.Client.
type GameDataClient struct {
	mu sync.RWMutex

	// Storage
	players map[string]bool         // canonical tag -> exists
	battles map[string]model.Battle // canonical tag -> last battle

	// Call tracking
	Calls struct {
		PlayerExists int
		LastBattle   int
	}

	// Error injection
	Errors struct {
		PlayerExists error
		LastBattle   error
	}
}

// NewGameDataClient creates a new mock GameDataClient.
func NewGameDataClient() *GameDataClient {
	return &GameDataClient{
		players: make(map[string]bool),
		battles: make(map[string]model.Battle),
	}
}

// AddPlayer registers a player tag as known to the feed.
func (m *GameDataClient) AddPlayer(tag model.PlayerTag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[tag.String()] = true
}

// SetLastBattle sets the most recent battle reported for a player.
func (m *GameDataClient) SetLastBattle(tag model.PlayerTag, battle model.Battle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[tag.String()] = true
	m.battles[tag.String()] = battle
}

func (m *GameDataClient) PlayerExists(ctx context.Context, tag model.PlayerTag) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.Calls.PlayerExists++

	if m.Errors.PlayerExists != nil {
		return false, m.Errors.PlayerExists
	}
	return m.players[tag.String()], nil
}

func (m *GameDataClient) LastBattle(ctx context.Context, tag model.PlayerTag) (model.Battle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.Calls.LastBattle++

	if m.Errors.LastBattle != nil {
		return model.Battle{}, m.Errors.LastBattle
	}
	if !m.players[tag.String()] {
		return model.Battle{}, gamedata.ErrPlayerNotFound
	}
	battle, ok := m.battles[tag.String()]
	if !ok {
		return model.Battle{}, gamedata.ErrNoBattles
	}
	return battle, nil
}
