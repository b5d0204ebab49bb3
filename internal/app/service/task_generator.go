package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"

	"github.com/arqon/playproof/internal/domain/model"
)

// TaskGenerator produces unpredictable, verifiable ownership tasks. Every
// generated task respects the per-event-type bot legality table, so the
// player is never asked for something the game cannot produce.
type TaskGenerator interface {
	Generate() (model.OwnershipTask, error)
}

// randomTaskGenerator implements TaskGenerator with crypto/rand choices.
// Tasks must be hard to guess; a predictable generator would let an attacker
// pre-play the challenge.
type randomTaskGenerator struct {
	brawlers []model.BrawlerID
	events   []model.EventType
}

// NewRandomTaskGenerator creates a TaskGenerator drawing from the brawler
// catalogue and every assignable event type.
func NewRandomTaskGenerator() TaskGenerator {
	events := model.EventTypes()
	// Stable order so generation is reproducible given the random draws.
	sort.Slice(events, func(i, j int) bool { return events[i] < events[j] })

	return &randomTaskGenerator{
		brawlers: model.BrawlerCatalogue(),
		events:   events,
	}
}

func (g *randomTaskGenerator) Generate() (model.OwnershipTask, error) {
	brawlerIdx, err := randomIndex(len(g.brawlers))
	if err != nil {
		return model.OwnershipTask{}, err
	}
	eventIdx, err := randomIndex(len(g.events))
	if err != nil {
		return model.OwnershipTask{}, err
	}

	eventType := g.events[eventIdx]
	min, max, ok := eventType.BotsBounds()
	if !ok {
		return model.OwnershipTask{}, fmt.Errorf("task generator: no bot bounds for %s", eventType)
	}

	offset, err := randomIndex(max - min + 1)
	if err != nil {
		return model.OwnershipTask{}, err
	}

	return model.NewOwnershipTask(g.brawlers[brawlerIdx], eventType, min+offset)
}

// randomIndex returns a uniform random int in [0, n).
func randomIndex(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("task generator: empty choice set")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("task generator: %w", err)
	}
	return int(v.Int64()), nil
}
