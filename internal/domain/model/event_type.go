package model

import (
	domainerror "github.com/arqon/playproof/internal/domain/error"
)

// EventType identifies a game mode a task can be assigned in.
type EventType string

const (
	EventTypeGemGrab      EventType = "GEM_GRAB"
	EventTypeBrawlBall    EventType = "BRAWL_BALL"
	EventTypeHeist        EventType = "HEIST"
	EventTypeBounty       EventType = "BOUNTY"
	EventTypeHotZone      EventType = "HOT_ZONE"
	EventTypeKnockout     EventType = "KNOCKOUT"
	EventTypeSoloShowdown EventType = "SOLO_SHOWDOWN"
	EventTypeDuoShowdown  EventType = "DUO_SHOWDOWN"
	EventTypeBigGame      EventType = "BIG_GAME"
	EventTypeBossFight    EventType = "BOSS_FIGHT"
)

// botsRange is the inclusive range of bot counts a mode can field.
type botsRange struct {
	min int
	max int
}

// legalBots encodes, per event type, how many computer-controlled participants
// a match can contain. 3v3 modes cap at 5 (everyone but the verified player
// may be a bot), showdown modes at lobby size minus one. Big Game is always
// one player against five bots; Boss Fight bots are the boss itself and are
// not reported in the roster.
var legalBots = map[EventType]botsRange{
	EventTypeGemGrab:      {min: 0, max: 5},
	EventTypeBrawlBall:    {min: 0, max: 5},
	EventTypeHeist:        {min: 0, max: 5},
	EventTypeBounty:       {min: 0, max: 5},
	EventTypeHotZone:      {min: 0, max: 5},
	EventTypeKnockout:     {min: 0, max: 5},
	EventTypeSoloShowdown: {min: 0, max: 9},
	EventTypeDuoShowdown:  {min: 0, max: 8},
	EventTypeBigGame:      {min: 5, max: 5},
	EventTypeBossFight:    {min: 0, max: 0},
}

// NewEventType validates a reported event type string.
func NewEventType(raw string) (EventType, error) {
	et := EventType(raw)
	if !et.IsValid() {
		return "", domainerror.ErrEventTypeUnknown
	}
	return et, nil
}

// EventTypes returns every assignable event type.
func EventTypes() []EventType {
	types := make([]EventType, 0, len(legalBots))
	for et := range legalBots {
		types = append(types, et)
	}
	return types
}

func (e EventType) String() string { return string(e) }

func (e EventType) IsValid() bool {
	_, ok := legalBots[e]
	return ok
}

// AllowsBots reports whether amount is a legal bot count for the event type.
func (e EventType) AllowsBots(amount int) bool {
	r, ok := legalBots[e]
	if !ok {
		return false
	}
	return amount >= r.min && amount <= r.max
}

// BotsBounds returns the inclusive legal bot-count range for the event type.
// The second return is false for unknown event types.
func (e EventType) BotsBounds() (min, max int, ok bool) {
	r, found := legalBots[e]
	if !found {
		return 0, 0, false
	}
	return r.min, r.max, true
}
