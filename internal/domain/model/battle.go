package model

import "time"

// Battle is a single externally reported match record, the verification
// evidence for one attempt. It carries only what classification needs: which
// brawler the claimed player used, the game mode, how many bots were present,
// and when the battle happened.
type Battle struct {
	brawlerID  BrawlerID
	eventType  EventType
	botsAmount int
	battleTime time.Time
}

// NewBattle creates a Battle from feed data. The feed is read-only and
// external; values are assumed already validated by the adapter.
func NewBattle(brawlerID BrawlerID, eventType EventType, botsAmount int, battleTime time.Time) Battle {
	return Battle{
		brawlerID:  brawlerID,
		eventType:  eventType,
		botsAmount: botsAmount,
		battleTime: battleTime,
	}
}

// Getters

func (b Battle) BrawlerID() BrawlerID  { return b.brawlerID }
func (b Battle) EventType() EventType  { return b.eventType }
func (b Battle) BotsAmount() int       { return b.botsAmount }
func (b Battle) BattleTime() time.Time { return b.battleTime }

// OccurredBefore reports whether the battle predates t.
func (b Battle) OccurredBefore(t time.Time) bool {
	return b.battleTime.Before(t)
}
