package model

import (
	domainerror "github.com/arqon/playproof/internal/domain/error"
)

// OwnershipTask is the assigned challenge content: which brawler must be
// played, in which game mode, with how many bots present. Construction
// enforces the bot-count legality table, so an issued task is always
// achievable. Created once at challenge issuance, immutable thereafter.
type OwnershipTask struct {
	brawlerID  BrawlerID
	eventType  EventType
	botsAmount int
}

// NewOwnershipTask creates a validated OwnershipTask.
func NewOwnershipTask(brawlerID BrawlerID, eventType EventType, botsAmount int) (OwnershipTask, error) {
	if brawlerID < brawlerIDBase {
		return OwnershipTask{}, domainerror.ErrBrawlerUnknown
	}
	if !eventType.IsValid() {
		return OwnershipTask{}, domainerror.ErrEventTypeUnknown
	}
	if !eventType.AllowsBots(botsAmount) {
		return OwnershipTask{}, domainerror.ErrInvalidBotsAmount
	}

	return OwnershipTask{
		brawlerID:  brawlerID,
		eventType:  eventType,
		botsAmount: botsAmount,
	}, nil
}

// Getters

func (t OwnershipTask) BrawlerID() BrawlerID { return t.brawlerID }
func (t OwnershipTask) EventType() EventType { return t.eventType }
func (t OwnershipTask) BotsAmount() int      { return t.botsAmount }

// Matches classifies a battle against the task. Staleness is the caller's
// concern; this only compares content.
func (t OwnershipTask) Matches(battle Battle) ChallengeOutcome {
	if battle.BrawlerID() != t.brawlerID {
		return OutcomeInvalidBrawler
	}
	if battle.EventType() != t.eventType {
		return OutcomeInvalidEventType
	}
	if battle.BotsAmount() != t.botsAmount {
		return OutcomeInvalidBotsAmount
	}
	return OutcomeSuccess
}
