package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	domainerror "github.com/arqon/playproof/internal/domain/error"
)

// ChallengeOutcome is the outcome vocabulary of one verification attempt.
type ChallengeOutcome string

const (
	OutcomeSuccess           ChallengeOutcome = "SUCCESS"
	OutcomeBattleBeforeTask  ChallengeOutcome = "BATTLE_BEFORE_TASK"
	OutcomeInvalidBrawler    ChallengeOutcome = "INVALID_BRAWLER"
	OutcomeInvalidEventType  ChallengeOutcome = "INVALID_EVENT_TYPE"
	OutcomeInvalidBotsAmount ChallengeOutcome = "INVALID_BOTS_AMOUNT"
	OutcomeTaskExpired       ChallengeOutcome = "TASK_EXPIRED"
	OutcomeAttemptsExceeded  ChallengeOutcome = "ATTEMPTS_EXCEEDED"
)

func (o ChallengeOutcome) String() string { return string(o) }

// IsGuard reports whether the outcome is a terminal guard state rather than a
// classification of battle evidence. Guard outcomes never consume an attempt.
func (o ChallengeOutcome) IsGuard() bool {
	return o == OutcomeTaskExpired || o == OutcomeAttemptsExceeded
}

// IsMismatch reports whether the outcome is an attempt-consuming failure.
func (o ChallengeOutcome) IsMismatch() bool {
	switch o {
	case OutcomeBattleBeforeTask, OutcomeInvalidBrawler, OutcomeInvalidEventType, OutcomeInvalidBotsAmount:
		return true
	default:
		return false
	}
}

// AttemptFailedError is returned by CompleteAuthentication when the fetched
// battle did not satisfy the task. It carries the classification so the
// caller can tell the player what was wrong.
type AttemptFailedError struct {
	Outcome      ChallengeOutcome
	AttemptsLeft int
}

func (e *AttemptFailedError) Error() string {
	return fmt.Sprintf("verification attempt failed: %s (%d attempts left)", e.Outcome, e.AttemptsLeft)
}

// TimeFrame is the validity window of a challenge.
type TimeFrame struct {
	issuedAt  time.Time
	expiresAt time.Time
}

// NewTimeFrame creates a TimeFrame spanning [issuedAt, issuedAt+duration].
func NewTimeFrame(issuedAt time.Time, duration time.Duration) (TimeFrame, error) {
	if duration <= 0 {
		return TimeFrame{}, domainerror.New(domainerror.KindValidation, domainerror.CodeInternal, "time frame duration must be positive")
	}
	return TimeFrame{issuedAt: issuedAt, expiresAt: issuedAt.Add(duration)}, nil
}

// ReconstructTimeFrame rebuilds a TimeFrame from persisted instants.
func ReconstructTimeFrame(issuedAt, expiresAt time.Time) TimeFrame {
	return TimeFrame{issuedAt: issuedAt, expiresAt: expiresAt}
}

func (f TimeFrame) IssuedAt() time.Time  { return f.issuedAt }
func (f TimeFrame) ExpiresAt() time.Time { return f.expiresAt }

func (f TimeFrame) Contains(t time.Time) bool {
	return !t.Before(f.issuedAt) && !t.After(f.expiresAt)
}

// OwnershipChallenge is the time- and attempt-bounded task proving control of
// a claimed game account. It is created by the authenticate use case and
// mutated (attempts incremented) by the completion use case.
//
// The caller contract: evaluate IsExpired and IsAttemptsExceeded before
// invoking Attempt; Attempt re-checks both and reports them as guard outcomes
// without consuming an attempt.
type OwnershipChallenge struct {
	id          uuid.UUID
	playerTag   PlayerTag
	task        OwnershipTask
	timeFrame   TimeFrame
	attempts    int
	maxAttempts int
	succeeded   bool
}

// NewOwnershipChallenge creates a fresh challenge with zero attempts.
func NewOwnershipChallenge(
	id uuid.UUID,
	playerTag PlayerTag,
	task OwnershipTask,
	timeFrame TimeFrame,
	maxAttempts int,
) (*OwnershipChallenge, error) {
	if playerTag.IsEmpty() {
		return nil, domainerror.ErrPlayerTagInvalid
	}
	if maxAttempts <= 0 {
		return nil, domainerror.New(domainerror.KindValidation, domainerror.CodeInternal, "max attempts must be positive")
	}

	return &OwnershipChallenge{
		id:          id,
		playerTag:   playerTag,
		task:        task,
		timeFrame:   timeFrame,
		attempts:    0,
		maxAttempts: maxAttempts,
	}, nil
}

// ReconstructOwnershipChallenge rebuilds a challenge from persisted data.
func ReconstructOwnershipChallenge(
	id uuid.UUID,
	playerTag PlayerTag,
	task OwnershipTask,
	timeFrame TimeFrame,
	attempts int,
	maxAttempts int,
) *OwnershipChallenge {
	return &OwnershipChallenge{
		id:          id,
		playerTag:   playerTag,
		task:        task,
		timeFrame:   timeFrame,
		attempts:    attempts,
		maxAttempts: maxAttempts,
	}
}

// Getters

func (c *OwnershipChallenge) ID() uuid.UUID        { return c.id }
func (c *OwnershipChallenge) PlayerTag() PlayerTag { return c.playerTag }
func (c *OwnershipChallenge) Task() OwnershipTask  { return c.task }
func (c *OwnershipChallenge) TimeFrame() TimeFrame { return c.timeFrame }
func (c *OwnershipChallenge) Attempts() int        { return c.attempts }
func (c *OwnershipChallenge) MaxAttempts() int     { return c.maxAttempts }

// Queries

func (c *OwnershipChallenge) IsExpired(now time.Time) bool {
	return now.After(c.timeFrame.expiresAt)
}

func (c *OwnershipChallenge) IsAttemptsExceeded() bool {
	return c.attempts >= c.maxAttempts
}

func (c *OwnershipChallenge) HasSucceeded() bool { return c.succeeded }

func (c *OwnershipChallenge) AttemptsLeft() int {
	left := c.maxAttempts - c.attempts
	if left < 0 {
		return 0
	}
	return left
}

// Commands

// Attempt runs one verification attempt against the reported battle.
// Guard outcomes (TaskExpired, AttemptsExceeded) do not consume an attempt;
// mismatch outcomes increment the counter; Success marks the challenge
// terminal.
func (c *OwnershipChallenge) Attempt(now time.Time, battle Battle) ChallengeOutcome {
	if c.IsExpired(now) {
		return OutcomeTaskExpired
	}
	if c.IsAttemptsExceeded() {
		return OutcomeAttemptsExceeded
	}

	outcome := c.classify(battle)
	if outcome == OutcomeSuccess {
		c.succeeded = true
		return outcome
	}

	c.attempts++
	return outcome
}

// classify orders the checks deliberately: stale evidence first, then brawler,
// event type, bots. A replayed old battle is rejected even on exact content
// match.
func (c *OwnershipChallenge) classify(battle Battle) ChallengeOutcome {
	if battle.OccurredBefore(c.timeFrame.issuedAt) {
		return OutcomeBattleBeforeTask
	}
	return c.task.Matches(battle)
}
