package event

import (
	"time"

	"github.com/google/uuid"
)

// SessionIssued is emitted when a new challenge session is issued.
// Session tokens never appear in events; only the challenge id does.
type SessionIssued struct {
	BaseEvent
	ChallengeID uuid.UUID `json:"challenge_id"`
	PlayerTag   string    `json:"player_tag"`
	EventMode   string    `json:"event_mode"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewSessionIssued creates a new SessionIssued event.
func NewSessionIssued(challengeID uuid.UUID, playerTag, eventMode string, expiresAt time.Time) SessionIssued {
	return SessionIssued{
		BaseEvent:   NewBaseEvent(EventTypeSessionIssued, playerTag, AggregateTypeSession),
		ChallengeID: challengeID,
		PlayerTag:   playerTag,
		EventMode:   eventMode,
		ExpiresAt:   expiresAt,
	}
}

// AuthenticationSucceeded is emitted when a challenge is verified and tokens
// are issued.
type AuthenticationSucceeded struct {
	BaseEvent
	PlayerTag   string    `json:"player_tag"`
	ChallengeID uuid.UUID `json:"challenge_id"`
}

// NewAuthenticationSucceeded creates a new AuthenticationSucceeded event.
func NewAuthenticationSucceeded(playerTag string, challengeID uuid.UUID) AuthenticationSucceeded {
	return AuthenticationSucceeded{
		BaseEvent:   NewBaseEvent(EventTypeAuthenticationSucceeded, playerTag, AggregateTypeAuthentication),
		PlayerTag:   playerTag,
		ChallengeID: challengeID,
	}
}

// AuthenticationFailed is emitted on a failed or rejected verification
// attempt. Reason is a coarse label, never raw evidence.
type AuthenticationFailed struct {
	BaseEvent
	PlayerTag string `json:"player_tag"`
	Reason    string `json:"reason"`
}

// NewAuthenticationFailed creates a new AuthenticationFailed event.
func NewAuthenticationFailed(playerTag, reason string) AuthenticationFailed {
	return AuthenticationFailed{
		BaseEvent: NewBaseEvent(EventTypeAuthenticationFailed, playerTag, AggregateTypeAuthentication),
		PlayerTag: playerTag,
		Reason:    reason,
	}
}

// AuthenticationTerminated is emitted when a refresh token is revoked.
type AuthenticationTerminated struct {
	BaseEvent
	PlayerTag string `json:"player_tag"`
}

// NewAuthenticationTerminated creates a new AuthenticationTerminated event.
func NewAuthenticationTerminated(playerTag string) AuthenticationTerminated {
	return AuthenticationTerminated{
		BaseEvent: NewBaseEvent(EventTypeAuthenticationTerminated, playerTag, AggregateTypeAuthentication),
		PlayerTag: playerTag,
	}
}
