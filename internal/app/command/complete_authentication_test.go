package command_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/arqon/playproof/internal/app/command"
	"github.com/arqon/playproof/internal/app/service"
	domainerror "github.com/arqon/playproof/internal/domain/error"
	"github.com/arqon/playproof/internal/domain/event"
	"github.com/arqon/playproof/internal/domain/model"
	inbound "github.com/arqon/playproof/internal/port/inbound/command"
	"github.com/arqon/playproof/internal/port/outbound/repository"
	"github.com/arqon/playproof/tests/testutil/mocks"
)

const rawSessionToken = "opaque-raw-session-token"

type completeFixture struct {
	sessions        *mocks.SessionRepository
	authentications *mocks.AuthenticationRepository
	game            *mocks.GameDataClient
	publisher       *mocks.EventPublisher
	tokens          service.TokenService
	handler         inbound.CompleteAuthenticationHandler
}

func newCompleteFixture(t *testing.T) *completeFixture {
	t.Helper()
	f := &completeFixture{
		sessions:        mocks.NewSessionRepository(),
		authentications: mocks.NewAuthenticationRepository(),
		game:            mocks.NewGameDataClient(),
		publisher:       mocks.NewEventPublisher(),
		tokens:          testTokenService(t),
	}
	f.handler = command.NewCompleteAuthenticationHandler(
		f.sessions,
		f.authentications,
		f.game,
		f.tokens,
		f.publisher,
		testLogger(),
		60*24*time.Hour,
	)
	return f
}

// taskBrawler / taskEvent / taskBots are the fixed challenge content the
// seeded sessions carry.
var (
	taskBrawler = model.BrawlerCatalogue()[3]
	taskEvent   = model.EventTypeGemGrab
	taskBots    = 3
)

// seedSession stores an active session issued at createdAt with the given
// consumed attempts, addressable by the digest of rawSessionToken.
func (f *completeFixture) seedSession(t *testing.T, createdAt time.Time, attempts int) {
	t.Helper()

	tag := testTag(t)
	task, err := model.NewOwnershipTask(taskBrawler, taskEvent, taskBots)
	if err != nil {
		t.Fatalf("NewOwnershipTask: %v", err)
	}
	challenge := model.ReconstructOwnershipChallenge(
		uuid.New(),
		tag,
		task,
		model.ReconstructTimeFrame(createdAt, createdAt.Add(10*time.Minute)),
		attempts,
		3,
	)
	token, err := model.NewSessionToken(rawSessionToken)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	session := model.ReconstructAuthenticationSession(token, challenge, createdAt, 10*time.Minute, model.SessionStatusActive)

	digest := f.tokens.Digest(rawSessionToken)
	err = f.sessions.IssueSession(context.Background(), digest, session, repository.SessionLimit{Window: time.Minute, Threshold: 100})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func (f *completeFixture) digest() string {
	return f.tokens.Digest(rawSessionToken)
}

func matchingTaskBattle(playedAt time.Time) model.Battle {
	return model.NewBattle(taskBrawler, taskEvent, taskBots, playedAt)
}

func TestCompleteAuthentication(t *testing.T) {
	ctx := context.Background()
	cmd := inbound.CompleteAuthentication{SessionToken: rawSessionToken}

	t.Run("empty token reads as unknown session", func(t *testing.T) {
		f := newCompleteFixture(t)
		_, err := f.handler.Handle(ctx, inbound.CompleteAuthentication{})
		if !errors.Is(err, domainerror.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newCompleteFixture(t)
		_, err := f.handler.Handle(ctx, cmd)
		if !errors.Is(err, domainerror.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("lookup failure folds into not found", func(t *testing.T) {
		f := newCompleteFixture(t)
		f.sessions.Errors.FindByTokenDigest = fmt.Errorf("connection reset")

		_, err := f.handler.Handle(ctx, cmd)
		if !errors.Is(err, domainerror.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("expired session", func(t *testing.T) {
		f := newCompleteFixture(t)
		f.seedSession(t, time.Now().UTC().Add(-20*time.Minute), 0)

		_, err := f.handler.Handle(ctx, cmd)
		if !errors.Is(err, domainerror.ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
		if f.game.Calls.LastBattle != 0 {
			t.Error("expired session must not consult the game data feed")
		}
	})

	t.Run("exhausted attempts", func(t *testing.T) {
		f := newCompleteFixture(t)
		f.seedSession(t, time.Now().UTC(), 3)

		_, err := f.handler.Handle(ctx, cmd)
		if !errors.Is(err, domainerror.ErrAttemptsExceeded) {
			t.Fatalf("expected ErrAttemptsExceeded, got %v", err)
		}
		if f.game.Calls.LastBattle != 0 {
			t.Error("exhausted session must not consult the game data feed")
		}
	})

	t.Run("feed failure consumes no attempt", func(t *testing.T) {
		f := newCompleteFixture(t)
		f.seedSession(t, time.Now().UTC(), 0)
		f.game.Errors.LastBattle = fmt.Errorf("upstream 503")

		_, err := f.handler.Handle(ctx, cmd)
		if !errors.Is(err, domainerror.ErrInternal) {
			t.Fatalf("expected ErrInternal, got %v", err)
		}
		if got := f.sessions.Attempts(f.digest()); got != 0 {
			t.Errorf("attempts = %d, want 0", got)
		}
	})

	t.Run("empty battle log consumes no attempt", func(t *testing.T) {
		f := newCompleteFixture(t)
		f.seedSession(t, time.Now().UTC(), 0)
		f.game.AddPlayer(testTag(t)) // known player, no battles

		_, err := f.handler.Handle(ctx, cmd)
		if !errors.Is(err, domainerror.ErrInternal) {
			t.Fatalf("expected ErrInternal, got %v", err)
		}
		if got := f.sessions.Attempts(f.digest()); got != 0 {
			t.Errorf("attempts = %d, want 0", got)
		}
	})

	t.Run("mismatching battle consumes an attempt", func(t *testing.T) {
		f := newCompleteFixture(t)
		now := time.Now().UTC()
		f.seedSession(t, now, 0)
		wrongBrawler := model.NewBattle(model.BrawlerCatalogue()[9], taskEvent, taskBots, now.Add(time.Minute))
		f.game.SetLastBattle(testTag(t), wrongBrawler)

		_, err := f.handler.Handle(ctx, cmd)
		var failed *model.AttemptFailedError
		if !errors.As(err, &failed) {
			t.Fatalf("expected AttemptFailedError, got %v", err)
		}
		if failed.Outcome != model.OutcomeInvalidBrawler {
			t.Errorf("outcome = %s, want %s", failed.Outcome, model.OutcomeInvalidBrawler)
		}
		if failed.AttemptsLeft != 2 {
			t.Errorf("attempts left = %d, want 2", failed.AttemptsLeft)
		}
		if got := f.sessions.Attempts(f.digest()); got != 1 {
			t.Errorf("stored attempts = %d, want 1", got)
		}

		types := f.publisher.PublishedTypes()
		if len(types) != 1 || types[0] != event.EventTypeAuthenticationFailed {
			t.Errorf("published events = %v, want [%s]", types, event.EventTypeAuthenticationFailed)
		}
	})

	t.Run("battle predating the challenge is rejected", func(t *testing.T) {
		f := newCompleteFixture(t)
		now := time.Now().UTC()
		f.seedSession(t, now, 0)
		f.game.SetLastBattle(testTag(t), matchingTaskBattle(now.Add(-time.Hour)))

		_, err := f.handler.Handle(ctx, cmd)
		var failed *model.AttemptFailedError
		if !errors.As(err, &failed) {
			t.Fatalf("expected AttemptFailedError, got %v", err)
		}
		if failed.Outcome != model.OutcomeBattleBeforeTask {
			t.Errorf("outcome = %s, want %s", failed.Outcome, model.OutcomeBattleBeforeTask)
		}
	})

	t.Run("matching battle issues tokens", func(t *testing.T) {
		f := newCompleteFixture(t)
		now := time.Now().UTC()
		f.seedSession(t, now, 0)
		f.game.SetLastBattle(testTag(t), matchingTaskBattle(now.Add(time.Minute)))

		result, err := f.handler.Handle(ctx, cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.PlayerTag.Equals(testTag(t)) {
			t.Errorf("player tag = %s, want %s", result.PlayerTag, testTag(t))
		}
		if result.AccessToken.IsEmpty() || result.RefreshToken.IsEmpty() {
			t.Fatal("expected a full token pair")
		}
		claims, err := f.tokens.ValidateAccessToken(result.AccessToken.Reveal())
		if err != nil {
			t.Fatalf("issued access token does not validate: %v", err)
		}
		if claims.PlayerTag != testTag(t).String() {
			t.Errorf("access token subject = %q, want %q", claims.PlayerTag, testTag(t).String())
		}

		if got := f.sessions.Status(f.digest()); got != model.SessionStatusSucceeded {
			t.Errorf("stored status = %s, want %s", got, model.SessionStatusSucceeded)
		}
		if f.authentications.Calls.IssueAuthentication != 1 {
			t.Errorf("IssueAuthentication calls = %d, want 1", f.authentications.Calls.IssueAuthentication)
		}

		types := f.publisher.PublishedTypes()
		if len(types) != 1 || types[0] != event.EventTypeAuthenticationSucceeded {
			t.Errorf("published events = %v, want [%s]", types, event.EventTypeAuthenticationSucceeded)
		}
	})

	t.Run("success race loses to the stored transition", func(t *testing.T) {
		f := newCompleteFixture(t)
		now := time.Now().UTC()
		f.seedSession(t, now, 0)
		f.game.SetLastBattle(testTag(t), matchingTaskBattle(now.Add(time.Minute)))
		f.sessions.Errors.MarkSucceeded = repository.ErrAlreadyTerminal

		_, err := f.handler.Handle(ctx, cmd)
		if !errors.Is(err, domainerror.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
		if f.authentications.Calls.IssueAuthentication != 0 {
			t.Error("losing the success race must not mint tokens")
		}
	})

	t.Run("attempts exhaust across calls", func(t *testing.T) {
		f := newCompleteFixture(t)
		now := time.Now().UTC()
		f.seedSession(t, now, 0)
		wrongBots := model.NewBattle(taskBrawler, taskEvent, taskBots+1, now.Add(time.Minute))
		f.game.SetLastBattle(testTag(t), wrongBots)

		for i := 0; i < 3; i++ {
			_, err := f.handler.Handle(ctx, cmd)
			var failed *model.AttemptFailedError
			if !errors.As(err, &failed) {
				t.Fatalf("call %d: expected AttemptFailedError, got %v", i+1, err)
			}
			if failed.Outcome != model.OutcomeInvalidBotsAmount {
				t.Errorf("call %d: outcome = %s, want %s", i+1, failed.Outcome, model.OutcomeInvalidBotsAmount)
			}
		}
		if got := f.sessions.Status(f.digest()); got != model.SessionStatusFailed {
			t.Errorf("stored status = %s, want %s", got, model.SessionStatusFailed)
		}

		// A now-matching battle can no longer redeem the session.
		f.game.SetLastBattle(testTag(t), matchingTaskBattle(now.Add(2*time.Minute)))
		_, err := f.handler.Handle(ctx, cmd)
		if !errors.Is(err, domainerror.ErrAttemptsExceeded) {
			t.Fatalf("expected ErrAttemptsExceeded, got %v", err)
		}
	})
}
