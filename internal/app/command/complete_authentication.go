package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainerror "github.com/arqon/playproof/internal/domain/error"
	"github.com/arqon/playproof/internal/domain/event"
	"github.com/arqon/playproof/internal/domain/model"
	"github.com/arqon/playproof/internal/port/inbound/command"
	"github.com/arqon/playproof/internal/port/outbound/gamedata"
	"github.com/arqon/playproof/internal/port/outbound/messaging"
	"github.com/arqon/playproof/internal/port/outbound/repository"

	"github.com/arqon/playproof/internal/app/service"
)

// completeAuthenticationHandler implements command.CompleteAuthenticationHandler.
type completeAuthenticationHandler struct {
	sessions        repository.SessionRepository
	authentications repository.AuthenticationRepository
	game            gamedata.Client
	tokens          service.TokenService
	publisher       messaging.EventPublisher
	logger          *slog.Logger
	refreshDuration time.Duration

	now func() time.Time
}

// NewCompleteAuthenticationHandler creates a new CompleteAuthenticationHandler.
func NewCompleteAuthenticationHandler(
	sessions repository.SessionRepository,
	authentications repository.AuthenticationRepository,
	game gamedata.Client,
	tokens service.TokenService,
	publisher messaging.EventPublisher,
	logger *slog.Logger,
	refreshDuration time.Duration,
) command.CompleteAuthenticationHandler {
	return &completeAuthenticationHandler{
		sessions:        sessions,
		authentications: authentications,
		game:            game,
		tokens:          tokens,
		publisher:       publisher,
		logger:          logger,
		refreshDuration: refreshDuration,
		now:             time.Now,
	}
}

func (h *completeAuthenticationHandler) Handle(ctx context.Context, cmd command.CompleteAuthentication) (command.CompleteAuthenticationResult, error) {
	if cmd.SessionToken == "" {
		return command.CompleteAuthenticationResult{}, domainerror.ErrSessionNotFound
	}

	tokenDigest := h.tokens.Digest(cmd.SessionToken)

	session, err := h.sessions.FindByTokenDigest(ctx, tokenDigest)
	if err != nil {
		// Lookup failures fold into "not found" so infrastructure detail
		// never leaks to the caller; they are still logged distinctly.
		if !errors.Is(err, repository.ErrNotFound) {
			h.logger.Error("session lookup failed",
				slog.String("session_token_sha512", tokenDigest),
				slog.Any("error", err),
			)
		}
		return command.CompleteAuthenticationResult{}, domainerror.ErrSessionNotFound
	}

	challenge := session.Challenge()
	tag := session.PlayerTag()
	now := h.now().UTC()

	// Guard checks, in order: expiry dominates, then attempt exhaustion.
	// Neither consumes an attempt and neither needs the game data feed.
	if session.IsExpired(now) || challenge.IsExpired(now) {
		return command.CompleteAuthenticationResult{}, domainerror.ErrSessionExpired
	}
	if challenge.IsAttemptsExceeded() {
		return command.CompleteAuthenticationResult{}, domainerror.ErrAttemptsExceeded
	}

	battle, err := h.game.LastBattle(ctx, tag)
	if err != nil {
		// The player cannot be blamed for an upstream fetch error (or an
		// empty battle log); no attempt is consumed.
		h.logger.Error("battle fetch failed",
			slog.String("player_tag", tag.String()),
			slog.Any("error", err),
		)
		return command.CompleteAuthenticationResult{}, domainerror.Internal(err)
	}

	outcome := challenge.Attempt(now, battle)
	if outcome.IsGuard() {
		// Guards were evaluated above; the state machine reporting one here
		// means the caller contract was bypassed.
		panic(fmt.Sprintf("challenge %s: guard outcome %s after guards passed", challenge.ID(), outcome))
	}

	if outcome != model.OutcomeSuccess {
		return h.failAttempt(ctx, tokenDigest, session, outcome)
	}

	// Success transition is a compare-and-swap on the stored session, so two
	// concurrent completions cannot both mint tokens.
	if err := h.sessions.MarkSucceeded(ctx, tokenDigest); err != nil {
		if errors.Is(err, repository.ErrAlreadyTerminal) || errors.Is(err, repository.ErrNotFound) {
			return command.CompleteAuthenticationResult{}, domainerror.ErrSessionNotFound
		}
		h.logger.Error("session success transition failed",
			slog.String("session_token_sha512", tokenDigest),
			slog.Any("error", err),
		)
		return command.CompleteAuthenticationResult{}, domainerror.Internal(err)
	}

	return h.issueTokens(ctx, session, challenge, now)
}

// failAttempt records one consumed attempt and reports the mismatch.
func (h *completeAuthenticationHandler) failAttempt(
	ctx context.Context,
	tokenDigest string,
	session *model.AuthenticationSession,
	outcome model.ChallengeOutcome,
) (command.CompleteAuthenticationResult, error) {
	// Best-effort: a failure to record the increment is logged but does not
	// change the returned outcome.
	if _, err := h.sessions.AddAttempt(ctx, tokenDigest); err != nil {
		h.logger.Error("attempt increment not recorded",
			slog.String("session_token_sha512", tokenDigest),
			slog.Any("error", err),
		)
	}

	tag := session.PlayerTag()
	if err := h.publisher.Publish(ctx, event.NewAuthenticationFailed(tag.String(), outcome.String())); err != nil {
		h.logger.Warn("auth failed event not published", slog.Any("error", err))
	}

	return command.CompleteAuthenticationResult{}, &model.AttemptFailedError{
		Outcome:      outcome,
		AttemptsLeft: session.Challenge().AttemptsLeft(),
	}
}

// issueTokens mints and persists the token pair for a verified player.
func (h *completeAuthenticationHandler) issueTokens(
	ctx context.Context,
	session *model.AuthenticationSession,
	challenge *model.OwnershipChallenge,
	now time.Time,
) (command.CompleteAuthenticationResult, error) {
	tag := session.PlayerTag()

	accessToken, err := h.tokens.GenerateAccessToken(tag, now)
	if err != nil {
		h.logger.Error("access token generation failed",
			slog.String("player_tag", tag.String()),
			slog.Any("error", err),
		)
		return command.CompleteAuthenticationResult{}, domainerror.Internal(err)
	}

	refreshToken, err := h.tokens.GenerateRefreshToken()
	if err != nil {
		h.logger.Error("refresh token generation failed",
			slog.String("player_tag", tag.String()),
			slog.Any("error", err),
		)
		return command.CompleteAuthenticationResult{}, domainerror.Internal(err)
	}

	auth, err := model.NewAuthentication(tag, accessToken, refreshToken, now, now.Add(h.refreshDuration))
	if err != nil {
		return command.CompleteAuthenticationResult{}, domainerror.Internal(err)
	}

	err = h.authentications.IssueAuthentication(ctx,
		h.tokens.Digest(refreshToken.Reveal()),
		h.tokens.Digest(accessToken.Reveal()),
		auth,
	)
	if err != nil {
		h.logger.Error("authentication persistence failed",
			slog.String("player_tag", tag.String()),
			slog.Any("error", err),
		)
		return command.CompleteAuthenticationResult{}, domainerror.Internal(err)
	}

	events := []event.Event{
		event.NewAuthenticationSucceeded(tag.String(), challenge.ID()),
	}
	if err := h.publisher.PublishAll(ctx, events); err != nil {
		h.logger.Warn("auth succeeded event not published", slog.Any("error", err))
	}

	return command.CompleteAuthenticationResult{
		PlayerTag:            tag,
		AccessToken:          accessToken,
		AccessTokenExpiresAt: accessToken.ExpiresAt(),
		RefreshToken:         refreshToken,
	}, nil
}
