package command

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainerror "github.com/arqon/playproof/internal/domain/error"
	"github.com/arqon/playproof/internal/domain/event"
	"github.com/arqon/playproof/internal/domain/model"
	"github.com/arqon/playproof/internal/port/inbound/command"
	"github.com/arqon/playproof/internal/port/outbound/gamedata"
	"github.com/arqon/playproof/internal/port/outbound/messaging"
	"github.com/arqon/playproof/internal/port/outbound/repository"

	"github.com/arqon/playproof/internal/app/service"
)

// authenticateHandler implements command.AuthenticateHandler.
type authenticateHandler struct {
	game          gamedata.Client
	sessions      repository.SessionRepository
	taskGenerator service.TaskGenerator
	tokens        service.TokenService
	publisher     messaging.EventPublisher
	logger        *slog.Logger
	sessionConfig model.SessionConfig
	limit         repository.SessionLimit

	// Injected for determinism in tests.
	now   func() time.Time
	newID func() uuid.UUID
}

// NewAuthenticateHandler creates a new AuthenticateHandler.
func NewAuthenticateHandler(
	game gamedata.Client,
	sessions repository.SessionRepository,
	taskGenerator service.TaskGenerator,
	tokens service.TokenService,
	publisher messaging.EventPublisher,
	logger *slog.Logger,
	sessionConfig model.SessionConfig,
	limit repository.SessionLimit,
) command.AuthenticateHandler {
	return &authenticateHandler{
		game:          game,
		sessions:      sessions,
		taskGenerator: taskGenerator,
		tokens:        tokens,
		publisher:     publisher,
		logger:        logger,
		sessionConfig: sessionConfig,
		limit:         limit,
		now:           time.Now,
		newID:         uuid.New,
	}
}

func (h *authenticateHandler) Handle(ctx context.Context, cmd command.Authenticate) (command.AuthenticateResult, error) {
	tag, err := model.NewPlayerTag(cmd.PlayerTag)
	if err != nil {
		return command.AuthenticateResult{}, err
	}

	// Verify the claimed player exists before issuing anything.
	exists, err := h.game.PlayerExists(ctx, tag)
	if err != nil {
		h.logger.Error("player lookup failed",
			slog.String("player_tag", tag.String()),
			slog.Any("error", err),
		)
		return command.AuthenticateResult{}, domainerror.Internal(err)
	}
	if !exists {
		return command.AuthenticateResult{}, domainerror.ErrPlayerNotFound
	}

	token, err := h.tokens.GenerateSessionToken()
	if err != nil {
		h.logger.Error("session token generation failed", slog.Any("error", err))
		return command.AuthenticateResult{}, domainerror.Internal(err)
	}

	task, err := h.taskGenerator.Generate()
	if err != nil {
		h.logger.Error("task generation failed", slog.Any("error", err))
		return command.AuthenticateResult{}, domainerror.Internal(err)
	}

	now := h.now().UTC()
	timeFrame, err := model.NewTimeFrame(now, h.sessionConfig.SessionDuration)
	if err != nil {
		return command.AuthenticateResult{}, domainerror.Internal(err)
	}

	challenge, err := model.NewOwnershipChallenge(h.newID(), tag, task, timeFrame, h.sessionConfig.MaxAttempts)
	if err != nil {
		return command.AuthenticateResult{}, err
	}

	session, err := model.NewAuthenticationSession(token, challenge, now, h.sessionConfig.SessionDuration)
	if err != nil {
		return command.AuthenticateResult{}, err
	}

	// Count-then-insert is atomic in the repository, serialized per player
	// tag, so concurrent calls cannot collectively exceed the threshold.
	err = h.sessions.IssueSession(ctx, h.tokens.Digest(token.Reveal()), session, h.limit)
	if err != nil {
		if errors.Is(err, repository.ErrLimitExceeded) {
			return command.AuthenticateResult{}, domainerror.ErrTooManyAttempts
		}
		h.logger.Error("session persistence failed",
			slog.String("player_tag", tag.String()),
			slog.Any("error", err),
		)
		return command.AuthenticateResult{}, domainerror.Internal(err)
	}

	if err := h.publisher.Publish(ctx, event.NewSessionIssued(
		challenge.ID(), tag.String(), task.EventType().String(), timeFrame.ExpiresAt(),
	)); err != nil {
		h.logger.Warn("session issued event not published", slog.Any("error", err))
	}

	return command.AuthenticateResult{
		SessionToken: token,
		ChallengeID:  challenge.ID().String(),
		BrawlerID:    task.BrawlerID(),
		EventType:    task.EventType(),
		BotsAmount:   task.BotsAmount(),
		ExpiresAt:    timeFrame.ExpiresAt(),
	}, nil
}
