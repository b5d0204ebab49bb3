package command

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerror "github.com/arqon/playproof/internal/domain/error"
	"github.com/arqon/playproof/internal/domain/event"
	"github.com/arqon/playproof/internal/port/inbound/command"
	"github.com/arqon/playproof/internal/port/outbound/cache"
	"github.com/arqon/playproof/internal/port/outbound/messaging"
	"github.com/arqon/playproof/internal/port/outbound/repository"

	"github.com/arqon/playproof/internal/app/service"
)

// terminateAuthenticationHandler implements command.TerminateAuthenticationHandler.
type terminateAuthenticationHandler struct {
	authentications repository.AuthenticationRepository
	tokens          service.TokenService
	blacklist       cache.TokenBlacklist
	publisher       messaging.EventPublisher
	logger          *slog.Logger

	now func() time.Time
}

// NewTerminateAuthenticationHandler creates a new TerminateAuthenticationHandler.
func NewTerminateAuthenticationHandler(
	authentications repository.AuthenticationRepository,
	tokens service.TokenService,
	blacklist cache.TokenBlacklist,
	publisher messaging.EventPublisher,
	logger *slog.Logger,
) command.TerminateAuthenticationHandler {
	return &terminateAuthenticationHandler{
		authentications: authentications,
		tokens:          tokens,
		blacklist:       blacklist,
		publisher:       publisher,
		logger:          logger,
		now:             time.Now,
	}
}

func (h *terminateAuthenticationHandler) Handle(ctx context.Context, cmd command.TerminateAuthentication) (command.TerminateAuthenticationResult, error) {
	if cmd.RefreshToken == "" {
		return command.TerminateAuthenticationResult{}, domainerror.ErrTokenRequired
	}

	refreshDigest := h.tokens.Digest(cmd.RefreshToken)

	terminated, err := h.authentications.TerminateAuthentication(ctx, refreshDigest)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return command.TerminateAuthenticationResult{}, domainerror.ErrAuthenticationNotFound
		}
		// The refresh token is logged only as a digest, never in plaintext.
		h.logger.Error("authentication termination failed",
			slog.String("refresh_token_sha512", refreshDigest),
			slog.Any("error", err),
		)
		return command.TerminateAuthenticationResult{}, domainerror.Internal(err)
	}

	// Blacklist the paired access token for its remaining life so it stops
	// verifying immediately rather than at natural expiry.
	if ttl := terminated.AccessExpiresAt.Sub(h.now()); ttl > 0 {
		if err := h.blacklist.Add(ctx, terminated.AccessTokenDigest, ttl); err != nil {
			h.logger.Warn("access token not blacklisted",
				slog.String("access_token_sha512", terminated.AccessTokenDigest),
				slog.Any("error", err),
			)
		}
	}

	tag := terminated.PlayerTag.String()
	if err := h.publisher.Publish(ctx, event.NewAuthenticationTerminated(tag)); err != nil {
		h.logger.Warn("auth terminated event not published", slog.Any("error", err))
	}

	return command.TerminateAuthenticationResult{PlayerTag: tag}, nil
}
