package query

import (
	"context"
	"log/slog"

	domainerror "github.com/arqon/playproof/internal/domain/error"
	"github.com/arqon/playproof/internal/port/inbound/query"
	"github.com/arqon/playproof/internal/port/outbound/cache"

	"github.com/arqon/playproof/internal/app/service"
)

// verifyAccessTokenHandler implements query.VerifyAccessTokenHandler.
type verifyAccessTokenHandler struct {
	tokens    service.TokenService
	blacklist cache.TokenBlacklist
	logger    *slog.Logger
}

// NewVerifyAccessTokenHandler creates a new VerifyAccessTokenHandler.
func NewVerifyAccessTokenHandler(
	tokens service.TokenService,
	blacklist cache.TokenBlacklist,
	logger *slog.Logger,
) query.VerifyAccessTokenHandler {
	return &verifyAccessTokenHandler{
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (h *verifyAccessTokenHandler) Handle(ctx context.Context, q query.VerifyAccessToken) (query.VerifyAccessTokenResult, error) {
	claims, err := h.tokens.ValidateAccessToken(q.AccessToken)
	if err != nil {
		return query.VerifyAccessTokenResult{}, err
	}

	digest := h.tokens.Digest(q.AccessToken)
	blacklisted, err := h.blacklist.IsBlacklisted(ctx, digest)
	if err != nil {
		// Fail closed: a token that cannot be checked is not accepted.
		h.logger.Error("token blacklist check failed",
			slog.String("access_token_sha512", digest),
			slog.Any("error", err),
		)
		return query.VerifyAccessTokenResult{}, domainerror.Internal(err)
	}
	if blacklisted {
		return query.VerifyAccessTokenResult{}, domainerror.ErrTokenRevoked
	}

	return query.VerifyAccessTokenResult{
		PlayerTag: claims.PlayerTag,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}
