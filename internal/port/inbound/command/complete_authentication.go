package command

import (
	"context"
	"time"

	"github.com/arqon/playproof/internal/domain/model"
)

// CompleteAuthentication verifies an outstanding challenge against the
// player's most recent reported battle and, on success, issues tokens.
type CompleteAuthentication struct {
	// SessionToken is the raw opaque token returned by Authenticate.
	SessionToken string
}

func (c CompleteAuthentication) CommandName() string {
	return "playproof.complete_authentication"
}

// CompleteAuthenticationResult contains the issued token pair.
type CompleteAuthenticationResult struct {
	PlayerTag            model.PlayerTag
	AccessToken          model.AccessToken
	AccessTokenExpiresAt time.Time
	RefreshToken         model.RefreshToken
}

// CompleteAuthenticationHandler handles the CompleteAuthentication command.
type CompleteAuthenticationHandler interface {
	Handle(ctx context.Context, cmd CompleteAuthentication) (CompleteAuthenticationResult, error)
}
