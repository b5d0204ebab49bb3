package command

import (
	"context"
)

// TerminateAuthentication revokes the authentication identified by a refresh
// token. Used during logout.
type TerminateAuthentication struct {
	// RefreshToken is the raw refresh token (not hashed).
	RefreshToken string
}

func (c TerminateAuthentication) CommandName() string {
	return "playproof.terminate_authentication"
}

// TerminateAuthenticationResult is the result of terminating an
// authentication.
type TerminateAuthenticationResult struct {
	// PlayerTag is the canonical tag the revoked authentication belonged to.
	PlayerTag string
}

// TerminateAuthenticationHandler handles TerminateAuthentication commands.
type TerminateAuthenticationHandler interface {
	Handle(ctx context.Context, cmd TerminateAuthentication) (TerminateAuthenticationResult, error)
}
