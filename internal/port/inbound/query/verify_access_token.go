package query

import (
	"context"
	"time"
)

// VerifyAccessToken validates a bearer access token: signature, expiry, and
// absence from the termination blacklist.
type VerifyAccessToken struct {
	// AccessToken is the raw bearer token.
	AccessToken string
}

// VerifyAccessTokenResult contains the verified identity claims.
type VerifyAccessTokenResult struct {
	PlayerTag string
	ExpiresAt time.Time
}

// VerifyAccessTokenHandler handles VerifyAccessToken queries.
type VerifyAccessTokenHandler interface {
	Handle(ctx context.Context, q VerifyAccessToken) (VerifyAccessTokenResult, error)
}
