package model

import (
	"time"

	domainerror "github.com/arqon/playproof/internal/domain/error"
)

// Authentication is the end product of a successful verification: the issued
// access/refresh token pair bound to the proven player identity. It is
// destroyed (revoked) by the terminate use case, identified solely by refresh
// token.
type Authentication struct {
	playerTag    PlayerTag
	accessToken  AccessToken
	refreshToken RefreshToken
	issuedAt     time.Time
	expiresAt    time.Time
}

// NewAuthentication creates an Authentication for a verified player.
// expiresAt is the refresh-token (authentication-level) expiry; the access
// token carries its own, shorter expiry.
func NewAuthentication(
	playerTag PlayerTag,
	accessToken AccessToken,
	refreshToken RefreshToken,
	issuedAt time.Time,
	expiresAt time.Time,
) (*Authentication, error) {
	if playerTag.IsEmpty() {
		return nil, domainerror.ErrPlayerTagInvalid
	}
	if accessToken.IsEmpty() || refreshToken.IsEmpty() {
		return nil, domainerror.ErrTokenRequired
	}
	if !issuedAt.Before(expiresAt) {
		return nil, domainerror.New(domainerror.KindValidation, domainerror.CodeInternal, "authentication must expire after issuance")
	}

	return &Authentication{
		playerTag:    playerTag,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		issuedAt:     issuedAt,
		expiresAt:    expiresAt,
	}, nil
}

// Getters

func (a *Authentication) PlayerTag() PlayerTag       { return a.playerTag }
func (a *Authentication) AccessToken() AccessToken   { return a.accessToken }
func (a *Authentication) RefreshToken() RefreshToken { return a.refreshToken }
func (a *Authentication) IssuedAt() time.Time        { return a.issuedAt }
func (a *Authentication) ExpiresAt() time.Time       { return a.expiresAt }
