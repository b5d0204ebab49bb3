package service

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainerror "github.com/arqon/playproof/internal/domain/error"
	"github.com/arqon/playproof/internal/domain/model"
)

// TokenService mints and validates the three token kinds of the protocol:
// opaque session tokens, JWT access tokens, and opaque refresh tokens.
type TokenService interface {
	// GenerateSessionToken mints an opaque session token.
	GenerateSessionToken() (model.SessionToken, error)

	// GenerateAccessToken mints a signed access token for a proven player,
	// expiring at now + AccessTokenDuration.
	GenerateAccessToken(tag model.PlayerTag, now time.Time) (model.AccessToken, error)

	// GenerateRefreshToken mints an opaque refresh token.
	GenerateRefreshToken() (model.RefreshToken, error)

	// ValidateAccessToken verifies signature, expiry, issuer and audience,
	// returning the embedded claims.
	ValidateAccessToken(raw string) (*AccessTokenClaims, error)

	// Digest returns the one-way SHA-512 hex digest of a secret. This is the
	// only form in which tokens may be stored or logged.
	Digest(secret string) string
}

// AccessTokenClaims contains the claims embedded in an access token.
type AccessTokenClaims struct {
	PlayerTag string
	ExpiresAt time.Time
}

// TokenConfig holds configuration for token generation.
type TokenConfig struct {
	Issuer               string
	Audience             string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	SigningKey           []byte
}

// DefaultTokenConfig returns default token configuration.
func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		Issuer:               "playproof",
		Audience:             "playproof",
		AccessTokenDuration:  10 * time.Minute,
		RefreshTokenDuration: 60 * 24 * time.Hour,
	}
}

// opaqueTokenBytes is the entropy of session and refresh tokens.
const opaqueTokenBytes = 32

// tokenService implements TokenService.
type tokenService struct {
	config TokenConfig
}

// NewTokenService creates a new TokenService.
func NewTokenService(config TokenConfig) (TokenService, error) {
	if len(config.SigningKey) == 0 {
		return nil, fmt.Errorf("token service: signing key is required")
	}
	return &tokenService{config: config}, nil
}

func (s *tokenService) GenerateSessionToken() (model.SessionToken, error) {
	value, err := randomToken()
	if err != nil {
		return model.SessionToken{}, err
	}
	return model.NewSessionToken(value)
}

func (s *tokenService) GenerateAccessToken(tag model.PlayerTag, now time.Time) (model.AccessToken, error) {
	expiresAt := now.Add(s.config.AccessTokenDuration)

	claims := jwt.RegisteredClaims{
		Subject:   tag.String(),
		Issuer:    s.config.Issuer,
		Audience:  jwt.ClaimStrings{s.config.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.SigningKey)
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}

	return model.NewAccessToken(signed, expiresAt)
}

func (s *tokenService) GenerateRefreshToken() (model.RefreshToken, error) {
	value, err := randomToken()
	if err != nil {
		return model.RefreshToken{}, err
	}
	return model.NewRefreshToken(value)
}

func (s *tokenService) ValidateAccessToken(raw string) (*AccessTokenClaims, error) {
	if raw == "" {
		return nil, domainerror.ErrTokenRequired
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) { return s.config.SigningKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithAudience(s.config.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, domainerror.Wrap(domainerror.ErrTokenInvalid, err)
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, domainerror.ErrTokenInvalid
	}

	return &AccessTokenClaims{
		PlayerTag: claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *tokenService) Digest(secret string) string {
	sum := sha512.Sum512([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// randomToken returns a URL-safe opaque token with 256 bits of entropy.
func randomToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
