package query_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/arqon/playproof/internal/app/query"
	"github.com/arqon/playproof/internal/app/service"
	domainerror "github.com/arqon/playproof/internal/domain/error"
	"github.com/arqon/playproof/internal/domain/model"
	inbound "github.com/arqon/playproof/internal/port/inbound/query"
	"github.com/arqon/playproof/tests/testutil/mocks"
)

type verifyFixture struct {
	blacklist *mocks.TokenBlacklist
	tokens    service.TokenService
	handler   inbound.VerifyAccessTokenHandler
}

func newVerifyFixture(t *testing.T) *verifyFixture {
	t.Helper()
	cfg := service.DefaultTokenConfig()
	cfg.SigningKey = []byte("test-signing-key-with-enough-entropy")
	tokens, err := service.NewTokenService(cfg)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	f := &verifyFixture{
		blacklist: mocks.NewTokenBlacklist(),
		tokens:    tokens,
	}
	f.handler = query.NewVerifyAccessTokenHandler(
		f.tokens,
		f.blacklist,
		slog.New(slog.DiscardHandler),
	)
	return f
}

func (f *verifyFixture) issueToken(t *testing.T) model.AccessToken {
	t.Helper()
	tag, err := model.NewPlayerTag("#2PP0VC90")
	if err != nil {
		t.Fatalf("NewPlayerTag: %v", err)
	}
	token, err := f.tokens.GenerateAccessToken(tag, time.Now().UTC())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return token
}

func TestVerifyAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token yields its claims", func(t *testing.T) {
		f := newVerifyFixture(t)
		token := f.issueToken(t)

		result, err := f.handler.Handle(ctx, inbound.VerifyAccessToken{AccessToken: token.Reveal()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PlayerTag != "#2PP0VC90" {
			t.Errorf("player tag = %q, want %q", result.PlayerTag, "#2PP0VC90")
		}
		if !result.ExpiresAt.After(time.Now()) {
			t.Error("expected expiry in the future")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newVerifyFixture(t)
		_, err := f.handler.Handle(ctx, inbound.VerifyAccessToken{AccessToken: "garbage"})
		if !errors.Is(err, domainerror.ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
		if f.blacklist.Calls.IsBlacklisted != 0 {
			t.Error("an invalid token never reaches the blacklist")
		}
	})

	t.Run("revoked token", func(t *testing.T) {
		f := newVerifyFixture(t)
		token := f.issueToken(t)
		if err := f.blacklist.Add(ctx, f.tokens.Digest(token.Reveal()), time.Minute); err != nil {
			t.Fatalf("blacklist seed: %v", err)
		}

		_, err := f.handler.Handle(ctx, inbound.VerifyAccessToken{AccessToken: token.Reveal()})
		if !errors.Is(err, domainerror.ErrTokenRevoked) {
			t.Fatalf("expected ErrTokenRevoked, got %v", err)
		}
	})

	t.Run("blacklist outage fails closed", func(t *testing.T) {
		f := newVerifyFixture(t)
		token := f.issueToken(t)
		f.blacklist.Errors.IsBlacklisted = fmt.Errorf("redis down")

		_, err := f.handler.Handle(ctx, inbound.VerifyAccessToken{AccessToken: token.Reveal()})
		if !errors.Is(err, domainerror.ErrInternal) {
			t.Fatalf("expected ErrInternal, got %v", err)
		}
	})
}
