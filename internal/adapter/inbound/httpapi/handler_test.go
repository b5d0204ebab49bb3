package httpapi_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arqon/playproof/internal/adapter/inbound/httpapi"
	domainerror "github.com/arqon/playproof/internal/domain/error"
	"github.com/arqon/playproof/internal/domain/model"
	"github.com/arqon/playproof/internal/port/inbound/command"
	"github.com/arqon/playproof/internal/port/inbound/query"
)

// Stub use-case handlers. Each route exercises exactly one port, so the
// unused ones stay nil.

type stubAuthenticate func(context.Context, command.Authenticate) (command.AuthenticateResult, error)

func (s stubAuthenticate) Handle(ctx context.Context, cmd command.Authenticate) (command.AuthenticateResult, error) {
	return s(ctx, cmd)
}

type stubComplete func(context.Context, command.CompleteAuthentication) (command.CompleteAuthenticationResult, error)

func (s stubComplete) Handle(ctx context.Context, cmd command.CompleteAuthentication) (command.CompleteAuthenticationResult, error) {
	return s(ctx, cmd)
}

type stubTerminate func(context.Context, command.TerminateAuthentication) (command.TerminateAuthenticationResult, error)

func (s stubTerminate) Handle(ctx context.Context, cmd command.TerminateAuthentication) (command.TerminateAuthenticationResult, error) {
	return s(ctx, cmd)
}

type stubVerify func(context.Context, query.VerifyAccessToken) (query.VerifyAccessTokenResult, error)

func (s stubVerify) Handle(ctx context.Context, q query.VerifyAccessToken) (query.VerifyAccessTokenResult, error) {
	return s(ctx, q)
}

func newHandler(
	authenticate command.AuthenticateHandler,
	complete command.CompleteAuthenticationHandler,
	terminate command.TerminateAuthenticationHandler,
	verify query.VerifyAccessTokenHandler,
) *httpapi.AuthHandler {
	return httpapi.NewAuthHandler(authenticate, complete, terminate, verify, slog.New(slog.DiscardHandler))
}

func doJSON(t *testing.T, h *httpapi.AuthHandler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func TestHandleChallenge(t *testing.T) {
	t.Run("issues a challenge", func(t *testing.T) {
		token, err := model.NewSessionToken("opaque-session-token")
		if err != nil {
			t.Fatalf("NewSessionToken: %v", err)
		}
		expiresAt := time.Now().Add(10 * time.Minute).UTC()

		var gotTag string
		authenticate := stubAuthenticate(func(_ context.Context, cmd command.Authenticate) (command.AuthenticateResult, error) {
			gotTag = cmd.PlayerTag
			return command.AuthenticateResult{
				SessionToken: token,
				ChallengeID:  "9f3b0c1e-0000-0000-0000-000000000000",
				BrawlerID:    model.BrawlerCatalogue()[3],
				EventType:    model.EventTypeGemGrab,
				BotsAmount:   3,
				ExpiresAt:    expiresAt,
			}, nil
		})
		h := newHandler(authenticate, nil, nil, nil)

		rec := doJSON(t, h, http.MethodPost, "/challenge", `{"player_tag":"#2PP0VC90"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
		}
		if gotTag != "#2PP0VC90" {
			t.Errorf("handler received tag %q", gotTag)
		}

		body := decodeResponse(t, rec)
		if body["session_token"] != "opaque-session-token" {
			t.Errorf("session_token = %v", body["session_token"])
		}
		if body["brawler_id"] != float64(16000003) {
			t.Errorf("brawler_id = %v", body["brawler_id"])
		}
		if body["event_type"] != "GEM_GRAB" {
			t.Errorf("event_type = %v", body["event_type"])
		}
		if body["bots_amount"] != float64(3) {
			t.Errorf("bots_amount = %v", body["bots_amount"])
		}
	})

	t.Run("invalid tag maps to 400", func(t *testing.T) {
		authenticate := stubAuthenticate(func(context.Context, command.Authenticate) (command.AuthenticateResult, error) {
			return command.AuthenticateResult{}, domainerror.ErrPlayerTagInvalid
		})
		h := newHandler(authenticate, nil, nil, nil)

		rec := doJSON(t, h, http.MethodPost, "/challenge", `{"player_tag":"not-a-tag"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		if body := decodeResponse(t, rec); body["code"] != "PLAYER_TAG_INVALID" {
			t.Errorf("code = %v", body["code"])
		}
	})

	t.Run("session limit maps to 429", func(t *testing.T) {
		authenticate := stubAuthenticate(func(context.Context, command.Authenticate) (command.AuthenticateResult, error) {
			return command.AuthenticateResult{}, domainerror.ErrTooManyAttempts
		})
		h := newHandler(authenticate, nil, nil, nil)

		rec := doJSON(t, h, http.MethodPost, "/challenge", `{"player_tag":"#2PP0VC90"}`)
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
		}
		if body := decodeResponse(t, rec); body["code"] != "TOO_MANY_ATTEMPTS" {
			t.Errorf("code = %v", body["code"])
		}
	})

	t.Run("malformed body maps to 400 without reaching the handler", func(t *testing.T) {
		called := false
		authenticate := stubAuthenticate(func(context.Context, command.Authenticate) (command.AuthenticateResult, error) {
			called = true
			return command.AuthenticateResult{}, nil
		})
		h := newHandler(authenticate, nil, nil, nil)

		rec := doJSON(t, h, http.MethodPost, "/challenge", `{"player_tag":`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		if body := decodeResponse(t, rec); body["code"] != "BAD_REQUEST" {
			t.Errorf("code = %v", body["code"])
		}
		if called {
			t.Error("handler was invoked for invalid JSON")
		}
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		authenticate := stubAuthenticate(func(context.Context, command.Authenticate) (command.AuthenticateResult, error) {
			return command.AuthenticateResult{}, nil
		})
		h := newHandler(authenticate, nil, nil, nil)

		rec := doJSON(t, h, http.MethodPost, "/challenge", `{"player_tag":"#2PP0VC90","admin":true}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestHandleComplete(t *testing.T) {
	t.Run("issues a token pair", func(t *testing.T) {
		tag, err := model.NewPlayerTag("#2PP0VC90")
		if err != nil {
			t.Fatalf("NewPlayerTag: %v", err)
		}
		accessExpiry := time.Now().Add(10 * time.Minute).UTC()
		access, err := model.NewAccessToken("signed.access.token", accessExpiry)
		if err != nil {
			t.Fatalf("NewAccessToken: %v", err)
		}
		refresh, err := model.NewRefreshToken("opaque-refresh-token")
		if err != nil {
			t.Fatalf("NewRefreshToken: %v", err)
		}

		complete := stubComplete(func(_ context.Context, cmd command.CompleteAuthentication) (command.CompleteAuthenticationResult, error) {
			if cmd.SessionToken != "opaque-session-token" {
				t.Errorf("session token = %q", cmd.SessionToken)
			}
			return command.CompleteAuthenticationResult{
				PlayerTag:            tag,
				AccessToken:          access,
				AccessTokenExpiresAt: accessExpiry,
				RefreshToken:         refresh,
			}, nil
		})
		h := newHandler(nil, complete, nil, nil)

		rec := doJSON(t, h, http.MethodPost, "/complete", `{"session_token":"opaque-session-token"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		body := decodeResponse(t, rec)
		if body["player_tag"] != "#2PP0VC90" {
			t.Errorf("player_tag = %v", body["player_tag"])
		}
		if body["access_token"] != "signed.access.token" {
			t.Errorf("access_token = %v", body["access_token"])
		}
		if body["refresh_token"] != "opaque-refresh-token" {
			t.Errorf("refresh_token = %v", body["refresh_token"])
		}
	})

	t.Run("failed attempt maps to 422 with the outcome", func(t *testing.T) {
		complete := stubComplete(func(context.Context, command.CompleteAuthentication) (command.CompleteAuthenticationResult, error) {
			return command.CompleteAuthenticationResult{}, &model.AttemptFailedError{
				Outcome:      model.OutcomeInvalidBrawler,
				AttemptsLeft: 2,
			}
		})
		h := newHandler(nil, complete, nil, nil)

		rec := doJSON(t, h, http.MethodPost, "/complete", `{"session_token":"opaque-session-token"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
		}

		body := decodeResponse(t, rec)
		if body["code"] != "ATTEMPT_FAILED" {
			t.Errorf("code = %v", body["code"])
		}
		if body["outcome"] != "INVALID_BRAWLER" {
			t.Errorf("outcome = %v", body["outcome"])
		}
		if body["attempts_left"] != float64(2) {
			t.Errorf("attempts_left = %v", body["attempts_left"])
		}
	})

	t.Run("unknown session maps to 404", func(t *testing.T) {
		complete := stubComplete(func(context.Context, command.CompleteAuthentication) (command.CompleteAuthenticationResult, error) {
			return command.CompleteAuthenticationResult{}, domainerror.ErrSessionNotFound
		})
		h := newHandler(nil, complete, nil, nil)

		rec := doJSON(t, h, http.MethodPost, "/complete", `{"session_token":"unknown"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("exhausted session maps to 401", func(t *testing.T) {
		complete := stubComplete(func(context.Context, command.CompleteAuthentication) (command.CompleteAuthenticationResult, error) {
			return command.CompleteAuthenticationResult{}, domainerror.ErrAttemptsExceeded
		})
		h := newHandler(nil, complete, nil, nil)

		rec := doJSON(t, h, http.MethodPost, "/complete", `{"session_token":"opaque-session-token"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if body := decodeResponse(t, rec); body["code"] != "ATTEMPTS_EXCEEDED" {
			t.Errorf("code = %v", body["code"])
		}
	})
}

func TestHandleTerminate(t *testing.T) {
	t.Run("revokes the authentication", func(t *testing.T) {
		terminate := stubTerminate(func(_ context.Context, cmd command.TerminateAuthentication) (command.TerminateAuthenticationResult, error) {
			if cmd.RefreshToken != "opaque-refresh-token" {
				t.Errorf("refresh token = %q", cmd.RefreshToken)
			}
			return command.TerminateAuthenticationResult{PlayerTag: "#2PP0VC90"}, nil
		})
		h := newHandler(nil, nil, terminate, nil)

		rec := doJSON(t, h, http.MethodPost, "/terminate", `{"refresh_token":"opaque-refresh-token"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if body := decodeResponse(t, rec); body["player_tag"] != "#2PP0VC90" {
			t.Errorf("player_tag = %v", body["player_tag"])
		}
	})

	t.Run("unknown refresh token maps to 404", func(t *testing.T) {
		terminate := stubTerminate(func(context.Context, command.TerminateAuthentication) (command.TerminateAuthenticationResult, error) {
			return command.TerminateAuthenticationResult{}, domainerror.ErrAuthenticationNotFound
		})
		h := newHandler(nil, nil, terminate, nil)

		rec := doJSON(t, h, http.MethodPost, "/terminate", `{"refresh_token":"unknown"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
		if body := decodeResponse(t, rec); body["code"] != "AUTHENTICATION_NOT_FOUND" {
			t.Errorf("code = %v", body["code"])
		}
	})
}

func TestHandleVerify(t *testing.T) {
	t.Run("verifies a bearer token", func(t *testing.T) {
		expiresAt := time.Now().Add(5 * time.Minute).UTC().Truncate(time.Second)
		verify := stubVerify(func(_ context.Context, q query.VerifyAccessToken) (query.VerifyAccessTokenResult, error) {
			if q.AccessToken != "signed.access.token" {
				t.Errorf("access token = %q", q.AccessToken)
			}
			return query.VerifyAccessTokenResult{PlayerTag: "#2PP0VC90", ExpiresAt: expiresAt}, nil
		})
		h := newHandler(nil, nil, nil, verify)

		req := httptest.NewRequest(http.MethodGet, "/verify", nil)
		req.Header.Set("Authorization", "Bearer signed.access.token")
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if body := decodeResponse(t, rec); body["player_tag"] != "#2PP0VC90" {
			t.Errorf("player_tag = %v", body["player_tag"])
		}
	})

	t.Run("missing bearer token maps to 400", func(t *testing.T) {
		called := false
		verify := stubVerify(func(context.Context, query.VerifyAccessToken) (query.VerifyAccessTokenResult, error) {
			called = true
			return query.VerifyAccessTokenResult{}, nil
		})
		h := newHandler(nil, nil, nil, verify)

		req := httptest.NewRequest(http.MethodGet, "/verify", nil)
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		if body := decodeResponse(t, rec); body["code"] != "TOKEN_REQUIRED" {
			t.Errorf("code = %v", body["code"])
		}
		if called {
			t.Error("query was invoked without a token")
		}
	})

	t.Run("revoked token maps to 401", func(t *testing.T) {
		verify := stubVerify(func(context.Context, query.VerifyAccessToken) (query.VerifyAccessTokenResult, error) {
			return query.VerifyAccessTokenResult{}, domainerror.ErrTokenRevoked
		})
		h := newHandler(nil, nil, nil, verify)

		req := httptest.NewRequest(http.MethodGet, "/verify", nil)
		req.Header.Set("Authorization", "Bearer signed.access.token")
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if body := decodeResponse(t, rec); body["code"] != "TOKEN_REVOKED" {
			t.Errorf("code = %v", body["code"])
		}
	})
}
