package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domainerror "github.com/arqon/playproof/internal/domain/error"
	"github.com/arqon/playproof/internal/port/inbound/command"
	"github.com/arqon/playproof/internal/port/inbound/query"
)

// AuthHandler exposes the authentication use cases over HTTP.
type AuthHandler struct {
	authenticate command.AuthenticateHandler
	complete     command.CompleteAuthenticationHandler
	terminate    command.TerminateAuthenticationHandler
	verify       query.VerifyAccessTokenHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authenticate command.AuthenticateHandler,
	complete command.CompleteAuthenticationHandler,
	terminate command.TerminateAuthenticationHandler,
	verify query.VerifyAccessTokenHandler,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authenticate: authenticate,
		complete:     complete,
		terminate:    terminate,
		verify:       verify,
		logger:       logger,
	}
}

// Routes returns the /auth route group.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/challenge", h.handleChallenge)
	r.Post("/complete", h.handleComplete)
	r.Post("/terminate", h.handleTerminate)
	r.Get("/verify", h.handleVerify)
	return r
}

// Wire types

type challengeRequest struct {
	PlayerTag string `json:"player_tag"`
}

type challengeResponse struct {
	SessionToken string    `json:"session_token"`
	ChallengeID  string    `json:"challenge_id"`
	BrawlerID    int64     `json:"brawler_id"`
	EventType    string    `json:"event_type"`
	BotsAmount   int       `json:"bots_amount"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type completeRequest struct {
	SessionToken string `json:"session_token"`
}

type completeResponse struct {
	PlayerTag            string    `json:"player_tag"`
	AccessToken          string    `json:"access_token"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
	RefreshToken         string    `json:"refresh_token"`
}

type terminateRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type terminateResponse struct {
	PlayerTag string `json:"player_tag"`
}

type verifyResponse struct {
	PlayerTag string    `json:"player_tag"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Handlers

func (h *AuthHandler) handleChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.authenticate.Handle(r.Context(), command.Authenticate{PlayerTag: req.PlayerTag})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, challengeResponse{
		SessionToken: result.SessionToken.Reveal(),
		ChallengeID:  result.ChallengeID,
		BrawlerID:    result.BrawlerID.Int64(),
		EventType:    result.EventType.String(),
		BotsAmount:   result.BotsAmount,
		ExpiresAt:    result.ExpiresAt,
	})
}

func (h *AuthHandler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.complete.Handle(r.Context(), command.CompleteAuthentication{SessionToken: req.SessionToken})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, completeResponse{
		PlayerTag:            result.PlayerTag.String(),
		AccessToken:          result.AccessToken.Reveal(),
		AccessTokenExpiresAt: result.AccessTokenExpiresAt,
		RefreshToken:         result.RefreshToken.Reveal(),
	})
}

func (h *AuthHandler) handleTerminate(w http.ResponseWriter, r *http.Request) {
	var req terminateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.terminate.Handle(r.Context(), command.TerminateAuthentication{RefreshToken: req.RefreshToken})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, terminateResponse{PlayerTag: result.PlayerTag})
}

func (h *AuthHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		respondError(w, h.logger, domainerror.ErrTokenRequired)
		return
	}

	result, err := h.verify.Handle(r.Context(), query.VerifyAccessToken{AccessToken: token})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, verifyResponse{
		PlayerTag: result.PlayerTag,
		ExpiresAt: result.ExpiresAt,
	})
}

// Helpers

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "BAD_REQUEST",
			Message: "request body is not valid JSON",
		})
		return false
	}
	return true
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
