package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerror "github.com/arqon/playproof/internal/domain/error"
	"github.com/arqon/playproof/internal/domain/model"
)

// errorResponse is the uniform JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Outcome and AttemptsLeft are set only for failed verification attempts.
	Outcome      string `json:"outcome,omitempty"`
	AttemptsLeft *int   `json:"attempts_left,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError maps domain errors onto HTTP statuses. Unknown errors are
// logged and surfaced as an opaque 500.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var attemptFailed *model.AttemptFailedError
	if errors.As(err, &attemptFailed) {
		left := attemptFailed.AttemptsLeft
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:         string(domainerror.CodeAttemptFailed),
			Message:      "verification attempt failed",
			Outcome:      attemptFailed.Outcome.String(),
			AttemptsLeft: &left,
		})
		return
	}

	var domainErr *domainerror.Error
	if errors.As(err, &domainErr) {
		respondJSON(w, statusForKind(domainErr.Kind()), errorResponse{
			Code:    string(domainErr.Code()),
			Message: domainErr.Error(),
		})
		return
	}

	logger.Error("unclassified error reached http boundary", "error", err)
	respondJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    string(domainerror.CodeInternal),
		Message: "internal failure, try again later",
	})
}

func statusForKind(kind domainerror.Kind) int {
	switch kind {
	case domainerror.KindValidation:
		return http.StatusBadRequest
	case domainerror.KindNotFound:
		return http.StatusNotFound
	case domainerror.KindUnauthorized:
		return http.StatusUnauthorized
	case domainerror.KindRateLimited:
		return http.StatusTooManyRequests
	case domainerror.KindDomain:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
