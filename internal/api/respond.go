package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	custom_errors "github-portfolio/internal/errors"
)

type errorResponse struct {
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Message: message})
}

// respondWithAppError maps the application error taxonomy onto HTTP statuses.
// Unclassified errors are logged and answered with 500 and fallback.
func respondWithAppError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	var validation *custom_errors.ValidationError
	switch {
	case errors.As(err, &validation):
		respondWithError(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, custom_errors.ErrLimitExceeded):
		respondWithError(w, http.StatusBadRequest, "Maximum 5 repositories can be pinned")
	case errors.Is(err, custom_errors.ErrAlreadyPinned):
		respondWithError(w, http.StatusConflict, "Repository is already pinned")
	case errors.Is(err, custom_errors.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, custom_errors.ErrAuthFailure):
		respondWithError(w, http.StatusUnauthorized, "GitHub rejected the access token. Please re-authenticate.")
	case errors.Is(err, custom_errors.ErrRemote):
		logger.Warn("GitHub request failed", "error", err)
		respondWithError(w, http.StatusBadGateway, fallback)
	default:
		logger.Error(fallback, "error", err)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
