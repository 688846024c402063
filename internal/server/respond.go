package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"codestats-proxy/internal/domain"

	"github.com/rs/zerolog"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// respondError maps input errors to 400 with their message. Anything else is
// a 500 whose cause stays in the log.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrBadRequest) {
		respondJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	respondJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
