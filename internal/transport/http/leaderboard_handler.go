package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"times-table-adventure/internal/app"
	"times-table-adventure/internal/domain"
)

// LeaderboardHandler serves GET /v1/leaderboard?playerId=... as a JSON array.
type LeaderboardHandler struct {
	service *app.Service
	logger  zerolog.Logger
}

func NewLeaderboardHandler(service *app.Service, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{service: service, logger: logger.With().Str("component", "leaderboard_http").Logger()}
}

func (h *LeaderboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := h.service.Leaderboard(r.Context(), r.URL.Query().Get("playerId"))
	if errors.Is(err, domain.ErrInvalidPlayer) {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("load leaderboard failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		h.logger.Debug().Err(err).Msg("write leaderboard failed")
	}
}
