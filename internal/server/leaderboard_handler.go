package server

import (
	"net/http"
	"strconv"

	"codeclash/internal/common"
	"codeclash/internal/leaderboard"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type LeaderboardHandler struct {
	board *leaderboard.Board
}

func NewLeaderboardHandler(b *leaderboard.Board) *LeaderboardHandler {
	return &LeaderboardHandler{board: b}
}

func (h *LeaderboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{problemID}/leaderboard", h.problemLeaderboard)
}

func (h *LeaderboardHandler) problemLeaderboard(w http.ResponseWriter, r *http.Request) {
	problemID, err := uuid.Parse(chi.URLParam(r, "problemID"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid problem id")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			common.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	entries, err := h.board.Top(r.Context(), problemID, limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusOK, entries)
}
