package server

import (
	"encoding/json"
	"net/http"

	"codeclash/internal/common"
	"codeclash/internal/match"
	"codeclash/pkg/types"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type MatchHandler struct {
	matchService *match.Service
}

func NewMatchHandler(ms *match.Service) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

func (h *MatchHandler) RegisterRoutes(r chi.Router) {
	r.Post("/solo", h.createSoloMatch)
	r.Get("/active", h.activeMatch)
	r.Get("/{matchID}", h.getMatch)
	r.Post("/{matchID}/abandon", h.abandonMatch)
	r.Get("/{matchID}/time", h.remainingTime)
}

func (h *MatchHandler) createSoloMatch(w http.ResponseWriter, r *http.Request) {
	var req types.CreateSoloMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.matchService.CreateSoloMatch(r.Context(), req.UserID, req.Difficulty)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusCreated, m)
}

func (h *MatchHandler) getMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	m, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if m == nil {
		common.RespondWithError(w, http.StatusNotFound, "match not found")
		return
	}

	common.RespondWithJSON(w, http.StatusOK, m)
}

func (h *MatchHandler) activeMatch(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	m, err := h.matchService.GetActiveMatch(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if m == nil {
		common.RespondWithError(w, http.StatusNotFound, "no active match")
		return
	}

	common.RespondWithJSON(w, http.StatusOK, m)
}

func (h *MatchHandler) abandonMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	var req types.AbandonMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	m, err := h.matchService.AbandonMatch(r.Context(), matchID, req.UserID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusOK, m)
}

func (h *MatchHandler) remainingTime(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	remaining, err := h.matchService.GetRemainingTime(r.Context(), matchID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusOK, types.RemainingTimeResponse{RemainingSeconds: remaining})
}
