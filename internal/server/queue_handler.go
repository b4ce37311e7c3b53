package server

import (
	"encoding/json"
	"net/http"

	"codeclash/internal/common"
	"codeclash/internal/matchmaking"
	"codeclash/pkg/types"

	"github.com/go-chi/chi/v5"
)

type QueueHandler struct {
	queueManager *matchmaking.QueueManager
}

func NewQueueHandler(qm *matchmaking.QueueManager) *QueueHandler {
	return &QueueHandler{queueManager: qm}
}

func (h *QueueHandler) RegisterRoutes(r chi.Router) {
	r.Post("/join", h.joinQueue)
	r.Post("/cancel", h.cancelQueue)
	r.Get("/position", h.queuePosition)
	r.Get("/status", h.matchStatus)
}

func (h *QueueHandler) joinQueue(w http.ResponseWriter, r *http.Request) {
	var req types.JoinQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.queueManager.JoinQueue(r.Context(), req.UserID, req.Difficulty)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusCreated, entry)
}

func (h *QueueHandler) cancelQueue(w http.ResponseWriter, r *http.Request) {
	var req types.CancelQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := h.queueManager.CancelQueue(r.Context(), req.UserID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *QueueHandler) queuePosition(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	position, err := h.queueManager.GetQueuePosition(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if position == nil {
		common.RespondWithError(w, http.StatusNotFound, "user is not queued")
		return
	}

	common.RespondWithJSON(w, http.StatusOK, position)
}

func (h *QueueHandler) matchStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	matchID, err := h.queueManager.CheckMatchStatus(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusOK, types.MatchStatusResponse{
		Matched: matchID != nil,
		MatchID: matchID,
	})
}
