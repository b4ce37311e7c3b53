package server

import (
	"encoding/json"
	"net/http"

	"codeclash/internal/common"
	"codeclash/internal/judge"
	"codeclash/internal/match"
	"codeclash/pkg/types"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SubmissionHandler struct {
	gateway      *judge.Gateway
	matchService *match.Service
}

func NewSubmissionHandler(gw *judge.Gateway, ms *match.Service) *SubmissionHandler {
	return &SubmissionHandler{gateway: gw, matchService: ms}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{matchID}/submissions", h.submitCode)
	r.Get("/{matchID}/submissions", h.listSubmissions)
}

// submitCode runs the player's code through the judge synchronously; the
// response carries the verdict and, when this submission ended the match,
// the final match state.
func (h *SubmissionHandler) submitCode(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	var req types.SubmitCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	result, err := h.gateway.Submit(r.Context(), matchID, req.UserID, req.Code, req.Language)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *SubmissionHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	submissions, err := h.matchService.GetMatchSubmissions(r.Context(), matchID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusOK, submissions)
}
