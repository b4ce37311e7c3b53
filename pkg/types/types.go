package types

import (
	"github.com/google/uuid"

	"codeclash/internal/models"
)

// JoinQueueRequest enqueues a player for matchmaking.
type JoinQueueRequest struct {
	UserID     string            `json:"user_id"`
	Difficulty models.Difficulty `json:"difficulty"`
}

// CancelQueueRequest removes a player's waiting entry.
type CancelQueueRequest struct {
	UserID string `json:"user_id"`
}

// MatchStatusResponse answers the waiting-screen poll; MatchID is set once
// the player has been paired.
type MatchStatusResponse struct {
	Matched bool       `json:"matched"`
	MatchID *uuid.UUID `json:"match_id,omitempty"`
}

// CreateSoloMatchRequest starts a single-player round.
type CreateSoloMatchRequest struct {
	UserID     string            `json:"user_id"`
	Difficulty models.Difficulty `json:"difficulty"`
}

// AbandonMatchRequest forfeits an active match.
type AbandonMatchRequest struct {
	UserID string `json:"user_id"`
}

// SubmitCodeRequest sends a solution to the judge.
type SubmitCodeRequest struct {
	UserID   string `json:"user_id"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

// RemainingTimeResponse is seconds left on the match clock.
type RemainingTimeResponse struct {
	RemainingSeconds int64 `json:"remaining_seconds"`
}
