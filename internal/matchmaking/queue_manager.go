package matchmaking

import (
	"context"
	"fmt"
	"log"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/models"

	"github.com/google/uuid"
)

// QueueStore is the slice of queue persistence the matchmaker needs. The
// Mark* methods are compare-and-set transitions: they return false when the
// entry already left the expected status.
type QueueStore interface {
	CreateEntry(ctx context.Context, entry *models.QueueEntry) error
	FindWaitingByUser(ctx context.Context, userID string) (*models.QueueEntry, error)
	ListWaiting(ctx context.Context, difficulty *models.Difficulty) ([]models.QueueEntry, error)
	MarkMatched(ctx context.Context, id uuid.UUID) (bool, error)
	MarkWaiting(ctx context.Context, id uuid.UUID) (bool, error)
	MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error)
}

type ActiveMatchFinder interface {
	GetActiveMatchByUser(ctx context.Context, userID string) (*models.Match, error)
}

type QueuePosition struct {
	Position   int               `json:"position"`
	Total      int               `json:"total"`
	Difficulty models.Difficulty `json:"difficulty"`
}

type QueueManager struct {
	queueRepo QueueStore
	matchRepo ActiveMatchFinder
}

func NewQueueManager(queueRepo QueueStore, matchRepo ActiveMatchFinder) *QueueManager {
	return &QueueManager{
		queueRepo: queueRepo,
		matchRepo: matchRepo,
	}
}

// JoinQueue enqueues a player for their difficulty bucket. A player who is
// already waiting gets their existing entry back, whatever difficulty the
// repeat request carries; switching buckets requires cancelling first.
func (qm *QueueManager) JoinQueue(ctx context.Context, userID string, difficulty models.Difficulty) (*models.QueueEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("empty user id: %w", common.ErrBadRequest)
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("invalid difficulty %q: %w", difficulty, common.ErrBadRequest)
	}

	existing, err := qm.queueRepo.FindWaitingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up queue entry: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	entry := &models.QueueEntry{
		ID:         uuid.New(),
		UserID:     userID,
		Difficulty: difficulty,
		Status:     models.QueueStatusWaiting,
		JoinedAt:   time.Now(),
	}

	if err := qm.queueRepo.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create queue entry: %w", err)
	}

	log.Printf("User %s joined %s queue (entry %s)", userID, difficulty, entry.ID)
	return entry, nil
}

// CancelQueue takes the player's waiting entry to CANCELLED. Doing nothing
// when no waiting entry exists keeps client retries safe; losing the race
// against a pairing sweep is equally benign.
func (qm *QueueManager) CancelQueue(ctx context.Context, userID string) error {
	entry, err := qm.queueRepo.FindWaitingByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up queue entry: %w", err)
	}
	if entry == nil {
		return nil
	}

	ok, err := qm.queueRepo.MarkCancelled(ctx, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to cancel queue entry: %w", err)
	}
	if ok {
		log.Printf("User %s left the %s queue", userID, entry.Difficulty)
	}

	return nil
}

// GetQueuePosition reports the player's 1-based rank among waiting entries
// of the same difficulty, ordered by join time. Nil means not queued.
func (qm *QueueManager) GetQueuePosition(ctx context.Context, userID string) (*QueuePosition, error) {
	entry, err := qm.queueRepo.FindWaitingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up queue entry: %w", err)
	}
	if entry == nil {
		return nil, nil
	}

	waiting, err := qm.queueRepo.ListWaiting(ctx, &entry.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting entries: %w", err)
	}

	position := 0
	for i, w := range waiting {
		if w.ID == entry.ID {
			position = i + 1
			break
		}
	}

	return &QueuePosition{
		Position:   position,
		Total:      len(waiting),
		Difficulty: entry.Difficulty,
	}, nil
}

// CheckMatchStatus is the poll the waiting screen uses: once a player's
// entry went MATCHED, it returns the id of their active match.
func (qm *QueueManager) CheckMatchStatus(ctx context.Context, userID string) (*uuid.UUID, error) {
	match, err := qm.matchRepo.GetActiveMatchByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active match: %w", err)
	}
	if match == nil {
		return nil, nil
	}

	return &match.ID, nil
}
