package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"codeclash/internal/common"
	"codeclash/internal/models"

	"github.com/google/uuid"
)

// MatchCreator hands a fresh pair of players to the match lifecycle.
type MatchCreator interface {
	CreateVersusMatch(ctx context.Context, player1ID, player2ID string, difficulty models.Difficulty) (*models.Match, error)
}

type PairingEngine struct {
	queueRepo QueueStore
	matches   MatchCreator
}

func NewPairingEngine(queueRepo QueueStore, matches MatchCreator) *PairingEngine {
	return &PairingEngine{
		queueRepo: queueRepo,
		matches:   matches,
	}
}

// PairWaitingPlayers runs one pairing sweep: the waiting entries, oldest
// first, are consumed in consecutive pairs of equal difficulty and turned
// into 1v1 matches. An odd leftover stays WAITING for the next sweep.
//
// Each entry is claimed with a WAITING -> MATCHED compare-and-set before the
// match exists, so two overlapping sweeps can never build two matches from
// the same entries. A claim that loses its partner is rolled back.
func (pe *PairingEngine) PairWaitingPlayers(ctx context.Context, difficulty *models.Difficulty) ([]uuid.UUID, error) {
	waiting, err := pe.queueRepo.ListWaiting(ctx, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting entries: %w", err)
	}

	sort.SliceStable(waiting, func(i, j int) bool {
		return waiting[i].JoinedAt.Before(waiting[j].JoinedAt)
	})

	var created []uuid.UUID

	for i := 0; i+1 < len(waiting); i += 2 {
		entry1 := waiting[i]
		entry2 := waiting[i+1]

		// The queue is usually pre-filtered to one bucket; the guard
		// protects the unfiltered sweep.
		if entry1.Difficulty != entry2.Difficulty {
			continue
		}

		match, err := pe.pairEntries(ctx, entry1, entry2)
		if err != nil {
			log.Printf("Failed to pair entries %s and %s: %v", entry1.ID, entry2.ID, err)
			continue
		}
		if match == nil {
			continue
		}

		created = append(created, match.ID)
		log.Printf("Paired %s vs %s into match %s (%s)", entry1.UserID, entry2.UserID, match.ID, match.Difficulty)
	}

	return created, nil
}

func (pe *PairingEngine) pairEntries(ctx context.Context, entry1, entry2 models.QueueEntry) (*models.Match, error) {
	ok, err := pe.queueRepo.MarkMatched(ctx, entry1.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim entry %s: %w", entry1.ID, err)
	}
	if !ok {
		// Already cancelled or claimed by a concurrent sweep.
		return nil, nil
	}

	ok, err = pe.queueRepo.MarkMatched(ctx, entry2.ID)
	if err == nil && !ok {
		err = errors.New("entry no longer waiting")
	}
	if err != nil {
		if _, rbErr := pe.queueRepo.MarkWaiting(ctx, entry1.ID); rbErr != nil {
			log.Printf("Failed to roll back entry %s to waiting: %v", entry1.ID, rbErr)
		}
		return nil, fmt.Errorf("failed to claim entry %s: %w", entry2.ID, err)
	}

	match, err := pe.matches.CreateVersusMatch(ctx, entry1.UserID, entry2.UserID, entry1.Difficulty)
	if err != nil {
		// An empty problem bank keeps both players queued rather than
		// consuming their entries with nothing to play.
		if _, rbErr := pe.queueRepo.MarkWaiting(ctx, entry1.ID); rbErr != nil {
			log.Printf("Failed to roll back entry %s to waiting: %v", entry1.ID, rbErr)
		}
		if _, rbErr := pe.queueRepo.MarkWaiting(ctx, entry2.ID); rbErr != nil {
			log.Printf("Failed to roll back entry %s to waiting: %v", entry2.ID, rbErr)
		}
		if errors.Is(err, common.ErrNoProblemsAvailable) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	return match, nil
}
