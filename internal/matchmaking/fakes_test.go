package matchmaking

import (
	"context"
	"sort"
	"sync"

	"codeclash/internal/common"
	"codeclash/internal/models"

	"github.com/google/uuid"
)

// fakeQueueStore keeps queue entries in memory with the same compare-and-set
// transition rules as the database repository.
type fakeQueueStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*models.QueueEntry
}

func newFakeQueueStore() *fakeQueueStore {
	return &fakeQueueStore{entries: make(map[uuid.UUID]*models.QueueEntry)}
}

func (s *fakeQueueStore) CreateEntry(ctx context.Context, entry *models.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	s.entries[entry.ID] = &copied
	return nil
}

func (s *fakeQueueStore) FindWaitingByUser(ctx context.Context, userID string) (*models.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.UserID == userID && e.Status == models.QueueStatusWaiting {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeQueueStore) ListWaiting(ctx context.Context, difficulty *models.Difficulty) ([]models.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var waiting []models.QueueEntry
	for _, e := range s.entries {
		if e.Status != models.QueueStatusWaiting {
			continue
		}
		if difficulty != nil && e.Difficulty != *difficulty {
			continue
		}
		waiting = append(waiting, *e)
	}
	sort.Slice(waiting, func(i, j int) bool {
		return waiting[i].JoinedAt.Before(waiting[j].JoinedAt)
	})
	return waiting, nil
}

func (s *fakeQueueStore) cas(id uuid.UUID, from, to models.QueueStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	return true, nil
}

func (s *fakeQueueStore) MarkMatched(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.cas(id, models.QueueStatusWaiting, models.QueueStatusMatched)
}

func (s *fakeQueueStore) MarkWaiting(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.cas(id, models.QueueStatusMatched, models.QueueStatusWaiting)
}

func (s *fakeQueueStore) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.cas(id, models.QueueStatusWaiting, models.QueueStatusCancelled)
}

func (s *fakeQueueStore) status(id uuid.UUID) models.QueueStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[id].Status
}

type fakeMatchFinder struct {
	matches map[string]*models.Match
}

func newFakeMatchFinder() *fakeMatchFinder {
	return &fakeMatchFinder{matches: make(map[string]*models.Match)}
}

func (f *fakeMatchFinder) GetActiveMatchByUser(ctx context.Context, userID string) (*models.Match, error) {
	if m, ok := f.matches[userID]; ok {
		return m, nil
	}
	return nil, nil
}

// fakeMatchCreator records the pairs it was asked to build; when empty is
// set it behaves like an empty problem bank.
type fakeMatchCreator struct {
	empty   bool
	created []*models.Match
}

func (f *fakeMatchCreator) CreateVersusMatch(ctx context.Context, player1ID, player2ID string, difficulty models.Difficulty) (*models.Match, error) {
	if f.empty {
		return nil, common.ErrNoProblemsAvailable
	}
	p2 := player2ID
	match := &models.Match{
		ID:         uuid.New(),
		Mode:       models.MatchModeOneVOne,
		Status:     models.MatchStatusActive,
		Difficulty: difficulty,
		Player1ID:  player1ID,
		Player2ID:  &p2,
	}
	f.created = append(f.created, match)
	return match, nil
}
