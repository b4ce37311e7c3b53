package match

import (
	"context"
	"sort"
	"sync"
	"time"

	"codeclash/internal/models"

	"github.com/google/uuid"
)

// fakeMatchStore mirrors the database repository's compare-and-set rules:
// transitions only apply while the match is still ACTIVE.
type fakeMatchStore struct {
	mu      sync.Mutex
	matches map[uuid.UUID]*models.Match
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{matches: make(map[uuid.UUID]*models.Match)}
}

func (s *fakeMatchStore) CreateMatch(ctx context.Context, match *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *match
	s.matches[match.ID] = &copied
	return nil
}

func (s *fakeMatchStore) GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (s *fakeMatchStore) GetActiveMatchByUser(ctx context.Context, userID string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.Status == models.MatchStatusActive && m.HasPlayer(userID) {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeMatchStore) ListActiveEndingBefore(ctx context.Context, t time.Time) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []models.Match
	for _, m := range s.matches {
		if m.Status == models.MatchStatusActive && m.EndsAt.Before(t) {
			expired = append(expired, *m)
		}
	}
	return expired, nil
}

func (s *fakeMatchStore) SetPlayerSubmitted(ctx context.Context, id uuid.UUID, player int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok || m.Status != models.MatchStatusActive {
		return false, nil
	}
	if player == 1 {
		m.Player1Submitted = true
	} else {
		m.Player2Submitted = true
	}
	return true, nil
}

func (s *fakeMatchStore) CompleteMatch(ctx context.Context, id uuid.UUID, winnerID *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok || m.Status != models.MatchStatusActive {
		return false, nil
	}
	m.Status = models.MatchStatusCompleted
	m.WinnerID = winnerID
	return true, nil
}

func (s *fakeMatchStore) AbandonMatch(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok || m.Status != models.MatchStatusActive {
		return false, nil
	}
	m.Status = models.MatchStatusAbandoned
	return true, nil
}

// fakeSubmissionStore orders passed submissions the way the repository does:
// shortest code first, earliest submission breaking ties.
type fakeSubmissionStore struct {
	mu          sync.Mutex
	submissions []models.Submission
}

func (s *fakeSubmissionStore) add(sub models.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, sub)
}

func (s *fakeSubmissionStore) GetSubmissionsByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Submission
	for _, sub := range s.submissions {
		if sub.MatchID == matchID {
			out = append(out, sub)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

func (s *fakeSubmissionStore) GetPassedByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Submission
	for _, sub := range s.submissions {
		if sub.MatchID == matchID && sub.Passed {
			out = append(out, sub)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CodeLength != out[j].CodeLength {
			return out[i].CodeLength < out[j].CodeLength
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

type fakeProblemStore struct {
	problems []models.Problem
}

func (s *fakeProblemStore) ListByDifficulty(ctx context.Context, difficulty models.Difficulty) ([]models.Problem, error) {
	var out []models.Problem
	for _, p := range s.problems {
		if p.Difficulty == difficulty {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProblemStore) ListAll(ctx context.Context) ([]models.Problem, error) {
	return s.problems, nil
}

type fakeNotifier struct {
	created   []uuid.UUID
	completed []uuid.UUID
}

func (n *fakeNotifier) MatchCreated(ctx context.Context, match *models.Match) {
	n.created = append(n.created, match.ID)
}

func (n *fakeNotifier) MatchCompleted(ctx context.Context, match *models.Match) {
	n.completed = append(n.completed, match.ID)
}
