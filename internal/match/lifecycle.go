package match

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/models"

	"github.com/google/uuid"
)

// MatchStore is the match persistence the lifecycle manager drives. The
// transition methods (SetPlayerSubmitted, CompleteMatch, AbandonMatch) are
// compare-and-set against the ACTIVE status: whoever loses the race gets
// false back and must treat the transition as already done.
type MatchStore interface {
	CreateMatch(ctx context.Context, match *models.Match) error
	GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
	GetActiveMatchByUser(ctx context.Context, userID string) (*models.Match, error)
	ListActiveEndingBefore(ctx context.Context, t time.Time) ([]models.Match, error)
	SetPlayerSubmitted(ctx context.Context, id uuid.UUID, player int) (bool, error)
	CompleteMatch(ctx context.Context, id uuid.UUID, winnerID *string) (bool, error)
	AbandonMatch(ctx context.Context, id uuid.UUID) (bool, error)
}

type SubmissionStore interface {
	GetSubmissionsByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Submission, error)
	GetPassedByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Submission, error)
}

// ProblemStore is the problem-bank collaborator surface.
type ProblemStore interface {
	ListByDifficulty(ctx context.Context, difficulty models.Difficulty) ([]models.Problem, error)
	ListAll(ctx context.Context) ([]models.Problem, error)
}

// Notifier receives lifecycle events; delivery is best-effort.
type Notifier interface {
	MatchCreated(ctx context.Context, match *models.Match)
	MatchCompleted(ctx context.Context, match *models.Match)
}

type Service struct {
	matchRepo      MatchStore
	submissionRepo SubmissionStore
	problemRepo    ProblemStore
	notifier       Notifier
	matchDuration  time.Duration
}

func NewService(
	matchRepo MatchStore,
	submissionRepo SubmissionStore,
	problemRepo ProblemStore,
	notifier Notifier,
	matchDuration time.Duration,
) *Service {
	return &Service{
		matchRepo:      matchRepo,
		submissionRepo: submissionRepo,
		problemRepo:    problemRepo,
		notifier:       notifier,
		matchDuration:  matchDuration,
	}
}

// CreateSoloMatch starts a single-player round against a random problem of
// the requested difficulty.
func (s *Service) CreateSoloMatch(ctx context.Context, userID string, difficulty models.Difficulty) (*models.Match, error) {
	if userID == "" {
		return nil, fmt.Errorf("empty user id: %w", common.ErrBadRequest)
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("invalid difficulty %q: %w", difficulty, common.ErrBadRequest)
	}

	return s.createMatch(ctx, userID, nil, difficulty)
}

// CreateVersusMatch starts a head-to-head round; invoked by the pairing
// engine once both queue entries are claimed.
func (s *Service) CreateVersusMatch(ctx context.Context, player1ID, player2ID string, difficulty models.Difficulty) (*models.Match, error) {
	return s.createMatch(ctx, player1ID, &player2ID, difficulty)
}

func (s *Service) createMatch(ctx context.Context, player1ID string, player2ID *string, difficulty models.Difficulty) (*models.Match, error) {
	problem, err := s.pickRandomProblem(ctx, difficulty)
	if err != nil {
		return nil, err
	}

	mode := models.MatchModeSolo
	if player2ID != nil {
		mode = models.MatchModeOneVOne
	}

	now := time.Now()
	match := &models.Match{
		ID:         uuid.New(),
		ProblemID:  problem.ID,
		Mode:       mode,
		Status:     models.MatchStatusActive,
		Difficulty: problem.Difficulty,
		Player1ID:  player1ID,
		Player2ID:  player2ID,
		StartedAt:  now,
		EndsAt:     now.Add(s.matchDuration),
	}

	if err := s.matchRepo.CreateMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	match.Problem = *problem
	s.notifier.MatchCreated(ctx, match)

	log.Printf("Created %s match %s on problem %q (%s)", mode, match.ID, problem.Title, problem.Difficulty)
	return match, nil
}

// pickRandomProblem draws uniformly from the difficulty bucket, falling back
// to the whole bank when the bucket is empty.
func (s *Service) pickRandomProblem(ctx context.Context, difficulty models.Difficulty) (*models.Problem, error) {
	problems, err := s.problemRepo.ListByDifficulty(ctx, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}

	if len(problems) == 0 {
		problems, err = s.problemRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list problems: %w", err)
		}
	}

	if len(problems) == 0 {
		return nil, common.ErrNoProblemsAvailable
	}

	problem := problems[rand.Intn(len(problems))]
	return &problem, nil
}

func (s *Service) GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	return s.matchRepo.GetMatch(ctx, id)
}

// GetActiveMatch returns the user's in-progress match, if any; the resume
// path after a reconnect.
func (s *Service) GetActiveMatch(ctx context.Context, userID string) (*models.Match, error) {
	return s.matchRepo.GetActiveMatchByUser(ctx, userID)
}

// RecordSubmissionResult marks the player's seat as submitted when the
// verdict passed, then completes the match once every seat has submitted.
// Failing verdicts never change match state. The returned match reflects
// the state after the update.
func (s *Service) RecordSubmissionResult(ctx context.Context, matchID uuid.UUID, userID string, passed bool) (*models.Match, error) {
	match, err := s.matchRepo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("match %s: %w", matchID, common.ErrNotFound)
	}

	if !passed {
		return match, nil
	}

	player := 0
	switch {
	case match.Player1ID == userID:
		player = 1
	case match.Player2ID != nil && *match.Player2ID == userID:
		player = 2
	default:
		return nil, fmt.Errorf("user %s is not a player of match %s: %w", userID, matchID, common.ErrForbidden)
	}

	ok, err := s.matchRepo.SetPlayerSubmitted(ctx, matchID, player)
	if err != nil {
		return nil, fmt.Errorf("failed to record submission flag: %w", err)
	}
	if !ok {
		// Match already finalized by the sweep or the opponent's
		// submission; nothing left to update.
		return match, nil
	}

	match, err = s.matchRepo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("match %s: %w", matchID, common.ErrNotFound)
	}

	if match.Status == models.MatchStatusActive && match.AllSubmitted() {
		return s.finalize(ctx, match)
	}

	return match, nil
}

// finalize completes an active match, picking the winner from its passing
// submissions. Losing the ACTIVE -> COMPLETED race is a no-op; the reloaded
// match carries whatever the winner wrote.
func (s *Service) finalize(ctx context.Context, match *models.Match) (*models.Match, error) {
	winnerID, err := s.pickWinner(ctx, match.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to pick winner: %w", err)
	}

	won, err := s.matchRepo.CompleteMatch(ctx, match.ID, winnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete match: %w", err)
	}

	updated, err := s.matchRepo.GetMatch(ctx, match.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload match: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("match %s: %w", match.ID, common.ErrNotFound)
	}

	if won {
		s.notifier.MatchCompleted(ctx, updated)
		if winnerID != nil {
			log.Printf("Match %s completed, winner %s", match.ID, *winnerID)
		} else {
			log.Printf("Match %s completed with no winner", match.ID)
		}
	}

	return updated, nil
}

// pickWinner scans every passing submission of the match: shortest code
// wins, ties go to the earliest submission. Nil when nothing passed.
func (s *Service) pickWinner(ctx context.Context, matchID uuid.UUID) (*string, error) {
	passed, err := s.submissionRepo.GetPassedByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if len(passed) == 0 {
		return nil, nil
	}

	winner := passed[0].UserID
	return &winner, nil
}

// AbandonMatch takes an active match to ABANDONED without a winner,
// whichever player asked. On a terminal match it is a no-op so client
// retries stay safe.
func (s *Service) AbandonMatch(ctx context.Context, matchID uuid.UUID, userID string) (*models.Match, error) {
	match, err := s.matchRepo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("match %s: %w", matchID, common.ErrNotFound)
	}

	if !match.HasPlayer(userID) {
		return nil, fmt.Errorf("user %s is not a player of match %s: %w", userID, matchID, common.ErrForbidden)
	}

	ok, err := s.matchRepo.AbandonMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to abandon match: %w", err)
	}
	if !ok {
		return match, nil
	}

	match, err = s.matchRepo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload match: %w", err)
	}

	log.Printf("Match %s abandoned by %s", matchID, userID)
	return match, nil
}

// SweepExpiredMatches completes every active match whose deadline passed,
// with the same winner rule as the submission path. A match that expires
// with no passing submissions completes without a winner. Errors on one
// match never abort the rest of the sweep.
func (s *Service) SweepExpiredMatches(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.matchRepo.ListActiveEndingBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired matches: %w", err)
	}

	completed := 0
	for i := range expired {
		match := expired[i]
		if _, err := s.finalize(ctx, &match); err != nil {
			log.Printf("Failed to expire match %s: %v", match.ID, err)
			continue
		}
		completed++
	}

	if completed > 0 {
		log.Printf("Expiry sweep completed %d match(es)", completed)
	}

	return completed, nil
}

// GetRemainingTime returns the seconds left on the match clock, zero once
// the deadline passed or the match ended.
func (s *Service) GetRemainingTime(ctx context.Context, matchID uuid.UUID) (int64, error) {
	match, err := s.matchRepo.GetMatch(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return 0, fmt.Errorf("match %s: %w", matchID, common.ErrNotFound)
	}

	if match.Terminal() {
		return 0, nil
	}

	return match.RemainingSeconds(time.Now()), nil
}

func (s *Service) GetMatchSubmissions(ctx context.Context, matchID uuid.UUID) ([]models.Submission, error) {
	match, err := s.matchRepo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("match %s: %w", matchID, common.ErrNotFound)
	}

	return s.submissionRepo.GetSubmissionsByMatch(ctx, matchID)
}
