package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/models"

	"github.com/google/uuid"
)

// Judger is the external judge contract: code plus tests in, verdict out.
type Judger interface {
	Judge(ctx context.Context, code, language string, tests []models.TestCase) (*Verdict, error)
}

// MatchUpdater is the slice of the match lifecycle the gateway drives.
type MatchUpdater interface {
	GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
	RecordSubmissionResult(ctx context.Context, matchID uuid.UUID, userID string, passed bool) (*models.Match, error)
}

type SubmissionWriter interface {
	CreateSubmission(ctx context.Context, submission *models.Submission) error
}

// ScoreKeeper records passing submissions on the golf leaderboard.
type ScoreKeeper interface {
	RecordScore(ctx context.Context, problemID uuid.UUID, userID string, codeLength int) error
}

// SubmitResult is what the caller gets back: the persisted submission, the
// verdict, and the final match summary when this submission completed it.
type SubmitResult struct {
	Submission     *models.Submission `json:"submission"`
	Verdict        *Verdict           `json:"verdict"`
	MatchCompleted bool               `json:"match_completed"`
	Match          *models.Match      `json:"match,omitempty"`
}

type Gateway struct {
	judge       Judger
	matches     MatchUpdater
	submissions SubmissionWriter
	scores      ScoreKeeper
}

func NewGateway(judge Judger, matches MatchUpdater, submissions SubmissionWriter, scores ScoreKeeper) *Gateway {
	return &Gateway{
		judge:       judge,
		matches:     matches,
		submissions: submissions,
		scores:      scores,
	}
}

// Submit judges the player's code against the match problem's tests and
// persists the outcome. A judge failure is downgraded to a failing
// submission carrying the error text, so the opponent and the match clock
// are never blocked by one side's judge trouble; the judge is tried exactly
// once per submission.
func (g *Gateway) Submit(ctx context.Context, matchID uuid.UUID, userID, code, language string) (*SubmitResult, error) {
	if code == "" {
		return nil, fmt.Errorf("empty code: %w", common.ErrBadRequest)
	}

	match, err := g.matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("match %s: %w", matchID, common.ErrNotFound)
	}
	if !match.HasPlayer(userID) {
		return nil, fmt.Errorf("user %s is not a player of match %s: %w", userID, matchID, common.ErrForbidden)
	}
	if match.Terminal() {
		return nil, fmt.Errorf("match %s is %s: %w", matchID, match.Status, common.ErrInvalidMatchState)
	}
	if len(match.Problem.Tests) == 0 {
		return nil, fmt.Errorf("problem %s has no test cases: %w", match.ProblemID, common.ErrNotFound)
	}

	verdict, err := g.judge.Judge(ctx, code, language, match.Problem.Tests)
	if err != nil {
		if errors.Is(err, common.ErrBadRequest) {
			return nil, err
		}
		// Judge down or timed out: record a failing submission instead
		// of surfacing a fatal error.
		log.Printf("Judge call failed for match %s, user %s: %v", matchID, userID, err)
		verdict = &Verdict{
			Passed: false,
			Errors: fmt.Sprintf("judge unavailable: %v", err),
		}
	}

	output, err := json.Marshal(verdict.TestResults)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal test results: %w", err)
	}

	submission := &models.Submission{
		ID:            uuid.New(),
		MatchID:       matchID,
		UserID:        userID,
		Code:          code,
		Language:      language,
		CodeLength:    int32(len(code)),
		Passed:        verdict.Passed,
		Output:        string(output),
		Errors:        verdict.Errors,
		ExecutionTime: verdict.ExecutionTime,
		SubmittedAt:   time.Now(),
	}

	if err := g.submissions.CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to persist submission: %w", err)
	}

	result := &SubmitResult{
		Submission: submission,
		Verdict:    verdict,
	}

	if !verdict.Passed {
		return result, nil
	}

	updated, err := g.matches.RecordSubmissionResult(ctx, matchID, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to record submission result: %w", err)
	}

	if err := g.scores.RecordScore(ctx, match.ProblemID, userID, len(code)); err != nil {
		log.Printf("Failed to update leaderboard for problem %s: %v", match.ProblemID, err)
	}

	result.Match = updated
	result.MatchCompleted = updated.Status == models.MatchStatusCompleted

	return result, nil
}
