package judge

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJudge struct {
	verdict *Verdict
	err     error
	calls   int
}

func (j *stubJudge) Judge(ctx context.Context, code, language string, tests []models.TestCase) (*Verdict, error) {
	j.calls++
	return j.verdict, j.err
}

type stubMatchUpdater struct {
	match       *models.Match
	afterRecord *models.Match
	recorded    []bool
}

func (m *stubMatchUpdater) GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	return m.match, nil
}

func (m *stubMatchUpdater) RecordSubmissionResult(ctx context.Context, matchID uuid.UUID, userID string, passed bool) (*models.Match, error) {
	m.recorded = append(m.recorded, passed)
	if m.afterRecord != nil {
		return m.afterRecord, nil
	}
	return m.match, nil
}

type stubSubmissionWriter struct {
	saved []*models.Submission
}

func (w *stubSubmissionWriter) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	w.saved = append(w.saved, submission)
	return nil
}

type stubScoreKeeper struct {
	err     error
	entries []int
}

func (k *stubScoreKeeper) RecordScore(ctx context.Context, problemID uuid.UUID, userID string, codeLength int) error {
	if k.err != nil {
		return k.err
	}
	k.entries = append(k.entries, codeLength)
	return nil
}

func activeMatch(userID string) *models.Match {
	return &models.Match{
		ID:         uuid.New(),
		ProblemID:  uuid.New(),
		Mode:       models.MatchModeSolo,
		Status:     models.MatchStatusActive,
		Difficulty: models.DifficultyEasy,
		Player1ID:  userID,
		StartedAt:  time.Now(),
		EndsAt:     time.Now().Add(15 * time.Minute),
		Problem: models.Problem{
			Tests: []models.TestCase{{Stdin: "1 2", ExpectedOutput: "3"}},
		},
	}
}

func TestSubmitPassingCode(t *testing.T) {
	ctx := context.Background()
	match := activeMatch("alice")
	completed := *match
	completed.Status = models.MatchStatusCompleted
	winner := "alice"
	completed.WinnerID = &winner

	updater := &stubMatchUpdater{match: match, afterRecord: &completed}
	writer := &stubSubmissionWriter{}
	scores := &stubScoreKeeper{}
	gw := NewGateway(&stubJudge{verdict: &Verdict{Passed: true}}, updater, writer, scores)

	result, err := gw.Submit(ctx, match.ID, "alice", "a+b", "python")
	require.NoError(t, err)

	require.Len(t, writer.saved, 1)
	sub := writer.saved[0]
	assert.True(t, sub.Passed)
	assert.Equal(t, int32(3), sub.CodeLength)
	assert.Equal(t, "alice", sub.UserID)

	assert.Equal(t, []bool{true}, updater.recorded)
	assert.Equal(t, []int{3}, scores.entries)
	assert.True(t, result.MatchCompleted)
	require.NotNil(t, result.Match)
	assert.Equal(t, models.MatchStatusCompleted, result.Match.Status)
}

func TestSubmitFailingCode(t *testing.T) {
	ctx := context.Background()
	match := activeMatch("alice")

	updater := &stubMatchUpdater{match: match}
	writer := &stubSubmissionWriter{}
	gw := NewGateway(&stubJudge{verdict: &Verdict{Passed: false, Errors: "Test 1: Wrong Answer"}}, updater, writer, &stubScoreKeeper{})

	result, err := gw.Submit(ctx, match.ID, "alice", "a-b", "python")
	require.NoError(t, err)

	require.Len(t, writer.saved, 1)
	assert.False(t, writer.saved[0].Passed)
	assert.Empty(t, updater.recorded, "failing verdicts must not touch match state")
	assert.False(t, result.MatchCompleted)
	assert.Nil(t, result.Match)
}

func TestSubmitJudgeFailureBecomesFailingSubmission(t *testing.T) {
	ctx := context.Background()
	match := activeMatch("alice")

	judge := &stubJudge{err: fmt.Errorf("%w: connection refused", common.ErrJudgeUnavailable)}
	updater := &stubMatchUpdater{match: match}
	writer := &stubSubmissionWriter{}
	gw := NewGateway(judge, updater, writer, &stubScoreKeeper{})

	result, err := gw.Submit(ctx, match.ID, "alice", "a+b", "python")
	require.NoError(t, err, "a judge outage must not fail the submit")

	assert.Equal(t, 1, judge.calls, "the judge is tried exactly once")
	require.Len(t, writer.saved, 1)
	assert.False(t, writer.saved[0].Passed)
	assert.Contains(t, writer.saved[0].Errors, "judge unavailable")
	assert.Empty(t, updater.recorded)
	assert.False(t, result.Verdict.Passed)
}

func TestSubmitBadLanguagePropagates(t *testing.T) {
	ctx := context.Background()
	match := activeMatch("alice")

	judge := &stubJudge{err: fmt.Errorf("unsupported language: %w", common.ErrBadRequest)}
	writer := &stubSubmissionWriter{}
	gw := NewGateway(judge, &stubMatchUpdater{match: match}, writer, &stubScoreKeeper{})

	_, err := gw.Submit(ctx, match.ID, "alice", "a+b", "befunge")
	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Empty(t, writer.saved, "bad requests must not persist a submission")
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	match := activeMatch("alice")
	gw := NewGateway(&stubJudge{verdict: &Verdict{Passed: true}}, &stubMatchUpdater{match: match}, &stubSubmissionWriter{}, &stubScoreKeeper{})

	t.Run("empty code", func(t *testing.T) {
		_, err := gw.Submit(ctx, match.ID, "alice", "", "python")
		assert.ErrorIs(t, err, common.ErrBadRequest)
	})

	t.Run("non-player", func(t *testing.T) {
		_, err := gw.Submit(ctx, match.ID, "mallory", "a+b", "python")
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("unknown match", func(t *testing.T) {
		gw := NewGateway(&stubJudge{}, &stubMatchUpdater{}, &stubSubmissionWriter{}, &stubScoreKeeper{})
		_, err := gw.Submit(ctx, uuid.New(), "alice", "a+b", "python")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("terminal match", func(t *testing.T) {
		done := activeMatch("alice")
		done.Status = models.MatchStatusCompleted
		writer := &stubSubmissionWriter{}
		gw := NewGateway(&stubJudge{}, &stubMatchUpdater{match: done}, writer, &stubScoreKeeper{})
		_, err := gw.Submit(ctx, done.ID, "alice", "a+b", "python")
		assert.ErrorIs(t, err, common.ErrInvalidMatchState)
		assert.Empty(t, writer.saved)
	})

	t.Run("problem without tests", func(t *testing.T) {
		bare := activeMatch("alice")
		bare.Problem.Tests = nil
		gw := NewGateway(&stubJudge{}, &stubMatchUpdater{match: bare}, &stubSubmissionWriter{}, &stubScoreKeeper{})
		_, err := gw.Submit(ctx, bare.ID, "alice", "a+b", "python")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestSubmitLeaderboardFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	match := activeMatch("alice")

	scores := &stubScoreKeeper{err: errors.New("redis down")}
	gw := NewGateway(&stubJudge{verdict: &Verdict{Passed: true}}, &stubMatchUpdater{match: match}, &stubSubmissionWriter{}, scores)

	_, err := gw.Submit(ctx, match.ID, "alice", "a+b", "python")
	assert.NoError(t, err, "leaderboard trouble must not fail the submit")
}
