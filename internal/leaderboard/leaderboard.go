package leaderboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	maxScore = 1000
	minScore = 100
)

// Score converts a passing submission's code length into golf points:
// shorter code scores higher, floored so every solve is worth something.
func Score(codeLength int) int64 {
	score := int64(maxScore - codeLength)
	if score < minScore {
		return minScore
	}
	return score
}

type Entry struct {
	Rank   int64  `json:"rank"`
	UserID string `json:"user_id"`
	Score  int64  `json:"score"`
}

// Board keeps one sorted set per problem with each player's best golf
// score.
type Board struct {
	client *redis.Client
}

func NewBoard(client *redis.Client) *Board {
	return &Board{client: client}
}

func problemKey(problemID uuid.UUID) string {
	return fmt.Sprintf("leaderboard:problem:%s", problemID)
}

// RecordScore writes the player's score for a problem, keeping the existing
// entry when it is already better (ZADD GT).
func (b *Board) RecordScore(ctx context.Context, problemID uuid.UUID, userID string, codeLength int) error {
	err := b.client.ZAddArgs(ctx, problemKey(problemID), redis.ZAddArgs{
		GT: true,
		Members: []redis.Z{{
			Score:  float64(Score(codeLength)),
			Member: userID,
		}},
	}).Err()

	if err != nil {
		return fmt.Errorf("failed to record leaderboard score: %w", err)
	}

	return nil
}

// Top returns the problem's best players, highest score first.
func (b *Board) Top(ctx context.Context, problemID uuid.UUID, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	scores, err := b.client.ZRevRangeWithScores(ctx, problemKey(problemID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(scores))
	for i, z := range scores {
		userID, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Rank:   int64(i + 1),
			UserID: userID,
			Score:  int64(z.Score),
		})
	}

	return entries, nil
}
