package database

import (
	"context"
	"fmt"
	"time"

	"codeclash/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchRepository struct {
	db *GormDB
}

func NewMatchRepository(db *GormDB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) CreateMatch(ctx context.Context, match *models.Match) error {
	return r.db.WithContext(ctx).Create(match).Error
}

func (r *MatchRepository) GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).
		Preload("Problem").
		Preload("Problem.Tests", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_order ASC")
		}).
		First(&match, "id = ?", id).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &match, nil
}

func (r *MatchRepository) GetActiveMatchByUser(ctx context.Context, userID string) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).
		Preload("Problem").
		Where("status = ? AND (player1_id = ? OR player2_id = ?)", models.MatchStatusActive, userID, userID).
		First(&match).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &match, nil
}

func (r *MatchRepository) ListActiveEndingBefore(ctx context.Context, t time.Time) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("status = ? AND ends_at <= ?", models.MatchStatusActive, t).
		Find(&matches).Error

	if err != nil {
		return nil, err
	}

	return matches, nil
}

// SetPlayerSubmitted flips one seat's submitted flag while the match is
// still ACTIVE. Terminal matches are untouched and report false.
func (r *MatchRepository) SetPlayerSubmitted(ctx context.Context, id uuid.UUID, player int) (bool, error) {
	var column string
	switch player {
	case 1:
		column = "player1_submitted"
	case 2:
		column = "player2_submitted"
	default:
		return false, fmt.Errorf("invalid player seat: %d", player)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ? AND status = ?", id, models.MatchStatusActive).
		Update(column, true)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// CompleteMatch is the exclusive ACTIVE -> COMPLETED transition; the first
// caller to win the status guard also writes the winner, every later caller
// is a no-op.
func (r *MatchRepository) CompleteMatch(ctx context.Context, id uuid.UUID, winnerID *string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ? AND status = ?", id, models.MatchStatusActive).
		Updates(map[string]interface{}{
			"status":    models.MatchStatusCompleted,
			"winner_id": winnerID,
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *MatchRepository) AbandonMatch(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ? AND status = ?", id, models.MatchStatusActive).
		Update("status", models.MatchStatusAbandoned)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
