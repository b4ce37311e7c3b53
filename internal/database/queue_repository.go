package database

import (
	"context"

	"codeclash/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QueueRepository struct {
	db *GormDB
}

func NewQueueRepository(db *GormDB) *QueueRepository {
	return &QueueRepository{db: db}
}

func (r *QueueRepository) CreateEntry(ctx context.Context, entry *models.QueueEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *QueueRepository) FindWaitingByUser(ctx context.Context, userID string) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.QueueStatusWaiting).
		First(&entry).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

func (r *QueueRepository) ListWaiting(ctx context.Context, difficulty *models.Difficulty) ([]models.QueueEntry, error) {
	var entries []models.QueueEntry
	query := r.db.WithContext(ctx).
		Where("status = ?", models.QueueStatusWaiting).
		Order("joined_at ASC")

	if difficulty != nil {
		query = query.Where("difficulty = ?", *difficulty)
	}

	err := query.Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// MarkMatched flips a WAITING entry to MATCHED. The status guard in the
// WHERE clause makes the transition exclusive: overlapping pairing sweeps
// observe RowsAffected = 0 and leave the entry alone.
func (r *QueueRepository) MarkMatched(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.casStatus(ctx, id, models.QueueStatusWaiting, models.QueueStatusMatched)
}

// MarkWaiting rolls a MATCHED entry back to WAITING. Used when the partner
// of a pair was lost to a concurrent sweep or cancellation.
func (r *QueueRepository) MarkWaiting(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.casStatus(ctx, id, models.QueueStatusMatched, models.QueueStatusWaiting)
}

func (r *QueueRepository) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.casStatus(ctx, id, models.QueueStatusWaiting, models.QueueStatusCancelled)
}

func (r *QueueRepository) casStatus(ctx context.Context, id uuid.UUID, from, to models.QueueStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.QueueEntry{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
