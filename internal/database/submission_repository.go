package database

import (
	"context"

	"codeclash/internal/models"

	"github.com/google/uuid"
)

type SubmissionRepository struct {
	db *GormDB
}

func NewSubmissionRepository(db *GormDB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *SubmissionRepository) GetSubmissionsByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("submitted_at ASC").
		Find(&submissions).Error

	if err != nil {
		return nil, err
	}

	return submissions, nil
}

// GetPassedByMatch returns the match's passing submissions ordered by the
// winner rule: shortest code first, earliest submission breaking ties.
func (r *SubmissionRepository) GetPassedByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("match_id = ? AND passed = ?", matchID, true).
		Order("code_length ASC, submitted_at ASC").
		Find(&submissions).Error

	if err != nil {
		return nil, err
	}

	return submissions, nil
}
