package database

import (
	"context"

	"codeclash/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProblemRepository struct {
	db *GormDB
}

func NewProblemRepository(db *GormDB) *ProblemRepository {
	return &ProblemRepository{db: db}
}

func (r *ProblemRepository) CreateProblem(ctx context.Context, problem *models.Problem) error {
	return r.db.WithContext(ctx).Create(problem).Error
}

func (r *ProblemRepository) GetProblemByID(ctx context.Context, id uuid.UUID) (*models.Problem, error) {
	var problem models.Problem
	err := r.db.WithContext(ctx).
		Preload("Tests", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_order ASC")
		}).
		First(&problem, "id = ?", id).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &problem, nil
}

func (r *ProblemRepository) GetProblemByTitle(ctx context.Context, title string) (*models.Problem, error) {
	var problem models.Problem
	err := r.db.WithContext(ctx).First(&problem, "title = ?", title).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &problem, nil
}

func (r *ProblemRepository) ListByDifficulty(ctx context.Context, difficulty models.Difficulty) ([]models.Problem, error) {
	var problems []models.Problem
	err := r.db.WithContext(ctx).
		Where("difficulty = ?", difficulty).
		Find(&problems).Error

	if err != nil {
		return nil, err
	}

	return problems, nil
}

func (r *ProblemRepository) ListAll(ctx context.Context) ([]models.Problem, error) {
	var problems []models.Problem
	err := r.db.WithContext(ctx).Find(&problems).Error
	if err != nil {
		return nil, err
	}

	return problems, nil
}

func (r *ProblemRepository) CountProblems(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Problem{}).Count(&count).Error
	return count, err
}

func (r *ProblemRepository) DeleteProblem(ctx context.Context, id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("problem_id = ?", id).Delete(&models.TestCase{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Problem{}, "id = ?", id).Error
	})
}
