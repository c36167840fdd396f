package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"teamwork/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Create adds a new evaluation to the database
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *model.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

// FindByTaskID retrieves the evaluation of a task, or nil if the task
// has not been rated yet.
func (r *EvaluationRepository) FindByTaskID(ctx context.Context, taskID uuid.UUID) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).First(&evaluation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &evaluation, err
}

// ListForAssignee retrieves evaluations of tasks assigned to the user
func (r *EvaluationRepository) ListForAssignee(ctx context.Context, userID uuid.UUID) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = evaluations.task_id").
		Where("tasks.assignee_id = ?", userID).
		Find(&evaluations).Error
	if err != nil {
		return nil, err
	}
	return evaluations, nil
}

// AverageForUser computes the average rating over the user's
// evaluated tasks in the given range of evaluation creation times.
// Returns nil when the user has no evaluations in the range.
func (r *EvaluationRepository) AverageForUser(ctx context.Context, userID uuid.UUID, start, end time.Time) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).Model(&model.Evaluation{}).
		Select("AVG(evaluations.rating)").
		Joins("JOIN tasks ON tasks.id = evaluations.task_id").
		Where("tasks.assignee_id = ?", userID).
		Where("evaluations.created_at >= ? AND evaluations.created_at <= ?", start, end).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
