package repository

import (
	"context"
	"errors"
	"time"

	"teamwork/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetWithTeamMembers retrieves a task with its team and the team's
// member list loaded, for access checks.
func (r *TaskRepository) GetWithTeamMembers(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).Preload("Team.Members").First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID; comments and the evaluation follow
// via the schema-level cascades.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ListAll retrieves every task (admin view)
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListForUserTeams retrieves tasks belonging to the teams the user is
// a member of.
func (r *TaskRepository) ListForUserTeams(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Joins("JOIN user_teams ON user_teams.team_id = tasks.team_id").
		Where("user_teams.user_id = ?", userID).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetForPeriod retrieves the user's tasks for a calendar period:
// tasks with a deadline inside [start, end), plus undated tasks that
// are not completed (those surface in every period). Undated tasks
// sort first, dated ones by deadline ascending.
func (r *TaskRepository) GetForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("creator_id = ? OR assignee_id = ?", userID, userID).
		Where(
			r.db.Where("deadline IS NOT NULL AND deadline >= ? AND deadline < ?", start, end).
				Or("deadline IS NULL AND status <> ?", model.StatusCompleted),
		).
		Order("deadline IS NULL DESC, deadline ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
