package model

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TeamID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	Status      string     `gorm:"not null;default:'open';index;check:status IN ('open', 'in_progress', 'completed')"`
	Deadline    *time.Time `gorm:"type:timestamptz"`
	CreatorID   *uuid.UUID `gorm:"type:uuid;index"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time

	Team       Team        `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Creator    *User       `gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL"`
	Assignee   *User       `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL"`
	Comments   []Comment   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Evaluation *Evaluation `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// EffectiveStart is the timestamp a task sorts by in a merged
// calendar feed: the deadline when set, otherwise the creation time.
func (t *Task) EffectiveStart() time.Time {
	if t.Deadline != nil {
		return t.Deadline.UTC()
	}
	return t.CreatedAt.UTC()
}
