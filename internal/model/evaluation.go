package model

import (
	"time"

	"github.com/google/uuid"
)

// Evaluation rates a completed task. One per task, enforced by the
// unique index on TaskID.
type Evaluation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Rating    int       `gorm:"not null;check:rating_range,rating BETWEEN 1 AND 5"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Task Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}
