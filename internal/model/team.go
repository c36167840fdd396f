package model

import (
	"time"

	"github.com/google/uuid"
)

// Team groups users. Membership is many-to-many at the schema level;
// the "one team per user" rule is enforced in the service layer.
type Team struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name       string    `gorm:"uniqueIndex;not null"`
	InviteCode string    `gorm:"uniqueIndex;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Members  []User    `gorm:"many2many:user_teams"`
	Tasks    []Task    `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Meetings []Meeting `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}
