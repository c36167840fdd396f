package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles. The role is fixed at registration; there is no
// escalation endpoint.
const (
	RoleUser    = "user"    // team member with the narrowest access
	RoleManager = "manager" // manages resources of their own team
	RoleAdmin   = "admin"   // full access
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Name           string    `gorm:"not null"`
	Role           string    `gorm:"not null;default:'user';check:role IN ('user', 'manager', 'admin')"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`

	Teams []Team `gorm:"many2many:user_teams"`
}
