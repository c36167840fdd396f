package model

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is a scheduled event for a subset of a team. The organizer
// is always kept in Participants; the schema additionally enforces
// end_time > start_time.
type Meeting struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TeamID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	StartTime   time.Time  `gorm:"type:timestamptz;not null;index"`
	EndTime     time.Time  `gorm:"type:timestamptz;not null;index;check:meeting_time_range,end_time > start_time"`
	OrganizerID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`

	Team         Team   `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Organizer    *User  `gorm:"foreignKey:OrganizerID;constraint:OnDelete:SET NULL"`
	Participants []User `gorm:"many2many:meeting_participants"`
}

// EffectiveStart is the timestamp a meeting sorts by in a merged
// calendar feed.
func (m *Meeting) EffectiveStart() time.Time {
	return m.StartTime.UTC()
}

// ParticipantIDs collects the ids of the loaded participants.
func (m *Meeting) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(m.Participants))
	for i, p := range m.Participants {
		ids[i] = p.ID
	}
	return ids
}
