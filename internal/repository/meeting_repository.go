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

var (
	ErrMeetingNotFound = errors.New("meeting not found")

	// ErrMeetingConflict is returned by Schedule when the requested
	// interval overlaps an existing meeting for any participant.
	ErrMeetingConflict = errors.New("meeting time conflict")
)

type MeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Schedule persists the meeting after probing for time conflicts
// among its participants. The probe and the insert run in one
// serializable transaction so two concurrent creates for an
// overlapping slot cannot both commit.
//
// The overlap test is half-open: existing.start < new.end AND
// existing.end > new.start, so back-to-back meetings with touching
// boundaries do not conflict.
func (r *MeetingRepository) Schedule(ctx context.Context, meeting *model.Meeting) error {
	ids := meeting.ParticipantIDs()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.Meeting{}).
			Joins("JOIN meeting_participants ON meeting_participants.meeting_id = meetings.id").
			Where("meeting_participants.user_id IN ?", ids).
			Where("meetings.start_time < ? AND meetings.end_time > ?", meeting.EndTime, meeting.StartTime).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrMeetingConflict
		}

		return tx.Create(meeting).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// GetByID retrieves a meeting with its participants loaded
func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Meeting, error) {
	var meeting model.Meeting
	result := r.db.WithContext(ctx).Preload("Participants").First(&meeting, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, result.Error
	}
	return &meeting, nil
}

// ListForUser retrieves meetings the user participates in, optionally
// bounded by the inclusive overlap filter end_time >= start and
// start_time <= end, sorted ascending by start time.
func (r *MeetingRepository) ListForUser(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]model.Meeting, error) {
	query := r.db.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN meeting_participants ON meeting_participants.meeting_id = meetings.id").
		Where("meeting_participants.user_id = ?", userID)

	if start != nil {
		query = query.Where("meetings.end_time >= ?", *start)
	}
	if end != nil {
		query = query.Where("meetings.start_time <= ?", *end)
	}

	var meetings []model.Meeting
	err := query.Order("meetings.start_time").Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// GetForPeriod retrieves the user's meetings overlapping a calendar
// period: start_time < end AND end_time >= start. Note the boundary
// treatment differs from the conflict probe in Schedule; both are
// load-bearing.
func (r *MeetingRepository) GetForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.Meeting, error) {
	var meetings []model.Meeting
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN meeting_participants ON meeting_participants.meeting_id = meetings.id").
		Where("meeting_participants.user_id = ?", userID).
		Where("meetings.start_time < ? AND meetings.end_time >= ?", end, start).
		Order("meetings.start_time").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// Delete removes a meeting; its participant rows follow via the
// schema-level cascade.
func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Meeting{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}
