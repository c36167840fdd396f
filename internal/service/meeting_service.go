package service

import (
	"context"
	"errors"
	"time"

	"teamwork/internal/apperror"
	"teamwork/internal/model"
	"teamwork/internal/repository"

	"github.com/google/uuid"
)

// MeetingStore is the persistence surface the scheduling engine needs.
type MeetingStore interface {
	Schedule(ctx context.Context, meeting *model.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Meeting, error)
	ListForUser(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]model.Meeting, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TeamStore is the read-only team membership surface.
type TeamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Team, error)
	MembersIn(ctx context.Context, teamID uuid.UUID, userIDs []uuid.UUID) ([]model.User, error)
}

// MeetingService validates and persists meetings. It is the authority
// on time-conflict and participant-eligibility rules.
type MeetingService struct {
	meetings MeetingStore
	teams    TeamStore
}

func NewMeetingService(meetings MeetingStore, teams TeamStore) *MeetingService {
	return &MeetingService{meetings: meetings, teams: teams}
}

type CreateMeetingInput struct {
	TeamID         uuid.UUID
	Title          string
	Description    string
	StartTime      time.Time
	EndTime        time.Time
	ParticipantIDs []uuid.UUID
}

// CreateMeeting schedules a meeting for the organizer. The organizer
// is always part of the participant set, even when omitted from the
// request. Validation precedes any write: time range, team existence,
// participant membership, then the conflict probe inside the
// scheduling transaction.
func (s *MeetingService) CreateMeeting(ctx context.Context, input CreateMeetingInput, organizerID uuid.UUID) (*model.Meeting, error) {
	if !input.EndTime.After(input.StartTime) {
		return nil, apperror.InvalidInput("End time must be after start time")
	}

	if _, err := s.teams.GetByID(ctx, input.TeamID); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return nil, apperror.NotFound("Team")
		}
		return nil, err
	}

	ids := dedupeWith(input.ParticipantIDs, organizerID)

	participants, err := s.teams.MembersIn(ctx, input.TeamID, ids)
	if err != nil {
		return nil, err
	}
	if len(participants) != len(ids) {
		return nil, apperror.InvalidParticipant
	}

	meeting := &model.Meeting{
		TeamID:       input.TeamID,
		Title:        input.Title,
		Description:  input.Description,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		OrganizerID:  &organizerID,
		Participants: participants,
	}

	if err := s.meetings.Schedule(ctx, meeting); err != nil {
		if errors.Is(err, repository.ErrMeetingConflict) {
			return nil, apperror.TimeConflict
		}
		return nil, err
	}

	return meeting, nil
}

// GetMeeting returns the meeting if the requester is a participant or
// the organizer. The allow-list is strict: role grants no exemption,
// an admin outside the meeting gets Forbidden like anyone else.
func (s *MeetingService) GetMeeting(ctx context.Context, meetingID, requesterID uuid.UUID) (*model.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, repository.ErrMeetingNotFound) {
			return nil, apperror.NotFound("Meeting")
		}
		return nil, err
	}

	if !s.mayView(meeting, requesterID) {
		return nil, apperror.Forbidden
	}

	return meeting, nil
}

// ListUserMeetings returns the user's meetings, optionally bounded by
// the inclusive date filter, sorted by start time.
func (s *MeetingService) ListUserMeetings(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]model.Meeting, error) {
	return s.meetings.ListForUser(ctx, userID, start, end)
}

// CancelMeeting deletes the meeting. Only the organizer may cancel;
// plain participants get Forbidden.
func (s *MeetingService) CancelMeeting(ctx context.Context, meetingID, requesterID uuid.UUID) error {
	meeting, err := s.GetMeeting(ctx, meetingID, requesterID)
	if err != nil {
		return err
	}

	if meeting.OrganizerID == nil || *meeting.OrganizerID != requesterID {
		return apperror.Forbidden
	}

	return s.meetings.Delete(ctx, meetingID)
}

func (s *MeetingService) mayView(meeting *model.Meeting, userID uuid.UUID) bool {
	if meeting.OrganizerID != nil && *meeting.OrganizerID == userID {
		return true
	}
	for _, p := range meeting.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// dedupeWith returns ids ∪ {extra} with duplicates removed, keeping
// first-seen order.
func dedupeWith(ids []uuid.UUID, extra uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids)+1)
	out := make([]uuid.UUID, 0, len(ids)+1)
	for _, id := range append(ids, extra) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
