package handler

import (
	"context"
	"net/http"
	"time"

	"teamwork/internal/model"
	"teamwork/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MeetingScheduler is the slice of the meeting service the handler
// depends on.
type MeetingScheduler interface {
	CreateMeeting(ctx context.Context, input service.CreateMeetingInput, organizerID uuid.UUID) (*model.Meeting, error)
	GetMeeting(ctx context.Context, meetingID, requesterID uuid.UUID) (*model.Meeting, error)
	ListUserMeetings(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]model.Meeting, error)
	CancelMeeting(ctx context.Context, meetingID, requesterID uuid.UUID) error
}

type MeetingHandler struct {
	Meetings MeetingScheduler
}

func NewMeetingHandler(meetings MeetingScheduler) *MeetingHandler {
	return &MeetingHandler{Meetings: meetings}
}

type CreateMeetingRequest struct {
	Title          string      `json:"title" binding:"required"`
	Description    string      `json:"description"`
	StartTime      time.Time   `json:"start_time" binding:"required"`
	EndTime        time.Time   `json:"end_time" binding:"required"`
	TeamID         uuid.UUID   `json:"team_id" binding:"required"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

type MeetingResponse struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	StartTime      time.Time   `json:"start_time"`
	EndTime        time.Time   `json:"end_time"`
	TeamID         uuid.UUID   `json:"team_id"`
	OrganizerID    *uuid.UUID  `json:"organizer_id"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
	CreatedAt      time.Time   `json:"created_at"`
}

func toMeetingResponse(m *model.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		TeamID:         m.TeamID,
		OrganizerID:    m.OrganizerID,
		ParticipantIDs: m.ParticipantIDs(),
		CreatedAt:      m.CreatedAt,
	}
}

// Create schedules a meeting with the authenticated user as
// organizer. Any participant already busy in the slot makes the whole
// request fail with a conflict.
// @Summary Schedule a meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMeetingRequest true "Meeting data"
// @Success 201 {object} MeetingResponse
// @Failure 409 {object} apperror.Error
// @Router /meetings [post]
func (h *MeetingHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meeting, err := h.Meetings.CreateMeeting(c.Request.Context(), service.CreateMeetingInput{
		TeamID:         req.TeamID,
		Title:          req.Title,
		Description:    req.Description,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		ParticipantIDs: req.ParticipantIDs,
	}, principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMeetingResponse(meeting))
}

// GetByID returns one meeting. Only its participants and organizer
// may see it.
// @Summary Get a meeting
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeetingResponse
// @Router /meetings/{id} [get]
func (h *MeetingHandler) GetByID(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	meetingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	meeting, err := h.Meetings.GetMeeting(c.Request.Context(), meetingID, principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMeetingResponse(meeting))
}

// List returns the authenticated user's meetings, optionally bounded
// by inclusive start_date / end_date query filters (RFC 3339).
// @Summary List my meetings
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Inclusive lower bound (RFC 3339)"
// @Param end_date query string false "Inclusive upper bound (RFC 3339)"
// @Success 200 {array} MeetingResponse
// @Router /meetings [get]
func (h *MeetingHandler) List(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	start, ok := queryTime(c, "start_date")
	if !ok {
		return
	}
	end, ok := queryTime(c, "end_date")
	if !ok {
		return
	}

	meetings, err := h.Meetings.ListUserMeetings(c.Request.Context(), principal.ID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]MeetingResponse, len(meetings))
	for i := range meetings {
		resp[i] = toMeetingResponse(&meetings[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel deletes a meeting. Organizer only.
// @Summary Cancel a meeting
// @Tags meetings
// @Security BearerAuth
// @Success 204
// @Router /meetings/{id} [delete]
func (h *MeetingHandler) Cancel(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	meetingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Meetings.CancelMeeting(c.Request.Context(), meetingID, principal.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// queryTime parses an optional RFC 3339 query parameter. On a
// malformed value it writes a 400 and returns false.
func queryTime(c *gin.Context, param string) (*time.Time, bool) {
	raw := c.Query(param)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param + " format, expected RFC 3339"})
		return nil, false
	}
	return &t, true
}
