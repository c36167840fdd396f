package handler

import (
	"context"
	"net/http"
	"time"

	"teamwork/internal/apperror"
	"teamwork/internal/model"
	"teamwork/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CalendarProvider is the slice of the calendar service the handler
// depends on.
type CalendarProvider interface {
	GetUserEventsForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]service.Event, error)
}

type CalendarHandler struct {
	Calendar CalendarProvider
}

func NewCalendarHandler(calendar CalendarProvider) *CalendarHandler {
	return &CalendarHandler{Calendar: calendar}
}

// CalendarFilterRequest selects a period in exactly one of three
// ways: a single day, a whole month, or an explicit start+end range.
type CalendarFilterRequest struct {
	Day   *string `json:"day"`
	Month *string `json:"month"`
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// TaskEvent and MeetingEvent share a "type" discriminator so clients
// can tell the two apart in the merged feed.
type TaskEvent struct {
	Type        string     `json:"type"`
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	TeamID      uuid.UUID  `json:"team_id"`
	CreatorID   *uuid.UUID `json:"creator_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

type MeetingEvent struct {
	Type           string      `json:"type"`
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	StartTime      time.Time   `json:"start_time"`
	EndTime        time.Time   `json:"end_time"`
	TeamID         uuid.UUID   `json:"team_id"`
	OrganizerID    *uuid.UUID  `json:"organizer_id"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

type CalendarResponse struct {
	StartPeriod time.Time `json:"start_period"`
	EndPeriod   time.Time `json:"end_period"`
	Events      []any     `json:"events"`
}

// Events returns the merged task/meeting feed for an explicitly
// selected period.
// @Summary Calendar events for a period
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CalendarFilterRequest true "Period selector"
// @Success 200 {object} CalendarResponse
// @Failure 422 {object} apperror.Error
// @Router /calendar/events [post]
func (h *CalendarHandler) Events(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req CalendarFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, end, err := resolvePeriod(req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondEvents(c, principal.ID, start, end)
}

// Today returns the merged feed for the current UTC day.
// @Summary Calendar events for today
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CalendarResponse
// @Router /calendar/today [get]
func (h *CalendarHandler) Today(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	start, end := service.PeriodDay(time.Now().UTC())
	h.respondEvents(c, principal.ID, start, end)
}

// ThisMonth returns the merged feed for the current UTC month.
// @Summary Calendar events for the current month
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CalendarResponse
// @Router /calendar/this-month [get]
func (h *CalendarHandler) ThisMonth(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	start, end := service.PeriodMonth(time.Now().UTC())
	h.respondEvents(c, principal.ID, start, end)
}

func (h *CalendarHandler) respondEvents(c *gin.Context, userID uuid.UUID, start, end time.Time) {
	events, err := h.Calendar.GetUserEventsForPeriod(c.Request.Context(), userID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := CalendarResponse{
		StartPeriod: start,
		EndPeriod:   end,
		Events:      make([]any, 0, len(events)),
	}
	for _, event := range events {
		switch e := event.(type) {
		case *model.Task:
			resp.Events = append(resp.Events, TaskEvent{
				Type:        "task",
				ID:          e.ID,
				Title:       e.Title,
				Description: e.Description,
				Status:      e.Status,
				Deadline:    e.Deadline,
				TeamID:      e.TeamID,
				CreatorID:   e.CreatorID,
				AssigneeID:  e.AssigneeID,
				CreatedAt:   e.CreatedAt,
			})
		case *model.Meeting:
			resp.Events = append(resp.Events, MeetingEvent{
				Type:           "meeting",
				ID:             e.ID,
				Title:          e.Title,
				Description:    e.Description,
				StartTime:      e.StartTime,
				EndTime:        e.EndTime,
				TeamID:         e.TeamID,
				OrganizerID:    e.OrganizerID,
				ParticipantIDs: e.ParticipantIDs(),
			})
		}
	}

	c.JSON(http.StatusOK, resp)
}

const dateLayout = "2006-01-02"

// resolvePeriod turns the filter into a half-open [start, end) UTC
// interval. Exactly one selector must be present; a start or end
// without its partner does not count as one. Anything else is an
// invalid-input error.
func resolvePeriod(req CalendarFilterRequest) (time.Time, time.Time, error) {
	modes := 0
	if req.Day != nil {
		modes++
	}
	if req.Month != nil {
		modes++
	}
	if req.Start != nil && req.End != nil {
		modes++
	}
	if modes != 1 {
		return time.Time{}, time.Time{}, apperror.InvalidInput("Specify exactly one of: day, month, or start + end")
	}

	switch {
	case req.Day != nil:
		date, err := time.Parse(dateLayout, *req.Day)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.InvalidInput("Invalid day format, expected YYYY-MM-DD")
		}
		start, end := service.PeriodDay(date)
		return start, end, nil

	case req.Month != nil:
		date, err := time.Parse(dateLayout, *req.Month)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.InvalidInput("Invalid month format, expected YYYY-MM-DD")
		}
		start, end := service.PeriodMonth(date)
		return start, end, nil

	default:
		startDate, err := time.Parse(dateLayout, *req.Start)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.InvalidInput("Invalid start format, expected YYYY-MM-DD")
		}
		endDate, err := time.Parse(dateLayout, *req.End)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.InvalidInput("Invalid end format, expected YYYY-MM-DD")
		}
		// A degenerate range (end not after start) is not an error;
		// it simply selects nothing.
		start, _ := service.PeriodDay(startDate)
		end, _ := service.PeriodDay(endDate)
		return start, end, nil
	}
}
