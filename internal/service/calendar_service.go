package service

import (
	"context"
	"sort"
	"time"

	"teamwork/internal/model"

	"github.com/google/uuid"
)

// Event is anything that can sit on the merged calendar timeline.
// Implemented by *model.Task and *model.Meeting.
type Event interface {
	EffectiveStart() time.Time
}

// CalendarMeetingStore is the meeting query surface for the calendar.
type CalendarMeetingStore interface {
	GetForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.Meeting, error)
}

// CalendarTaskStore is the task query surface for the calendar.
type CalendarTaskStore interface {
	GetForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.Task, error)
}

// CalendarService computes period boundaries and merges tasks and
// meetings into one chronologically sorted feed per user. It never
// mutates state.
type CalendarService struct {
	meetings CalendarMeetingStore
	tasks    CalendarTaskStore
}

func NewCalendarService(meetings CalendarMeetingStore, tasks CalendarTaskStore) *CalendarService {
	return &CalendarService{meetings: meetings, tasks: tasks}
}

// PeriodDay resolves a date to the half-open interval
// [midnight, midnight+24h) in UTC.
func PeriodDay(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// PeriodMonth resolves a date to the half-open interval
// [first-of-month, first-of-next-month) in UTC. AddDate handles the
// variable month length and the December→January rollover.
func PeriodMonth(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// GetMeetingsForPeriod returns the user's meetings overlapping
// [start, end), sorted by start time.
func (s *CalendarService) GetMeetingsForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.Meeting, error) {
	return s.meetings.GetForPeriod(ctx, userID, start, end)
}

// GetTasksForPeriod returns the user's tasks for [start, end):
// deadline inside the period, or undated and not completed.
func (s *CalendarService) GetTasksForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.Task, error) {
	return s.tasks.GetForPeriod(ctx, userID, start, end)
}

// GetUserEventsForPeriod merges the user's meetings and tasks for the
// period into a single feed, stably sorted by effective start time.
func (s *CalendarService) GetUserEventsForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]Event, error) {
	meetings, err := s.GetMeetingsForPeriod(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	tasks, err := s.GetTasksForPeriod(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(meetings)+len(tasks))
	for i := range meetings {
		events = append(events, &meetings[i])
	}
	for i := range tasks {
		events = append(events, &tasks[i])
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EffectiveStart().Before(events[j].EffectiveStart())
	})

	return events, nil
}
