package service_test

import (
	"context"
	"testing"
	"time"

	"teamwork/internal/model"
	"teamwork/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCalendarMeetingStore struct {
	mock.Mock
}

func (m *mockCalendarMeetingStore) GetForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.Meeting, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Meeting), args.Error(1)
}

type mockCalendarTaskStore struct {
	mock.Mock
}

func (m *mockCalendarTaskStore) GetForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.Task, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func TestPeriodDay(t *testing.T) {
	// Arrange
	date := time.Date(2024, 1, 15, 13, 45, 12, 0, time.UTC)

	// Act
	start, end := service.PeriodDay(date)

	// Assert
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), end)
}

func TestPeriodMonth(t *testing.T) {
	// Arrange - a leap-year February
	date := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)

	// Act
	start, end := service.PeriodMonth(date)

	// Assert
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestPeriodMonth_DecemberRollsOver(t *testing.T) {
	// Act
	start, end := service.PeriodMonth(time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC))

	// Assert
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestGetUserEventsForPeriod_MergesSorted(t *testing.T) {
	// Arrange
	meetings := new(mockCalendarMeetingStore)
	tasks := new(mockCalendarTaskStore)
	calendar := service.NewCalendarService(meetings, tasks)

	userID := uuid.New()
	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	start, end := service.PeriodDay(base)

	deadline := base.Add(2 * time.Hour)
	task := model.Task{ID: uuid.New(), Title: "Report", Deadline: &deadline}
	earlyMeeting := model.Meeting{ID: uuid.New(), Title: "Standup", StartTime: base.Add(1 * time.Hour), EndTime: base.Add(90 * time.Minute)}
	lateMeeting := model.Meeting{ID: uuid.New(), Title: "Review", StartTime: base.Add(5 * time.Hour), EndTime: base.Add(6 * time.Hour)}

	meetings.On("GetForPeriod", mock.Anything, userID, start, end).Return([]model.Meeting{earlyMeeting, lateMeeting}, nil)
	tasks.On("GetForPeriod", mock.Anything, userID, start, end).Return([]model.Task{task}, nil)

	// Act
	events, err := calendar.GetUserEventsForPeriod(context.Background(), userID, start, end)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Equal(t, "Standup", events[0].(*model.Meeting).Title)
	assert.Equal(t, "Report", events[1].(*model.Task).Title)
	assert.Equal(t, "Review", events[2].(*model.Meeting).Title)
}

func TestGetUserEventsForPeriod_UndatedTaskSortsByCreation(t *testing.T) {
	// Arrange
	meetings := new(mockCalendarMeetingStore)
	tasks := new(mockCalendarTaskStore)
	calendar := service.NewCalendarService(meetings, tasks)

	userID := uuid.New()
	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	start, end := service.PeriodDay(base)

	undated := model.Task{ID: uuid.New(), Title: "Backlog item", CreatedAt: base.Add(30 * time.Minute)}
	meeting := model.Meeting{ID: uuid.New(), Title: "Sync", StartTime: base.Add(2 * time.Hour), EndTime: base.Add(3 * time.Hour)}

	meetings.On("GetForPeriod", mock.Anything, userID, start, end).Return([]model.Meeting{meeting}, nil)
	tasks.On("GetForPeriod", mock.Anything, userID, start, end).Return([]model.Task{undated}, nil)

	// Act
	events, err := calendar.GetUserEventsForPeriod(context.Background(), userID, start, end)

	// Assert - an undated task sorts by its creation time
	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "Backlog item", events[0].(*model.Task).Title)
	assert.Equal(t, "Sync", events[1].(*model.Meeting).Title)
}

func TestGetUserEventsForPeriod_StoreError(t *testing.T) {
	// Arrange
	meetings := new(mockCalendarMeetingStore)
	tasks := new(mockCalendarTaskStore)
	calendar := service.NewCalendarService(meetings, tasks)

	userID := uuid.New()
	start, end := service.PeriodDay(time.Now().UTC())

	meetings.On("GetForPeriod", mock.Anything, userID, start, end).Return(nil, assert.AnError)

	// Act
	events, err := calendar.GetUserEventsForPeriod(context.Background(), userID, start, end)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, events)
}
