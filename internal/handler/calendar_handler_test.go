package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamwork/internal/handler"
	"teamwork/internal/model"
	"teamwork/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCalendarProvider struct {
	mock.Mock
}

func (m *mockCalendarProvider) GetUserEventsForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]service.Event, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Event), args.Error(1)
}

func setupCalendarRouter(svc *mockCalendarProvider, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewCalendarHandler(svc)

	r.Use(authAs(userID, model.RoleUser))
	r.POST("/calendar/events", h.Events)
	r.GET("/calendar/today", h.Today)

	return r
}

func postEvents(router *gin.Engine, payload string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/calendar/events", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCalendarHandler_Events_Day(t *testing.T) {
	// Arrange
	svc := new(mockCalendarProvider)
	userID := uuid.New()
	router := setupCalendarRouter(svc, userID)

	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	deadline := start.Add(2 * time.Hour)
	task := &model.Task{ID: uuid.New(), Title: "Report", Status: model.StatusOpen, Deadline: &deadline}
	meeting := &model.Meeting{ID: uuid.New(), Title: "Standup", StartTime: start.Add(time.Hour), EndTime: start.Add(90 * time.Minute)}

	svc.On("GetUserEventsForPeriod", mock.Anything, userID, start, end).
		Return([]service.Event{meeting, task}, nil)

	// Act
	resp := postEvents(router, `{"day":"2024-03-10"}`)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var body handler.CalendarResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, start, body.StartPeriod.UTC())
	assert.Equal(t, end, body.EndPeriod.UTC())
	assert.Len(t, body.Events, 2)

	first := body.Events[0].(map[string]any)
	second := body.Events[1].(map[string]any)
	assert.Equal(t, "meeting", first["type"])
	assert.Equal(t, "task", second["type"])
	assert.Equal(t, "Report", second["title"])
}

func TestCalendarHandler_Events_Month(t *testing.T) {
	// Arrange
	svc := new(mockCalendarProvider)
	userID := uuid.New()
	router := setupCalendarRouter(svc, userID)

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.On("GetUserEventsForPeriod", mock.Anything, userID, start, end).
		Return([]service.Event{}, nil)

	// Act - any date inside the month selects the whole month
	resp := postEvents(router, `{"month":"2024-02-15"}`)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	svc.AssertExpectations(t)
}

func TestCalendarHandler_Events_CustomRange(t *testing.T) {
	// Arrange
	svc := new(mockCalendarProvider)
	userID := uuid.New()
	router := setupCalendarRouter(svc, userID)

	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	svc.On("GetUserEventsForPeriod", mock.Anything, userID, start, end).
		Return([]service.Event{}, nil)

	// Act
	resp := postEvents(router, `{"start":"2024-03-10","end":"2024-03-20"}`)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	svc.AssertExpectations(t)
}

func TestCalendarHandler_Events_NoSelector(t *testing.T) {
	// Arrange
	svc := new(mockCalendarProvider)
	router := setupCalendarRouter(svc, uuid.New())

	// Act
	resp := postEvents(router, `{}`)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid_input")
}

func TestCalendarHandler_Events_ConflictingSelectors(t *testing.T) {
	// Arrange
	svc := new(mockCalendarProvider)
	router := setupCalendarRouter(svc, uuid.New())

	// Act
	resp := postEvents(router, `{"day":"2024-03-10","month":"2024-03-01"}`)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid_input")
	svc.AssertNotCalled(t, "GetUserEventsForPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCalendarHandler_Events_HalfRange(t *testing.T) {
	// Arrange
	svc := new(mockCalendarProvider)
	router := setupCalendarRouter(svc, uuid.New())

	// Act - start without end is not a valid period
	resp := postEvents(router, `{"start":"2024-03-10"}`)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestCalendarHandler_Events_DanglingStartBesideDay(t *testing.T) {
	// Arrange
	svc := new(mockCalendarProvider)
	userID := uuid.New()
	router := setupCalendarRouter(svc, userID)

	dayStart := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	svc.On("GetUserEventsForPeriod", mock.Anything, userID, dayStart, dayStart.AddDate(0, 0, 1)).
		Return([]service.Event{}, nil)

	// Act - a start without its end is not a competing selector, so
	// the day filter alone decides the period.
	resp := postEvents(router, `{"day":"2024-03-10","start":"2024-01-01"}`)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	svc.AssertExpectations(t)
}

func TestCalendarHandler_Events_DegenerateRange(t *testing.T) {
	// Arrange
	svc := new(mockCalendarProvider)
	userID := uuid.New()
	router := setupCalendarRouter(svc, userID)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	svc.On("GetUserEventsForPeriod", mock.Anything, userID, day, day).
		Return([]service.Event{}, nil)

	// Act - end == start selects an empty interval, not an error
	resp := postEvents(router, `{"start":"2024-03-10","end":"2024-03-10"}`)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var body handler.CalendarResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Empty(t, body.Events)
}

func TestCalendarHandler_Events_BadDate(t *testing.T) {
	// Arrange
	svc := new(mockCalendarProvider)
	router := setupCalendarRouter(svc, uuid.New())

	// Act
	resp := postEvents(router, `{"day":"March 10th"}`)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestCalendarHandler_Today(t *testing.T) {
	// Arrange
	svc := new(mockCalendarProvider)
	userID := uuid.New()
	router := setupCalendarRouter(svc, userID)

	svc.On("GetUserEventsForPeriod", mock.Anything, userID, mock.Anything, mock.Anything).
		Return([]service.Event{}, nil)

	req, _ := http.NewRequest("GET", "/calendar/today", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	svc.AssertExpectations(t)
}
