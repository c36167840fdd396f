package handler

import (
	"errors"
	"net/http"
	"time"

	"teamwork/internal/apperror"
	"teamwork/internal/model"
	"teamwork/internal/repository"
	"teamwork/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EvaluationHandler struct {
	Evaluations *repository.EvaluationRepository
	Tasks       *repository.TaskRepository
}

func NewEvaluationHandler(evaluations *repository.EvaluationRepository, tasks *repository.TaskRepository) *EvaluationHandler {
	return &EvaluationHandler{Evaluations: evaluations, Tasks: tasks}
}

// CreateEvaluationRequest carries the rating as a pointer so a
// literal 0 reaches the range check instead of tripping the
// required-field validation.
type CreateEvaluationRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

type EvaluationResponse struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type AverageRatingResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	AverageRating *float64  `json:"average_rating"`
}

func toEvaluationResponse(e *model.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:        e.ID,
		TaskID:    e.TaskID,
		Rating:    e.Rating,
		CreatedAt: e.CreatedAt,
	}
}

// Create rates a completed task, once. Managers must belong to the
// task's team.
// @Summary Evaluate a completed task
// @Tags evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEvaluationRequest true "Rating 1-5"
// @Success 201 {object} EvaluationResponse
// @Router /tasks/{id}/evaluations [post]
func (h *EvaluationHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		respondError(c, apperror.InvalidInput("Rating must be between 1 and 5"))
		return
	}

	task, err := h.Tasks.GetWithTeamMembers(c.Request.Context(), taskID)
	if errors.Is(err, repository.ErrTaskNotFound) {
		respondError(c, apperror.NotFound("Task"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}

	if !service.CanAccess(principal, memberIDs(task.Team.Members), nil) {
		respondError(c, apperror.Forbidden)
		return
	}

	if task.Status != model.StatusCompleted {
		respondError(c, apperror.TaskNotCompleted)
		return
	}

	existing, err := h.Evaluations.FindByTaskID(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check evaluation"})
		return
	}
	if existing != nil {
		respondError(c, apperror.EvaluationExists)
		return
	}

	evaluation := &model.Evaluation{
		TaskID: taskID,
		Rating: *req.Rating,
	}
	if err := h.Evaluations.Create(c.Request.Context(), evaluation); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create evaluation"})
		return
	}

	c.JSON(http.StatusCreated, toEvaluationResponse(evaluation))
}

// Mine returns the evaluations of tasks assigned to the
// authenticated user.
// @Summary My evaluations
// @Tags evaluations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} EvaluationResponse
// @Router /evaluations/me [get]
func (h *EvaluationHandler) Mine(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	evaluations, err := h.Evaluations.ListForAssignee(c.Request.Context(), principal.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list evaluations"})
		return
	}

	resp := make([]EvaluationResponse, len(evaluations))
	for i := range evaluations {
		resp[i] = toEvaluationResponse(&evaluations[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Average computes a user's mean rating over a required date range.
// Regular users may only query themselves; admins and managers may
// query anyone. A user with no evaluations in the range gets a null
// average rather than an error.
// @Summary Average rating for a user
// @Tags evaluations
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Range start (RFC 3339)"
// @Param end_date query string true "Range end (RFC 3339)"
// @Success 200 {object} AverageRatingResponse
// @Router /evaluations/average/{user_id} [get]
func (h *EvaluationHandler) Average(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if principal.Role == model.RoleUser && principal.ID != userID {
		respondError(c, apperror.Forbidden)
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
	if start == nil || end == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required"})
		return
	}

	avg, err := h.Evaluations.AverageForUser(c.Request.Context(), userID, *start, *end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute average"})
		return
	}

	c.JSON(http.StatusOK, AverageRatingResponse{UserID: userID, AverageRating: avg})
}
