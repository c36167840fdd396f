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

type TaskHandler struct {
	Tasks *repository.TaskRepository
	Teams *repository.TeamRepository
}

func NewTaskHandler(tasks *repository.TaskRepository, teams *repository.TeamRepository) *TaskHandler {
	return &TaskHandler{Tasks: tasks, Teams: teams}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" binding:"omitempty,oneof=open in_progress completed"`
	Deadline    *time.Time `json:"deadline"`
	TeamID      uuid.UUID  `json:"team_id" binding:"required"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=open in_progress completed"`
	Deadline    *time.Time `json:"deadline"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
}

type TaskResponse struct {
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

func toTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Deadline:    t.Deadline,
		TeamID:      t.TeamID,
		CreatorID:   t.CreatorID,
		AssigneeID:  t.AssigneeID,
		CreatedAt:   t.CreatedAt,
	}
}

// Create makes a task inside a team. Managers must belong to the
// team; the assignee, when given, must be one of its members.
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} TaskResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.Teams.GetByIDWithMembers(c.Request.Context(), req.TeamID)
	if errors.Is(err, repository.ErrTeamNotFound) {
		respondError(c, apperror.NotFound("Team"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load team"})
		return
	}

	members := memberIDs(team.Members)
	if !service.CanAccess(principal, members, nil) {
		respondError(c, apperror.Forbidden)
		return
	}

	if req.AssigneeID != nil && !containsID(members, *req.AssigneeID) {
		respondError(c, apperror.InvalidAssignee)
		return
	}

	status := req.Status
	if status == "" {
		status = model.StatusOpen
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Deadline:    req.Deadline,
		TeamID:      req.TeamID,
		CreatorID:   &principal.ID,
		AssigneeID:  req.AssigneeID,
	}
	if err := h.Tasks.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// List returns all tasks for admins, and for everyone else the tasks
// of the teams they belong to.
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TaskResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var (
		tasks []model.Task
		err   error
	)
	if principal.Role == model.RoleAdmin {
		tasks, err = h.Tasks.ListAll(c.Request.Context())
	} else {
		tasks, err = h.Tasks.ListForUserTeams(c.Request.Context(), principal.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}

	resp := make([]TaskResponse, len(tasks))
	for i := range tasks {
		resp[i] = toTaskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Update applies a partial update. Admins can edit any task, managers
// tasks of their own team, and regular members only tasks assigned to
// them.
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} TaskResponse
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	members := memberIDs(task.Team.Members)
	if !service.CanAccess(principal, members, task.AssigneeID) {
		respondError(c, apperror.Forbidden)
		return
	}

	if req.AssigneeID != nil && !containsID(members, *req.AssigneeID) {
		respondError(c, apperror.InvalidAssignee)
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Deadline != nil {
		task.Deadline = req.Deadline
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}

	if err := h.Tasks.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete removes a task; its comments and evaluation go with it.
// @Summary Delete a task
// @Tags tasks
// @Security BearerAuth
// @Success 204
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
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

	if err := h.Tasks.Delete(c.Request.Context(), taskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.Status(http.StatusNoContent)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
