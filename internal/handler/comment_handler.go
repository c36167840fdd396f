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

type CommentHandler struct {
	Comments *repository.CommentRepository
	Tasks    *repository.TaskRepository
}

func NewCommentHandler(comments *repository.CommentRepository, tasks *repository.TaskRepository) *CommentHandler {
	return &CommentHandler{Comments: comments, Tasks: tasks}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentResponse struct {
	ID        uuid.UUID  `json:"id"`
	TaskID    uuid.UUID  `json:"task_id"`
	Content   string     `json:"content"`
	AuthorID  *uuid.UUID `json:"author_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toCommentResponse(cm *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        cm.ID,
		TaskID:    cm.TaskID,
		Content:   cm.Content,
		AuthorID:  cm.AuthorID,
		CreatedAt: cm.CreatedAt,
		UpdatedAt: cm.UpdatedAt,
	}
}

// Create adds a comment to a task. The author must be a member of the
// task's team.
// @Summary Comment on a task
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCommentRequest true "Comment data"
// @Success 201 {object} CommentResponse
// @Router /tasks/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateCommentRequest
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

	if !containsID(memberIDs(task.Team.Members), principal.ID) {
		respondError(c, apperror.Forbidden)
		return
	}

	comment := &model.Comment{
		TaskID:   taskID,
		Content:  req.Content,
		AuthorID: &principal.ID,
	}
	if err := h.Comments.Create(c.Request.Context(), comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// ListByTask returns a task's comments oldest first.
// @Summary List comments on a task
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CommentResponse
// @Router /tasks/{id}/comments [get]
func (h *CommentHandler) ListByTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.Tasks.GetByID(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(c, apperror.NotFound("Task"))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}

	comments, err := h.Comments.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comments"})
		return
	}

	resp := make([]CommentResponse, len(comments))
	for i := range comments {
		resp[i] = toCommentResponse(&comments[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Update edits a comment's text. Author only.
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateCommentRequest true "New content"
// @Success 200 {object} CommentResponse
// @Router /comments/{id} [patch]
func (h *CommentHandler) Update(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.Comments.GetByID(c.Request.Context(), commentID)
	if errors.Is(err, repository.ErrCommentNotFound) {
		respondError(c, apperror.NotFound("Comment"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comment"})
		return
	}

	if comment.AuthorID == nil || *comment.AuthorID != principal.ID {
		respondError(c, apperror.Forbidden)
		return
	}

	comment.Content = req.Content
	if err := h.Comments.Update(c.Request.Context(), comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Delete removes a comment. The author may always delete their own;
// admins and team managers may moderate.
// @Summary Delete a comment
// @Tags comments
// @Security BearerAuth
// @Success 204
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comment, err := h.Comments.GetWithTaskTeam(c.Request.Context(), commentID)
	if errors.Is(err, repository.ErrCommentNotFound) {
		respondError(c, apperror.NotFound("Comment"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comment"})
		return
	}

	if !service.CanAccess(principal, memberIDs(comment.Task.Team.Members), comment.AuthorID) {
		respondError(c, apperror.Forbidden)
		return
	}

	if err := h.Comments.Delete(c.Request.Context(), commentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.Status(http.StatusNoContent)
}
