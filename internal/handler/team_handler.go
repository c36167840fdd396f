package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"teamwork/internal/apperror"
	"teamwork/internal/model"
	"teamwork/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TeamHandler struct {
	Teams *repository.TeamRepository
	Users repository.UserRepositoryInterface
}

func NewTeamHandler(teams *repository.TeamRepository, users repository.UserRepositoryInterface) *TeamHandler {
	return &TeamHandler{Teams: teams, Users: users}
}

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

type JoinTeamRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

type TeamResponse struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	InviteCode string         `json:"invite_code,omitempty"`
	Members    []UserResponse `json:"members"`
}

func toTeamResponse(team *model.Team, withCode bool) TeamResponse {
	resp := TeamResponse{
		ID:      team.ID,
		Name:    team.Name,
		Members: make([]UserResponse, len(team.Members)),
	}
	if withCode {
		resp.InviteCode = team.InviteCode
	}
	for i := range team.Members {
		resp.Members[i] = toUserResponse(&team.Members[i])
	}
	return resp
}

// generateInviteCode produces an unguessable URL-safe code.
func generateInviteCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Create makes a new team with a fresh invite code. Admin only.
// @Summary Create a team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTeamRequest true "Team data"
// @Success 201 {object} TeamResponse
// @Router /teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.Teams.FindByName(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check team name"})
		return
	}
	if existing != nil {
		respondError(c, apperror.Exists("Team"))
		return
	}

	code, err := generateInviteCode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invite code"})
		return
	}

	team := &model.Team{Name: req.Name, InviteCode: code}
	if err := h.Teams.Create(c.Request.Context(), team); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}

	c.JSON(http.StatusCreated, toTeamResponse(team, true))
}

// Join adds the authenticated user to the team matching the invite
// code. A user can belong to at most one team at a time.
// @Summary Join a team by invite code
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body JoinTeamRequest true "Invite code"
// @Success 200 {object} TeamResponse
// @Router /teams/join [post]
func (h *TeamHandler) Join(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req JoinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.Teams.FindByInviteCode(c.Request.Context(), req.InviteCode)
	if errors.Is(err, repository.ErrTeamNotFound) {
		respondError(c, apperror.NotFound("Team"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find team"})
		return
	}

	count, err := h.Teams.MembershipCount(c.Request.Context(), principal.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if count > 0 {
		respondError(c, apperror.AlreadyInTeam)
		return
	}

	if err := h.Teams.AddMember(c.Request.Context(), team.ID, principal.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join team"})
		return
	}

	team, err = h.Teams.GetByIDWithMembers(c.Request.Context(), team.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load team"})
		return
	}

	c.JSON(http.StatusOK, toTeamResponse(team, false))
}

// Leave removes the authenticated user from the team.
// @Summary Leave a team
// @Tags teams
// @Security BearerAuth
// @Success 204
// @Router /teams/{id}/leave [delete]
func (h *TeamHandler) Leave(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.Teams.GetByID(c.Request.Context(), teamID); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			respondError(c, apperror.NotFound("Team"))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load team"})
		return
	}

	isMember, err := h.Teams.IsMember(c.Request.Context(), teamID, principal.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if !isMember {
		respondError(c, apperror.NotInTeam)
		return
	}

	if err := h.Teams.RemoveMember(c.Request.Context(), teamID, principal.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave team"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMembers returns the team with its roster. Admin or manager only.
// @Summary List team members
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TeamResponse
// @Router /teams/{id}/members [get]
func (h *TeamHandler) GetMembers(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	team, err := h.Teams.GetByIDWithMembers(c.Request.Context(), teamID)
	if errors.Is(err, repository.ErrTeamNotFound) {
		respondError(c, apperror.NotFound("Team"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load team"})
		return
	}

	c.JSON(http.StatusOK, toTeamResponse(team, false))
}

// AddMember puts an existing user into the team. Managers may only
// manage the roster of their own team; admins may manage any.
// @Summary Add a user to a team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TeamResponse
// @Router /teams/{id}/members/{user_id} [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if _, err := h.Teams.GetByID(c.Request.Context(), teamID); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			respondError(c, apperror.NotFound("Team"))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load team"})
		return
	}

	if !h.mayManageRoster(c, principal, teamID) {
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	if user == nil {
		respondError(c, apperror.NotFound("User"))
		return
	}

	count, err := h.Teams.MembershipCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if count > 0 {
		respondError(c, apperror.AlreadyInTeam)
		return
	}

	if err := h.Teams.AddMember(c.Request.Context(), teamID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	team, err := h.Teams.GetByIDWithMembers(c.Request.Context(), teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load team"})
		return
	}
	c.JSON(http.StatusOK, toTeamResponse(team, false))
}

// RemoveMember takes a user out of the team. Same authority rules as
// AddMember.
// @Summary Remove a user from a team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TeamResponse
// @Router /teams/{id}/members/{user_id} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if _, err := h.Teams.GetByID(c.Request.Context(), teamID); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			respondError(c, apperror.NotFound("Team"))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load team"})
		return
	}

	if !h.mayManageRoster(c, principal, teamID) {
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	if user == nil {
		respondError(c, apperror.NotFound("User"))
		return
	}

	isMember, err := h.Teams.IsMember(c.Request.Context(), teamID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if !isMember {
		respondError(c, apperror.NotInTeam)
		return
	}

	if err := h.Teams.RemoveMember(c.Request.Context(), teamID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	team, err := h.Teams.GetByIDWithMembers(c.Request.Context(), teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load team"})
		return
	}
	c.JSON(http.StatusOK, toTeamResponse(team, false))
}

// Delete removes a team and, via cascades, its tasks and meetings.
// Admin only.
// @Summary Delete a team
// @Tags teams
// @Security BearerAuth
// @Success 204
// @Router /teams/{id} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.Teams.Delete(c.Request.Context(), teamID)
	if errors.Is(err, repository.ErrTeamNotFound) {
		respondError(c, apperror.NotFound("Team"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete team"})
		return
	}

	c.Status(http.StatusNoContent)
}

// mayManageRoster writes the error response and returns false when
// the principal cannot manage this team's membership.
func (h *TeamHandler) mayManageRoster(c *gin.Context, principal *model.User, teamID uuid.UUID) bool {
	if principal.Role == model.RoleAdmin {
		return true
	}
	isMember, err := h.Teams.IsMember(c.Request.Context(), teamID, principal.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return false
	}
	if !isMember {
		respondError(c, apperror.Forbidden)
		return false
	}
	return true
}
