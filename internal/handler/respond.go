package handler

import (
	"errors"
	"net/http"

	"teamwork/internal/apperror"
	"teamwork/internal/middleware"
	"teamwork/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError translates a typed API error into its HTTP shape;
// anything else is a 500. Database errors never leak to clients.
func respondError(c *gin.Context, err error) {
	var apiErr *apperror.Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, apiErr)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// currentPrincipal resolves the authenticated user (id + role) from
// the context set by the auth middleware. On failure it writes the
// response and returns false.
func currentPrincipal(c *gin.Context) (*model.User, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return nil, false
	}

	role, _ := c.Get(middleware.UserRoleKey)
	roleStr, _ := role.(string)

	return &model.User{ID: id, Role: roleStr}, true
}

// pathID parses a uuid path parameter. On failure it writes a 400 and
// returns false.
func pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param + " format"})
		return uuid.Nil, false
	}
	return id, true
}

func memberIDs(users []model.User) []uuid.UUID {
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}
