package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"teamwork/internal/handler"
	"teamwork/internal/model"
	"teamwork/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func setupTeamMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, sqlMock
}

func setupTeamRouter(teams *repository.TeamRepository, users *mockUserStore, principalID uuid.UUID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewTeamHandler(teams, users)
	r.Use(authAs(principalID, role))
	r.DELETE("/teams/:id/members/:user_id", h.RemoveMember)
	return r
}

func removeMember(router *gin.Engine, teamID, userID uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String()+"/members/"+userID.String(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestTeamHandler_RemoveMember_UnknownUser(t *testing.T) {
	// Arrange
	gormDB, sqlMock := setupTeamMockDB(t)
	teams := repository.NewTeamRepository(gormDB)
	users := new(mockUserStore)

	teamID := uuid.New()
	userID := uuid.New()
	router := setupTeamRouter(teams, users, uuid.New(), model.RoleAdmin)

	sqlMock.ExpectQuery(`SELECT .* FROM "teams"`).
		WithArgs(teamID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "invite_code"}).
			AddRow(teamID.String(), "Platform", "code123"))
	users.On("GetByID", mock.Anything, userID).Return(nil, nil)

	// Act
	resp := removeMember(router, teamID, userID)

	// Assert - the user lookup fails before any membership check
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "object_not_found")
	assert.Contains(t, resp.Body.String(), "User not found")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestTeamHandler_RemoveMember_NotInTeam(t *testing.T) {
	// Arrange
	gormDB, sqlMock := setupTeamMockDB(t)
	teams := repository.NewTeamRepository(gormDB)
	users := new(mockUserStore)

	teamID := uuid.New()
	userID := uuid.New()
	router := setupTeamRouter(teams, users, uuid.New(), model.RoleAdmin)

	sqlMock.ExpectQuery(`SELECT .* FROM "teams"`).
		WithArgs(teamID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "invite_code"}).
			AddRow(teamID.String(), "Platform", "code123"))
	users.On("GetByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
	sqlMock.ExpectQuery(`SELECT count\(\*\) FROM "user_teams"`).
		WithArgs(teamID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// Act
	resp := removeMember(router, teamID, userID)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "not_in_team")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
