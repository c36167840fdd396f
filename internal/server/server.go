package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamwork/internal/config"
	"teamwork/internal/database"
	"teamwork/internal/handler"
	"teamwork/internal/middleware"
	"teamwork/internal/model"
	"teamwork/internal/repository"
	"teamwork/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	logrus.Info("✅ Connected to database")

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	logrus.Info("✅ Migrations applied")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	if err := bootstrapAdmin(cfg, userRepo); err != nil {
		return nil, fmt.Errorf("❌ failed to bootstrap admin: %w", err)
	}

	// Initialize services
	meetingService := service.NewMeetingService(meetingRepo, teamRepo)
	calendarService := service.NewCalendarService(meetingRepo, taskRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo)
	teamHandler := handler.NewTeamHandler(teamRepo, userRepo)
	taskHandler := handler.NewTaskHandler(taskRepo, teamRepo)
	meetingHandler := handler.NewMeetingHandler(meetingService)
	calendarHandler := handler.NewCalendarHandler(calendarService)
	commentHandler := handler.NewCommentHandler(commentRepo, taskRepo)
	evaluationHandler := handler.NewEvaluationHandler(evaluationRepo, taskRepo)

	// Setup Gin
	r := gin.Default()

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/users/me", userHandler.Me)

		// Team routes
		authorized.POST("/teams", middleware.RequireRole(model.RoleAdmin), teamHandler.Create)
		authorized.POST("/teams/join", teamHandler.Join)
		authorized.DELETE("/teams/:id/leave", teamHandler.Leave)
		authorized.GET("/teams/:id/members", middleware.RequireRole(model.RoleAdmin, model.RoleManager), teamHandler.GetMembers)
		authorized.POST("/teams/:id/members/:user_id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), teamHandler.AddMember)
		authorized.DELETE("/teams/:id/members/:user_id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), teamHandler.RemoveMember)
		authorized.DELETE("/teams/:id", middleware.RequireRole(model.RoleAdmin), teamHandler.Delete)

		// Task routes
		authorized.POST("/tasks", middleware.RequireRole(model.RoleAdmin, model.RoleManager), taskHandler.Create)
		authorized.GET("/tasks", taskHandler.List)
		authorized.PATCH("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), taskHandler.Delete)

		// Comment routes
		authorized.POST("/tasks/:id/comments", commentHandler.Create)
		authorized.GET("/tasks/:id/comments", commentHandler.ListByTask)
		authorized.PATCH("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)

		// Evaluation routes
		authorized.POST("/tasks/:id/evaluations", middleware.RequireRole(model.RoleAdmin, model.RoleManager), evaluationHandler.Create)
		authorized.GET("/evaluations/me", evaluationHandler.Mine)
		authorized.GET("/evaluations/average/:user_id", evaluationHandler.Average)

		// Meeting routes
		authorized.POST("/meetings", meetingHandler.Create)
		authorized.GET("/meetings", meetingHandler.List)
		authorized.GET("/meetings/:id", meetingHandler.GetByID)
		authorized.DELETE("/meetings/:id", meetingHandler.Cancel)

		// Calendar routes
		authorized.POST("/calendar/events", calendarHandler.Events)
		authorized.GET("/calendar/today", calendarHandler.Today)
		authorized.GET("/calendar/this-month", calendarHandler.ThisMonth)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

// bootstrapAdmin seeds the first admin account from the environment.
// Self-registration only ever produces regular users, so without this
// seed there would be no way to create the first team.
func bootstrapAdmin(cfg *config.Config, users repository.UserRepositoryInterface) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	ctx := context.Background()
	existing, err := users.FindByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:          cfg.AdminEmail,
		HashedPassword: string(hash),
		Name:           cfg.AdminName,
		Role:           model.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	logrus.WithField("email", cfg.AdminEmail).Info("✅ Admin account created")
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		logrus.Infof("🚀 Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	logrus.Info("✅ Server exited properly")
}
