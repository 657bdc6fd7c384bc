// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	_ "memoir/docs" // swagger docs
	"memoir/internal/config"
	"memoir/internal/database"
	"memoir/internal/middleware"
	"memoir/internal/models"
	"memoir/internal/repository"
	"memoir/internal/secrets"
	"memoir/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	sessions *session.Manager
	cipher   *secrets.Cipher

	users         repository.UserRepository
	achievements  *repository.Records[models.Achievement]
	goals         *repository.Records[models.Goal]
	expenses      *repository.Records[models.Expense]
	notes         *repository.Records[models.Note]
	confidentials *repository.Records[models.ConfidentialDetail]
}

// NewServer creates a server instance, establishing its own database and
// Redis connections from the config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := session.ConnectRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and a nil or miniredis client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	cipher, err := secrets.NewCipher(cfg.EncryptionKey, cfg.AppSecret)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("memoir-api"),
		sessions:       session.NewManager(cfg.JWTSecret, redisClient),
		cipher:         cipher,
		users:          repository.NewUserRepository(db),
		achievements:   repository.NewRecords[models.Achievement](db, "Achievement"),
		goals:          repository.NewRecords[models.Goal](db, "Goal"),
		expenses:       repository.NewRecords[models.Expense](db, "Expense"),
		notes:          repository.NewRecords[models.Note](db, "Note"),
		confidentials:  repository.NewRecords[models.ConfidentialDetail](db, "Confidential detail"),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Propagate request ID and user ID into the request context
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)
	auth.Post("/logout", s.Logout)

	// Everything below requires a valid session.
	protected := api.Group("", middleware.AuthRequired(s.sessions))

	protected.Get("/profile", s.GetProfile)
	protected.Delete("/profile", s.DeleteProfile)

	achievements := protected.Group("/achievements")
	achievements.Get("/", s.ListAchievements)
	achievements.Post("/", s.CreateAchievement)
	achievements.Get("/:id", s.GetAchievement)
	achievements.Put("/:id", s.UpdateAchievement)
	achievements.Delete("/:id", s.DeleteAchievement)

	goals := protected.Group("/goals")
	goals.Get("/", s.ListGoals)
	goals.Post("/", s.CreateGoal)
	goals.Get("/:id", s.GetGoal)
	goals.Put("/:id", s.UpdateGoal)
	goals.Delete("/:id", s.DeleteGoal)

	expenses := protected.Group("/expenses")
	expenses.Get("/", s.ListExpenses)
	expenses.Post("/", s.CreateExpense)
	expenses.Get("/:id", s.GetExpense)
	expenses.Put("/:id", s.UpdateExpense)
	expenses.Delete("/:id", s.DeleteExpense)

	notes := protected.Group("/notes")
	notes.Get("/", s.ListNotes)
	notes.Post("/", s.CreateNote)
	notes.Get("/:id", s.GetNote)
	notes.Put("/:id", s.UpdateNote)
	notes.Delete("/:id", s.DeleteNote)

	confidentials := protected.Group("/confidential-details")
	confidentials.Get("/", s.ListConfidentialDetails)
	confidentials.Post("/", s.CreateConfidentialDetail)
	confidentials.Get("/:id", s.GetConfidentialDetail)
	confidentials.Put("/:id", s.UpdateConfidentialDetail)
	confidentials.Delete("/:id", s.DeleteConfidentialDetail)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so a
// missing session registry degrades the report without failing it.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Memoir API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
