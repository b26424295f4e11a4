// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"housegig/internal/assistant"
	"housegig/internal/cache"
	"housegig/internal/config"
	"housegig/internal/database"
	"housegig/internal/identity"
	"housegig/internal/middleware"
	"housegig/internal/models"
	"housegig/internal/observability"
	"housegig/internal/repository"
	"housegig/internal/service"
	"housegig/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	identity       identity.Provider
	aiClient       *assistant.Client
	userRepo       repository.UserRepository

	listingService    *service.ListingService
	voteService       *service.VoteService
	commentService    *service.CommentService
	collectionService *service.CollectionService
	chatService       *service.ChatService
	userService       *service.UserService
	assistantService  *service.AssistantService

	traceShutdown func(context.Context) error
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or tooling that establishes DB/Redis connections itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// External collaborators
	store := storage.NewClient(cfg)
	aiClient := assistant.NewClient(cfg)

	// Initialize Prometheus metrics
	prom := middleware.InitMetrics("housegig-api")

	// Initialize tracing (no-op exporter unless enabled)
	traceShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "housegig-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.TracingOTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		identity:       identity.NewLocalProvider(),
		aiClient:       aiClient,
		userRepo:       userRepo,
		traceShutdown:  traceShutdown,
	}
	server.listingService = service.NewListingService(listingRepo, store)
	server.voteService = service.NewVoteService(voteRepo, listingRepo)
	server.commentService = service.NewCommentService(commentRepo, listingRepo)
	server.collectionService = service.NewCollectionService(collectionRepo, listingRepo)
	server.chatService = service.NewChatService(chatRepo, userRepo)
	server.userService = service.NewUserService(userRepo, listingRepo, store)
	server.assistantService = service.NewAssistantService(aiClient, listingRepo, userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry spans per request (no-op exporter unless tracing is enabled)
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	// Backwards-compatible legacy route: map /health to readiness (keeps existing scripts working)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "HouseGig Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public listing routes (browse/search). OptionalAuth lets responses carry
	// viewer-specific fields (comment like state) for signed-in users.
	publicListings := api.Group("/listings", middleware.OptionalAuth)
	publicListings.Get("/", s.GetListings)
	publicListings.Get("/:id/comments", s.GetComments)
	publicListings.Get("/:id/votes", s.GetVoteStats)
	publicListings.Get("/:id", s.GetListing)

	// Public comment reads
	api.Get("/comments/:id/replies", middleware.OptionalAuth, s.GetReplies)

	// Public user profiles
	api.Get("/users/:username/listings", s.GetUserListings)
	api.Get("/users/:username/collections", middleware.OptionalAuth, s.GetUserCollections)
	api.Get("/users/:username", s.GetUserProfile)

	// AI assistant
	api.Get("/ai/health", s.AssistantHealth)
	ai := api.Group("/ai", middleware.AuthRequired)
	if s.config.AIRateLimitSkip {
		ai.Post("/chat", s.AssistantChat)
	} else {
		ai.Post("/chat", middleware.RateLimit(
			s.redis, s.config.AIRateLimit, time.Hour, "ai_chat"), s.AssistantChat)
	}

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Account routes. Specific /me/:resource routes before generic /me.
	me := protected.Group("/me")
	me.Get("/listings", s.GetMyListings)
	me.Get("/upvoted", s.GetMyUpvotedListings)
	me.Post("/avatar", s.UploadAvatar)
	me.Get("/", s.GetMyProfile)
	me.Put("/", s.UpdateMyProfile)
	me.Delete("/", s.DeleteMyAccount)

	// Protected listing routes
	listings := protected.Group("/listings")
	listings.Post("/", middleware.RateLimit(
		s.redis, 10, time.Hour, "create_listing"), s.CreateListing)
	listings.Post("/images", s.UploadListingImage)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	listings.Post("/:id/vote", s.CastVote)
	listings.Delete("/:id/vote", s.RemoveVote)
	listings.Get("/:id/vote", s.GetVoteStatus)
	listings.Get("/:id/collections", s.GetCollectionsForListing)
	listings.Post("/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	// Generic /:id routes (for update, delete)
	listings.Put("/:id", s.UpdateListing)
	listings.Delete("/:id", s.DeleteListing)

	// Comment routes
	comments := protected.Group("/comments")
	comments.Post("/:id/like", s.LikeComment)
	comments.Delete("/:id/like", s.UnlikeComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	// Collection routes
	collections := protected.Group("/collections")
	collections.Post("/", s.CreateCollection)
	collections.Get("/", s.GetMyCollections)
	collections.Post("/:id/listings/:listingId", s.AddListingToCollection)
	collections.Delete("/:id/listings/:listingId", s.RemoveListingFromCollection)
	collections.Get("/:id/listings", s.GetCollectionListings)
	collections.Put("/:id", s.UpdateCollection)
	collections.Delete("/:id", s.DeleteCollection)
	collections.Get("/:id", s.GetCollection)

	// Chat routes
	conversations := protected.Group("/conversations")
	conversations.Post("/", s.GetOrCreateConversation)
	conversations.Get("/", s.GetConversations)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	conversations.Post("/:id/messages", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_chat"), s.SendMessage)
	conversations.Post("/:id/read", s.MarkConversationRead)
	conversations.Delete("/:id", s.LeaveConversation)
	// Generic /:id route must be last
	conversations.Get("/:id", s.GetConversation)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
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

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is considered required for full readiness in this app
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "HouseGig",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "HouseGig API",
		BodyLimit: 20 * 1024 * 1024, // image uploads
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Shutdown the HTTP server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	// Flush any pending trace spans
	if s.traceShutdown != nil {
		if terr := s.traceShutdown(ctx); terr != nil {
			log.Printf("error shutting down tracing: %v", terr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
