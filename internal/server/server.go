// Package server contains the HTTP handlers and routing for the application.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/filestore"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/pagination"
	"inkwell/internal/repository"
	"inkwell/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
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
	sessions       *session.Store
	pageCache      *cache.PageCache
	files          *filestore.DiskStore
	paginator      *pagination.Paginator
	userRepo       repository.UserRepository
	groupRepo      repository.GroupRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	followRepo     repository.FollowRepository
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)

	files, err := filestore.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload directory setup failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, files), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, files *filestore.DiskStore) *Server {
	server := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		files:       files,
		pageCache:   cache.NewPageCache(redisClient, cfg.CacheTTL()),
		paginator:   pagination.New(cfg.PageSize),
		userRepo:    repository.NewUserRepository(db),
		groupRepo:   repository.NewGroupRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		followRepo:  repository.NewFollowRepository(db),
	}

	server.sessions = session.New(session.Config{
		Expiration:     cfg.SessionTTL(),
		KeyLookup:      "cookie:inkwell_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	// The Prometheus registry is global, so skip it in tests where
	// multiple apps are constructed in one process.
	if cfg.Env != "test" {
		server.promMiddleware = fiberprometheus.New("inkwell")
	}

	return server
}

// NewApp builds the Fiber application with views, middleware and routes.
func (s *Server) NewApp() *fiber.App {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")

	app := fiber.New(fiber.Config{
		AppName:      "Inkwell",
		Views:        engine,
		ViewsLayout:  "layouts/main",
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New(helmet.Config{
		// Inline styles in the base layout.
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'",
	}))

	// Structured logging (after requestid so the ID is available)
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	if s.config.Env != "test" {
		app.Use(limiter.New(limiter.Config{
			Max:        100,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).
					SendString("Too many requests, please try again later.")
			},
		}))
	}

	// Session user resolution for every request
	app.Use(s.LoadCurrentUser)
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Uploaded post images
	if s.files != nil {
		app.Static("/media", s.files.Root())
	}

	// Auth routes
	auth := app.Group("/auth")
	auth.Get("/signup", s.SignupPage)
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "signup"), s.Signup)
	auth.Get("/login", s.LoginPage)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/logout", s.Logout)

	// Public pages
	app.Get("/", s.Index)
	app.Get("/group/:slug", s.GroupPosts)

	// Post creation and editing
	app.Get("/create", s.LoginRequired, s.PostCreatePage)
	app.Post("/create", s.LoginRequired, s.PostCreate)
	app.Get("/posts/:id/edit", s.LoginRequired, s.PostEditPage)
	app.Post("/posts/:id/edit", s.LoginRequired, s.PostEdit)
	app.Post("/posts/:id/comment", s.LoginRequired, s.AddComment)
	app.Get("/posts/:id", s.PostDetail)

	// Follows
	app.Get("/follow", s.LoginRequired, s.FollowIndex)
	app.Get("/profile/:username/follow", s.LoginRequired, s.ProfileFollow)
	app.Get("/profile/:username/unfollow", s.LoginRequired, s.ProfileUnfollow)
	app.Get("/profile/:username", s.Profile)

	// Everything else is a 404 page
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}

// errorHandler renders the 404 and 500 error pages.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fiberErr, ok := err.(*fiber.Error); ok {
		code = fiberErr.Code
	}
	if models.IsNotFound(err) {
		code = fiber.StatusNotFound
	}

	if code == fiber.StatusNotFound {
		if renderErr := s.render(c.Status(code), "errors/404", fiber.Map{
			"Path": c.Path(),
		}); renderErr == nil {
			return nil
		}
		return c.Status(code).SendString("Page not found")
	}

	slog.Error("Request failed",
		"path", c.Path(),
		"method", c.Method(),
		"error", err,
	)
	if renderErr := s.render(c.Status(code), "errors/500", fiber.Map{}); renderErr == nil {
		return nil
	}
	return c.Status(code).SendString("Internal server error")
}

// Start starts the server
func (s *Server) Start() error {
	app := s.NewApp()
	slog.Info("Server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			slog.Error("Error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.Error("Error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			slog.Error("Error closing redis", "error", rerr)
		}
	}

	slog.Info("Server shutdown complete")
	return nil
}
