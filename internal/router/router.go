package router

import (
	"github.com/anonto42/grace-notes/backend/internal/handlers"
	"github.com/anonto42/grace-notes/backend/internal/logger"
	"github.com/anonto42/grace-notes/backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the collaborators the routes are wired to
type Dependencies struct {
	Notifier        handlers.CommentNotifier
	Verifier        middleware.Verifier
	Cleaner         handlers.TokenCleaner
	PostsCollection string
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.ContextLogger())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Metrics())
	e.Use(eMiddleware.CORS())
	logger.Debug("Global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Event triggers (delivered by the platform, always acknowledged) ---
	triggerHandler := handlers.NewTriggerHandler(deps.Notifier, deps.PostsCollection)
	triggerHandler.RegisterTriggerRoutes(e.Group("/triggers"))
	logger.Debug("Trigger routes configured")

	// --- Callable functions (caller identity resolved per request) ---
	tokenHandler := handlers.NewTokenHandler(deps.Cleaner)
	tokenHandler.RegisterCallableRoutes(e.Group("/callable"), deps.Verifier)
	logger.Debug("Callable routes configured")
}
