package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/anonto42/grace-notes/backend/internal/handlers"
	"github.com/anonto42/grace-notes/backend/internal/logger"
	"github.com/anonto42/grace-notes/backend/internal/middleware"
	"github.com/anonto42/grace-notes/backend/internal/notifier"
	"github.com/anonto42/grace-notes/backend/internal/repositories"
	"github.com/anonto42/grace-notes/backend/internal/router"
	"github.com/anonto42/grace-notes/backend/internal/validators"
	"github.com/anonto42/grace-notes/backend/pkg/config"
	"github.com/anonto42/grace-notes/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", slog.String("error", err.Error()))
	}
	logger.SetLevel(cfg.LogLevel)

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase", slog.String("error", err.Error()))
	}
	defer firebaseApp.Close()

	// Lookup backends
	var (
		posts repositories.PostRepository
		users repositories.UserRepository
	)
	switch cfg.DataBackend {
	case config.BackendLegacy:
		db, err := config.InitLegacyDB(cfg)
		if err != nil {
			logger.Fatal("Failed to initialize databases", slog.String("error", err.Error()))
		}
		defer db.CloseDB()
		posts = repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase))
		users = repositories.NewPostgresUserRepository(db.Postgres)
	default:
		posts = repositories.NewFirestorePostRepository(firebaseApp.Firestore, cfg.PostsCollection)
		users = repositories.NewFirestoreUserRepository(firebaseApp.Firestore, cfg.UsersCollection)
	}
	logger.Info("Lookup backend selected", slog.String("backend", cfg.DataBackend))

	var sender notifier.Sender = firebaseApp.Messaging
	if cfg.FCMDryRun {
		sender = notifier.SenderFunc(firebaseApp.Messaging.SendDryRun)
		logger.Warn("FCM dry run enabled, notifications are validated but not delivered")
	}

	var verifier middleware.Verifier = middleware.NewFirebaseVerifier(firebaseApp.AuthClient)
	if cfg.AuthMode == config.AuthModeLocal {
		verifier = middleware.NewJWTVerifier(cfg.JWTSecret)
		logger.Warn("Local JWT authentication enabled")
	}

	dispatcher := notifier.NewDispatcher(notifier.NewGateway(posts, users, sender))

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	router.SetupRoutes(e, router.Dependencies{
		Notifier:        dispatcher,
		Verifier:        verifier,
		Cleaner:         handlers.PlaceholderCleaner{},
		PostsCollection: cfg.PostsCollection,
	})

	// Start server
	go func() {
		logger.Info("Starting server", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server exited")
}
