package handlers

import (
	"context"
	"log/slog"

	"github.com/anonto42/grace-notes/backend/internal/callable"
	"github.com/anonto42/grace-notes/backend/internal/logger"
	"github.com/anonto42/grace-notes/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// CleanupFunctionName is the callable name clients invoke
const CleanupFunctionName = "cleanupInvalidTokens"

// TokenCleaner removes stale push tokens
type TokenCleaner interface {
	Cleanup(ctx context.Context, callerUID string) error
}

// PlaceholderCleaner logs the call and cleans nothing.
type PlaceholderCleaner struct{}

func (PlaceholderCleaner) Cleanup(ctx context.Context, callerUID string) error {
	logger.From(ctx).Info("Cleanup function called", slog.String("uid", callerUID))
	return nil
}

// CleanupResult is the callable response body
type CleanupResult struct {
	Success bool `json:"success"`
}

// TokenHandler serves the token cleanup callable
type TokenHandler struct {
	cleaner TokenCleaner
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(cleaner TokenCleaner) *TokenHandler {
	return &TokenHandler{cleaner: cleaner}
}

// RegisterCallableRoutes registers callable routes, each resolving its caller through verifier
func (h *TokenHandler) RegisterCallableRoutes(g *echo.Group, verifier middleware.Verifier) {
	g.POST("/"+CleanupFunctionName,
		callable.Handler(CleanupFunctionName, h.CleanupInvalidTokens),
		middleware.CallableAuth(verifier, CleanupFunctionName))
}

// CleanupInvalidTokens requires an authenticated caller. Any failure past
// the auth check is reported as a generic internal error.
func (h *TokenHandler) CleanupInvalidTokens(ctx context.Context, req callable.Request) (any, error) {
	if req.Auth == nil {
		return nil, callable.NewError(callable.CodeUnauthenticated, "Must be authenticated")
	}

	if err := h.cleaner.Cleanup(ctx, req.Auth.UID); err != nil {
		logger.From(ctx).Error("Error in cleanup function", slog.String("error", err.Error()))
		return nil, callable.ErrInternal
	}
	return CleanupResult{Success: true}, nil
}
