package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/anonto42/grace-notes/backend/internal/events"
	"github.com/anonto42/grace-notes/backend/internal/logger"
	"github.com/anonto42/grace-notes/backend/internal/notifier"
	"github.com/labstack/echo/v4"
)

// CommentNotifier handles one comment-creation event
type CommentNotifier interface {
	HandleCommentCreated(ctx context.Context, ev notifier.CommentCreated) notifier.Outcome
}

// TriggerHandler receives Firestore document events pushed by the platform
type TriggerHandler struct {
	notifier CommentNotifier
	pattern  string
}

// NewTriggerHandler creates a TriggerHandler for comments nested under postsCollection
func NewTriggerHandler(n CommentNotifier, postsCollection string) *TriggerHandler {
	return &TriggerHandler{
		notifier: n,
		pattern:  events.CommentPathPattern(postsCollection),
	}
}

// RegisterTriggerRoutes registers event trigger routes
func (h *TriggerHandler) RegisterTriggerRoutes(g *echo.Group) {
	g.POST("/comments", h.OnCommentCreated)
}

// OnCommentCreated runs the comment notification for a created comment
// document. It always acknowledges with 204: triggers are fire-and-forget and
// a non-2xx answer would only make the platform redeliver the event.
func (h *TriggerHandler) OnCommentCreated(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.From(ctx)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		log.Warn("Dropping unreadable comment event", slog.String("error", err.Error()))
		return c.NoContent(http.StatusNoContent)
	}
	docEvent, err := events.DecodeRequest(c.Request().Header, body)
	if err != nil {
		log.Warn("Dropping undecodable comment event", slog.String("error", err.Error()))
		return c.NoContent(http.StatusNoContent)
	}

	ev, err := events.DecodeCommentCreated(docEvent, h.pattern)
	if err != nil {
		log.Warn("Dropping comment event", slog.String("error", err.Error()))
		return c.NoContent(http.StatusNoContent)
	}
	if err := c.Validate(&ev); err != nil {
		log.Warn("Dropping invalid comment event", slog.String("error", err.Error()))
		return c.NoContent(http.StatusNoContent)
	}

	outcome := h.notifier.HandleCommentCreated(ctx, ev)
	c.Response().Header().Set("X-Dispatch-Outcome", string(outcome))
	return c.NoContent(http.StatusNoContent)
}
