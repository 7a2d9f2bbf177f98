// Package notifier sends a push notification to a post's author when a new
// comment is created on the post.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/anonto42/grace-notes/backend/internal/logger"
	"github.com/anonto42/grace-notes/backend/internal/metrics"
	"github.com/anonto42/grace-notes/backend/internal/models"
	"github.com/anonto42/grace-notes/backend/internal/repositories"
)

// Outcome describes how a single trigger invocation ended.
type Outcome string

const (
	OutcomeSent                  Outcome = "sent"
	OutcomePostNotFound          Outcome = "post_not_found"
	OutcomeSelfComment           Outcome = "self_comment"
	OutcomeUserNotFound          Outcome = "user_not_found"
	OutcomeNotificationsDisabled Outcome = "notifications_disabled"
	OutcomeNoToken               Outcome = "no_token"
	OutcomeFailed                Outcome = "failed"
)

// CommentCreated is one comment-creation event. PostID and CommentID come
// from the document path, Comment from the document body.
type CommentCreated struct {
	PostID    string `validate:"required"`
	CommentID string `validate:"required"`
	Comment   models.Comment
}

// Dispatcher reacts to comment-creation events.
//
// Error policy: the trigger path never returns an error. Every lookup or send
// failure is logged and swallowed, and the event is not retried. The platform
// delivers events fire-and-forget, and surfacing an error would only make it
// re-invoke the handler with the same side effect.
//
// Delivery is not idempotent: a duplicated event sends a second notification.
type Dispatcher struct {
	gateway Gateway
}

// NewDispatcher creates a Dispatcher backed by g.
func NewDispatcher(g Gateway) *Dispatcher {
	return &Dispatcher{gateway: g}
}

// HandleCommentCreated runs the notification decision for ev and reports how
// it ended. The Outcome is informational only.
func (d *Dispatcher) HandleCommentCreated(ctx context.Context, ev CommentCreated) (outcome Outcome) {
	log := logger.From(ctx).With(
		slog.String("post_id", ev.PostID),
		slog.String("comment_id", ev.CommentID),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Error sending notification", slog.Any("panic", r))
			outcome = OutcomeFailed
		}
		metrics.RecordDispatch(string(outcome))
	}()

	outcome, err := d.dispatch(ctx, log, ev)
	if err != nil {
		log.Error("Error sending notification", slog.String("error", err.Error()))
		return OutcomeFailed
	}
	return outcome
}

func (d *Dispatcher) dispatch(ctx context.Context, log *slog.Logger, ev CommentCreated) (Outcome, error) {
	post, err := d.gateway.GetPost(ctx, ev.PostID)
	if errors.Is(err, repositories.ErrNotFound) {
		log.Info("Post not found")
		return OutcomePostNotFound, nil
	}
	if err != nil {
		return OutcomeFailed, fmt.Errorf("fetch post: %w", err)
	}

	if ev.Comment.AuthorID == post.AuthorID {
		log.Info("Comment author is the same as post author, skipping notification",
			slog.String("author_id", post.AuthorID))
		return OutcomeSelfComment, nil
	}

	user, err := d.gateway.GetUser(ctx, post.AuthorID)
	if errors.Is(err, repositories.ErrNotFound) {
		log.Info("Post author user not found", slog.String("user_id", post.AuthorID))
		return OutcomeUserNotFound, nil
	}
	if err != nil {
		return OutcomeFailed, fmt.Errorf("fetch user %s: %w", post.AuthorID, err)
	}

	if !user.WantsNotifications() {
		log.Info("Notifications disabled for user", slog.String("user_id", post.AuthorID))
		return OutcomeNotificationsDisabled, nil
	}
	if !user.HasToken() {
		log.Info("No FCM token for user", slog.String("user_id", post.AuthorID))
		return OutcomeNoToken, nil
	}

	msg := BuildCommentMessage(user.FCMToken, ev.PostID, ev.CommentID, post, ev.Comment)

	start := time.Now()
	messageID, err := d.gateway.SendPush(ctx, msg)
	metrics.PushSendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if messaging.IsUnregistered(err) {
			log.Warn("FCM token is no longer registered", slog.String("user_id", post.AuthorID))
		}
		return OutcomeFailed, fmt.Errorf("send push to %s: %w", post.AuthorID, err)
	}

	log.Info("Successfully sent notification", slog.String("message_id", messageID))
	return OutcomeSent, nil
}
