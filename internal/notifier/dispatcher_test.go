package notifier_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/anonto42/grace-notes/backend/internal/logger"
	"github.com/anonto42/grace-notes/backend/internal/metrics"
	"github.com/anonto42/grace-notes/backend/internal/models"
	"github.com/anonto42/grace-notes/backend/internal/notifier"
	"github.com/anonto42/grace-notes/backend/internal/repositories"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if p := args.Get(0); p != nil {
		return p.(*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) SendPush(ctx context.Context, msg *messaging.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func boolPtr(b bool) *bool { return &b }

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger.Default()
	logger.SetLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { logger.SetLogger(prev) })
	return &buf
}

func helloPost() *models.Post {
	return &models.Post{ID: "p1", Title: "Hello", AuthorID: "u1", Type: models.PostTypeGeneral}
}

func bobComment() notifier.CommentCreated {
	return notifier.CommentCreated{
		PostID:    "p1",
		CommentID: "c1",
		Comment: models.Comment{
			PostID:     "p1",
			PostTitle:  "Hello",
			AuthorID:   "u2",
			AuthorName: "Bob",
			Content:    "Amen",
		},
	}
}

func TestDispatcher_SendsToPostAuthor(t *testing.T) {
	captureLogs(t)
	gw := new(mockGateway)
	gw.On("GetPost", mock.Anything, "p1").Return(helloPost(), nil)
	gw.On("GetUser", mock.Anything, "u1").Return(&models.User{ID: "u1", FCMToken: "tok", NotificationsEnabled: boolPtr(true)}, nil)
	gw.On("SendPush", mock.Anything, mock.MatchedBy(func(m *messaging.Message) bool {
		return m.Token == "tok" &&
			m.Data["postId"] == "p1" &&
			m.Data["commentId"] == "c1" &&
			m.Data["type"] == "comment"
	})).Return("projects/x/messages/1", nil).Once()

	before := testutil.ToFloat64(metrics.NotificationsDispatched.WithLabelValues("sent"))

	outcome := notifier.NewDispatcher(gw).HandleCommentCreated(context.Background(), bobComment())

	assert.Equal(t, notifier.OutcomeSent, outcome)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotificationsDispatched.WithLabelValues("sent")))
	gw.AssertExpectations(t)
}

func TestDispatcher_SelfCommentIsSkipped(t *testing.T) {
	logs := captureLogs(t)
	gw := new(mockGateway)
	gw.On("GetPost", mock.Anything, "p1").Return(helloPost(), nil)

	ev := bobComment()
	ev.Comment.AuthorID = "u1"

	outcome := notifier.NewDispatcher(gw).HandleCommentCreated(context.Background(), ev)

	assert.Equal(t, notifier.OutcomeSelfComment, outcome)
	gw.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "SendPush", mock.Anything, mock.Anything)
	assert.Contains(t, logs.String(), "Comment author is the same as post author")
}

func TestDispatcher_MissingPost(t *testing.T) {
	logs := captureLogs(t)
	gw := new(mockGateway)
	gw.On("GetPost", mock.Anything, "p1").Return(nil, repositories.ErrNotFound)

	outcome := notifier.NewDispatcher(gw).HandleCommentCreated(context.Background(), bobComment())

	assert.Equal(t, notifier.OutcomePostNotFound, outcome)
	gw.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "SendPush", mock.Anything, mock.Anything)
	assert.Contains(t, logs.String(), "Post not found")
	assert.NotContains(t, logs.String(), `"level":"ERROR"`)
}

func TestDispatcher_SuppressedByRecipient(t *testing.T) {
	tests := []struct {
		name    string
		user    *models.User
		userErr error
		want    notifier.Outcome
	}{
		{
			name:    "user missing",
			userErr: repositories.ErrNotFound,
			want:    notifier.OutcomeUserNotFound,
		},
		{
			name: "notifications disabled with token",
			user: &models.User{ID: "u1", FCMToken: "tok", NotificationsEnabled: boolPtr(false)},
			want: notifier.OutcomeNotificationsDisabled,
		},
		{
			name: "no token",
			user: &models.User{ID: "u1", NotificationsEnabled: boolPtr(true)},
			want: notifier.OutcomeNoToken,
		},
		{
			name: "no token and no preference",
			user: &models.User{ID: "u1"},
			want: notifier.OutcomeNoToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureLogs(t)
			gw := new(mockGateway)
			gw.On("GetPost", mock.Anything, "p1").Return(helloPost(), nil)
			if tt.user != nil {
				gw.On("GetUser", mock.Anything, "u1").Return(tt.user, nil)
			} else {
				gw.On("GetUser", mock.Anything, "u1").Return(nil, tt.userErr)
			}

			outcome := notifier.NewDispatcher(gw).HandleCommentCreated(context.Background(), bobComment())

			assert.Equal(t, tt.want, outcome)
			gw.AssertNotCalled(t, "SendPush", mock.Anything, mock.Anything)
		})
	}
}

func TestDispatcher_MissingPreferenceDefaultsToEnabled(t *testing.T) {
	captureLogs(t)
	gw := new(mockGateway)
	gw.On("GetPost", mock.Anything, "p1").Return(helloPost(), nil)
	gw.On("GetUser", mock.Anything, "u1").Return(&models.User{ID: "u1", FCMToken: "tok"}, nil)
	gw.On("SendPush", mock.Anything, mock.Anything).Return("id", nil).Once()

	outcome := notifier.NewDispatcher(gw).HandleCommentCreated(context.Background(), bobComment())

	assert.Equal(t, notifier.OutcomeSent, outcome)
	gw.AssertExpectations(t)
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	t.Run("post lookup fails", func(t *testing.T) {
		logs := captureLogs(t)
		gw := new(mockGateway)
		gw.On("GetPost", mock.Anything, "p1").Return(nil, errors.New("deadline exceeded"))

		outcome := notifier.NewDispatcher(gw).HandleCommentCreated(context.Background(), bobComment())

		assert.Equal(t, notifier.OutcomeFailed, outcome)
		assert.Contains(t, logs.String(), "Error sending notification")
		assert.Contains(t, logs.String(), "deadline exceeded")
	})

	t.Run("user lookup fails", func(t *testing.T) {
		captureLogs(t)
		gw := new(mockGateway)
		gw.On("GetPost", mock.Anything, "p1").Return(helloPost(), nil)
		gw.On("GetUser", mock.Anything, "u1").Return(nil, errors.New("unavailable"))

		outcome := notifier.NewDispatcher(gw).HandleCommentCreated(context.Background(), bobComment())

		assert.Equal(t, notifier.OutcomeFailed, outcome)
		gw.AssertNotCalled(t, "SendPush", mock.Anything, mock.Anything)
	})

	t.Run("send fails", func(t *testing.T) {
		logs := captureLogs(t)
		gw := new(mockGateway)
		gw.On("GetPost", mock.Anything, "p1").Return(helloPost(), nil)
		gw.On("GetUser", mock.Anything, "u1").Return(&models.User{ID: "u1", FCMToken: "tok"}, nil)
		gw.On("SendPush", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded")).Once()

		outcome := notifier.NewDispatcher(gw).HandleCommentCreated(context.Background(), bobComment())

		assert.Equal(t, notifier.OutcomeFailed, outcome)
		assert.Contains(t, logs.String(), "quota exceeded")
		gw.AssertExpectations(t)
	})

	t.Run("panic in gateway", func(t *testing.T) {
		captureLogs(t)
		gw := new(mockGateway)
		gw.On("GetPost", mock.Anything, "p1").Panic("nil client")

		var outcome notifier.Outcome
		assert.NotPanics(t, func() {
			outcome = notifier.NewDispatcher(gw).HandleCommentCreated(context.Background(), bobComment())
		})
		assert.Equal(t, notifier.OutcomeFailed, outcome)
	})
}

func TestDispatcher_UsesContextLogger(t *testing.T) {
	captureLogs(t)
	var buf bytes.Buffer
	ctx := logger.Into(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	gw := new(mockGateway)
	gw.On("GetPost", mock.Anything, "p1").Return(nil, repositories.ErrNotFound)

	notifier.NewDispatcher(gw).HandleCommentCreated(ctx, bobComment())

	assert.Contains(t, buf.String(), `"post_id":"p1"`)
	assert.Contains(t, buf.String(), `"comment_id":"c1"`)
}
