package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/grace-notes/backend/internal/handlers"
	"github.com/anonto42/grace-notes/backend/internal/middleware"
	"github.com/anonto42/grace-notes/backend/internal/notifier"
	"github.com/anonto42/grace-notes/backend/internal/router"
	"github.com/anonto42/grace-notes/backend/internal/validators"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	events []notifier.CommentCreated
}

func (r *recordingNotifier) HandleCommentCreated(_ context.Context, ev notifier.CommentCreated) notifier.Outcome {
	r.events = append(r.events, ev)
	return notifier.OutcomeSent
}

func newServer(t *testing.T) (*echo.Echo, *recordingNotifier, *middleware.JWTVerifier) {
	t.Helper()
	rec := &recordingNotifier{}
	verifier := middleware.NewJWTVerifier("router-test")

	e := echo.New()
	e.Validator = validators.NewValidator()
	router.SetupMiddleware(e)
	router.SetupRoutes(e, router.Dependencies{
		Notifier:        rec,
		Verifier:        verifier,
		Cleaner:         handlers.PlaceholderCleaner{},
		PostsCollection: "community_posts",
	})
	return e, rec, verifier
}

func do(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Health(t *testing.T) {
	e, _, _ := newServer(t)

	rec := do(e, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestRoutes_Metrics(t *testing.T) {
	e, _, _ := newServer(t)
	do(e, http.MethodGet, "/health", "", nil)

	rec := do(e, http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "grace_notes_http_requests_total")
}

func TestRoutes_CommentTrigger(t *testing.T) {
	e, notif, _ := newServer(t)
	body := `{"context":{"eventType":"providers/cloud.firestore/eventType/document.create"},"data":{"oldValue":{},` +
		`"value":{"name":"projects/x/databases/(default)/documents/community_posts/p1/comments/c9",` +
		`"fields":{"authorId":{"stringValue":"u2"},"authorName":{"stringValue":"Bob"}}}}}`

	rec := do(e, http.MethodPost, "/triggers/comments", body, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, notif.events, 1)
	assert.Equal(t, "p1", notif.events[0].PostID)
	assert.Equal(t, "c9", notif.events[0].CommentID)
	assert.Equal(t, "u2", notif.events[0].Comment.AuthorID)
}

func TestRoutes_CleanupCallable(t *testing.T) {
	e, _, verifier := newServer(t)

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/callable/cleanupInvalidTokens", `{"data":{}}`, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"UNAUTHENTICATED"`)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/callable/cleanupInvalidTokens", `{"data":{}}`,
			map[string]string{echo.HeaderAuthorization: "Bearer nope"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated caller succeeds", func(t *testing.T) {
		token, err := verifier.SignLocalToken(middleware.LocalClaims{
			UID:              "u1",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		})
		require.NoError(t, err)

		rec := do(e, http.MethodPost, "/callable/cleanupInvalidTokens", `{"data":{}}`,
			map[string]string{echo.HeaderAuthorization: "Bearer " + token})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"result":{"success":true}}`, rec.Body.String())
	})
}
