package middleware

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/grace-notes/backend/internal/callable"
	"github.com/labstack/echo/v4"
)

// Verifier turns a bearer token into a verified caller.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*callable.Auth, error)
}

// FirebaseVerifier verifies Firebase ID tokens
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier creates a FirebaseVerifier backed by the Firebase auth client
func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// Verify checks the ID token signature, audience and expiry
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*callable.Auth, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &callable.Auth{UID: token.UID, Claims: token.Claims}, nil
}

// CallableAuth resolves the caller of a callable function. Authentication is
// optional at this layer: a request without an Authorization header reaches
// the function anonymously and the function decides whether that is allowed.
// A header that is present but malformed or invalid is rejected and counted
// against function.
func CallableAuth(verifier Verifier, function string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
				return callable.WriteError(c, function,
					callable.NewError(callable.CodeUnauthenticated, "Authorization header must be in Bearer format"))
			}

			caller, err := verifier.Verify(c.Request().Context(), tokenParts[1])
			if err != nil {
				return callable.WriteError(c, function,
					callable.NewError(callable.CodeUnauthenticated, "Invalid or expired ID token"))
			}

			c.Set(callable.AuthContextKey, caller)
			return next(c)
		}
	}
}
