package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/grace-notes/backend/internal/callable"
	"github.com/golang-jwt/jwt/v4"
)

// LocalClaims are the claims of a locally signed development token.
type LocalClaims struct {
	UID string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 tokens signed with a shared secret. It stands in
// for Firebase Auth when running without Firebase credentials.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a JWTVerifier for the given secret
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates tokenString. Tokens must carry exp. The caller
// UID is the uid claim, falling back to sub.
func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*callable.Auth, error) {
	claims := &LocalClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("token has no expiry")
	}

	uid := claims.UID
	if uid == "" {
		uid = claims.Subject
	}
	if uid == "" {
		return nil, errors.New("token has no subject")
	}
	return &callable.Auth{UID: uid, Claims: map[string]any{"iss": claims.Issuer}}, nil
}

// SignLocalToken issues a development token for uid.
func (v *JWTVerifier) SignLocalToken(claims LocalClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
