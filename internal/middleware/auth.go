package middleware

import (
	"net/http"
	"strings"

	"github.com/foodgram/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userIDKey   = "user_id"
	usernameKey = "username"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

func unauthorized(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{
		Error:  "unauthenticated",
		Detail: detail,
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// ok is false when the header is present but malformed.
func bearerToken(c *gin.Context) (token string, present, ok bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false, true
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true, false
	}
	return parts[1], true, true
}

func authenticate(c *gin.Context, validator TokenValidator, required bool) {
	token, present, ok := bearerToken(c)
	if !ok {
		unauthorized(c, "invalid authorization header format")
		return
	}
	if !present {
		if required {
			unauthorized(c, "authentication credentials were not provided")
			return
		}
		c.Next()
		return
	}

	claims, err := validator.ValidateToken(token)
	if err != nil {
		unauthorized(c, "invalid or expired token")
		return
	}

	// Store user info in context
	c.Set(userIDKey, claims.UserID)
	c.Set(usernameKey, claims.Username)
	c.Next()
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, validator, true)
	}
}

// OptionalAuth identifies the caller when a token is sent and lets anonymous
// requests through. A bad token is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, validator, false)
	}
}

// UserID returns the authenticated actor, or uuid.Nil for anonymous requests.
func UserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
