package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hrtools/rptracker/internal/handler"
	"github.com/hrtools/rptracker/pkg/auth"
)

const ContextOwnerEmail = "owner_email"

type AuthMiddleware struct {
	tokens auth.TokenService
}

func NewAuthMiddleware(tokens auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth validates the bearer token and places the owner's email in the
// request context for the handlers downstream.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing bearer token"))
			return
		}

		claims, err := m.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			return
		}

		c.Set(ContextOwnerEmail, claims.Subject)
		c.Next()
	}
}

// OwnerEmail returns the authenticated owner's email set by RequireAuth.
func OwnerEmail(c *gin.Context) string {
	return c.GetString(ContextOwnerEmail)
}
