// Package bearer guards routes with the opaque token issued at signup.
package bearer

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/feature/auth/domain/entity"
	"marketplace_backend/internal/shared/apperr"
)

const ContextUserID = "userID"

// TokenResolver looks up the user holding a token.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*entity.User, error)
}

// AuthRequired rejects requests without a known bearer token with 401 {"message":"Unauthorized"}.
// On success the user id is stored under ContextUserID.
func AuthRequired(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			abortUnauthorized(c)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

		user, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindServer {
				slog.Error("token lookup failed", "error", err, "remote_addr", c.ClientIP())
				c.AbortWithStatusJSON(http.StatusInternalServerError, api.MessageResponse{Message: err.Error()})
				return
			}
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" on unguarded routes.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.MessageResponse{Message: "Unauthorized"})
}
