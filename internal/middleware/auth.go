package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vocabuilder/api/internal/auth"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
	"go.uber.org/zap"
)

// UserLoader resolves the user named by a token.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// AuthMiddleware requires a valid bearer token for an existing, active user
// and stores the request's auth.Session.
func AuthMiddleware(users UserLoader, jwtSecret string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			abort(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		claims, err := auth.ValidateAccessToken(parts[1], jwtSecret)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Token is not valid")
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Error("failed to load token user", zap.String("user_id", claims.UserID), zap.Error(err))
			}
			abort(c, http.StatusUnauthorized, "Token is not valid")
			return
		}
		if !user.IsActive {
			abort(c, http.StatusUnauthorized, "Account is deactivated")
			return
		}

		auth.SetSession(c, &auth.Session{User: user})
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := auth.CurrentSession(c)
		if !ok || !session.IsAdmin() {
			abort(c, http.StatusForbidden, "Access denied, admin only")
			return
		}
		c.Next()
	}
}
