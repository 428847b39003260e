package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gomall/internal/config"
	"gomall/internal/models"
	"gomall/internal/repository"
	"gomall/internal/security"
)

// Auth verifies the bearer token and loads the current user. A 401 here is
// what drives the client's forced-logout side channel, so every rejection in
// this chain must carry that status.
func Auth(cfg *config.AppConfig, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "missing token")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseSessionToken(tokenStr, cfg.Security.JWTSecret)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abortUnauthorized(c, "user not found")
			return
		}

		if user.Status != models.UserStatusActive {
			abortUnauthorized(c, "account disabled")
			return
		}

		c.Set("current_user", user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}

// CurrentUser returns the user the Auth middleware attached to the context.
func CurrentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("current_user")
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}
