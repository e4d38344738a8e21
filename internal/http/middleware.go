package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"weather-backend/internal/domain"
)

const userContextKey = "authenticated_user"

// requireAuth gates a route behind a valid bearer token. Every failure mode
// (missing header, malformed token, bad signature, expiry, deleted user)
// yields the same 401 body; the cause is only logged.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := h.auth.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if h.logger != nil {
				h.logger.Debugf("token rejected: %v", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// currentUser returns the user resolved by requireAuth. Only valid on routes
// registered behind it.
func currentUser(c *gin.Context) *domain.User {
	user, _ := c.Get(userContextKey)
	return user.(*domain.User)
}
