// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moodayhq/mooday-go/internal/domain/user"
	"github.com/moodayhq/mooday-go/internal/infrastructure/security"
	"github.com/moodayhq/mooday-go/pkg/config"
)

const (
	identityContextKey = "identity"
	tokenContextKey    = "sessionToken"
)

// RequireSession validates the Bearer token and stashes the identity on
// the request context. Requests without a valid token get 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		claims, err := security.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "), config.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		identity, sessionToken := security.IdentityFromClaims(claims)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(identityContextKey, identity)
		c.Set(tokenContextKey, sessionToken)
		c.Next()
	}
}

// GetIdentity returns the identity placed by RequireSession.
func GetIdentity(c *gin.Context) (*user.Identity, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*user.Identity)
	return identity, ok
}

// GetSessionToken returns the remote session token for the request.
func GetSessionToken(c *gin.Context) string {
	return c.GetString(tokenContextKey)
}
