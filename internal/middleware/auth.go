package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/startrack/intake-backend/internal/services"
)

const identityKey = "identity"

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware validates JWT tokens against the current account
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			return
		}

		claims, err := authService.Authenticate(c.Request.Context(), token)
		if errors.Is(err, services.ErrAccountDisabled) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is not active"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware records the identity of a valid token but lets
// anonymous requests through
func OptionalAuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := authService.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(identityKey, claims)
			}
		}
		c.Next()
	}
}

// RequireRole ensures the identity holds one of the roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !identity.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the claims of the authenticated caller, if any
func CurrentIdentity(c *gin.Context) (*services.Claims, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}

// CurrentEmail returns the caller's email or "" for anonymous requests
func CurrentEmail(c *gin.Context) string {
	if identity, ok := CurrentIdentity(c); ok {
		return identity.Email
	}
	return ""
}
