package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/assetly/assetly-auth/internal/scope"
	"github.com/assetly/assetly-auth/internal/service"
)

const identityKey = "authIdentity"

// Auth validates Authorization header and attaches the caller identity.
type Auth struct {
	AuthService *service.AuthService
}

// RequireAuth ensures the request carries a valid bearer token. Missing,
// malformed and invalid tokens all produce the same response.
func (m *Auth) RequireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authorization header required."})
		return
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Bearer token required."})
		return
	}
	identity, err := m.AuthService.Authenticate(c.Request.Context(), parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Invalid access token."})
		return
	}
	c.Set(identityKey, identity)
	c.Next()
}

// RequireAdmin rejects unprivileged callers. It must run after RequireAuth.
func (m *Auth) RequireAdmin(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok || !identity.Privileged() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "error_description": "Administrator role required."})
		return
	}
	c.Next()
}

// GetIdentity exposes the authenticated identity to handlers.
func GetIdentity(c *gin.Context) (scope.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return scope.Identity{}, false
	}
	identity, ok := value.(scope.Identity)
	return identity, ok
}
