package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/models"
)

const identityKey = "identity"

// Middleware resolves the Authorization header through resolver and stores
// the resulting identity in the gin context. Requests without a resolvable
// identity are rejected with 401 before any handler runs.
func Middleware(db *gorm.DB, resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		identity, err := resolver.Resolve(c.Request.Context(), db, strings.TrimPrefix(authHeader, prefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by Middleware.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

// RequireAdmin aborts with 403 unless the resolved identity holds the admin
// role. Must run after Middleware.
func RequireAdmin(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok || identity.Role != models.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}
	c.Next()
}
