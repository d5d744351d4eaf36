package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"folio/internal/models"
)

// RequireRoles lets through only principals holding one of roles. It reads
// the principal stored by Authenticate, so it has to be mounted after it.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := CurrentUser(c)
		switch {
		case principal == nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		case !slices.Contains(roles, principal.Role):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		default:
			c.Next()
		}
	}
}
