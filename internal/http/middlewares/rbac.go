package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAccountType gates a route group on the account type claim.
func (m *AuthMiddleware) RequireAccountType(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountType, ok := AccountTypeFromContext(c)

		if !ok || accountType == "" {
			abortUnauthorized(c, "Missing identity context")
			return
		}
		if accountType != required {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": required + " role required",
			})
			return
		}
		c.Next()
	}
}
