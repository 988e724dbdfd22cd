package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/domain/auth"
	"github.com/Patilgrv/student-management-api/internal/app/models"
)

const identityKey = "identity"

// Authenticate extracts and verifies the bearer token, attaching the decoded
// identity to the request context. Verification failures all map to the same
// 401 message so callers cannot probe the sub-reason.
func Authenticate(tokens *auth.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		identity, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Warn("Token verification failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// Authorize gates a route on a fixed role allow-list. Runs after
// Authenticate.
func Authorize(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		for _, role := range allowedRoles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// GetIdentity returns the authenticated identity attached by Authenticate.
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}
