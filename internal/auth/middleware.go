package auth

import (
	"strings"

	"codeberg.org/finboard/server/internal/errors"
	"codeberg.org/finboard/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// requires a service-role bearer token. an empty secret disables the check.
func ServiceRoleMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			errors.Unauthorized(c, "authorization header required")
			return
		}

		claims, err := ValidateServiceToken(token, secret)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("rejected service token", "error", err)
			errors.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set("auth_role", claims.Role)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
