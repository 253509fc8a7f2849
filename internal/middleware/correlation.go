package middleware

import (
	"codeberg.org/finboard/server/internal/logger"
	"codeberg.org/finboard/server/internal/onboarding"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// header carrying the request correlation id in both directions
	HeaderCorrelationID = "X-Correlation-ID"

	// gin context key holding the correlation id
	ContextCorrelationID = "correlation_id"
)

// assigns every request a correlation id, echoes it back and stores a
// request-scoped logger in the request context
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderCorrelationID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Set(ContextCorrelationID, id)
		c.Header(HeaderCorrelationID, id)

		log := logger.With(
			"correlation_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		ctx := logger.WithContext(c.Request.Context(), log)
		ctx = onboarding.WithCorrelationID(ctx, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// returns the correlation id assigned by CorrelationID, if any
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextCorrelationID)
}
