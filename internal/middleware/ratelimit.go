package middleware

import (
	"fmt"

	"codeberg.org/finboard/server/internal/errors"
	"codeberg.org/finboard/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// per-client-IP rate limiting. rate uses the limiter format, e.g. "300-M".
// an empty rate disables limiting.
func RateLimit(rate string) (gin.HandlerFunc, error) {
	if rate == "" {
		return func(c *gin.Context) { c.Next() }, nil
	}

	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rate, err)
	}

	instance := limiter.New(memory.NewStore(), parsed)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.FromContext(c.Request.Context()).Warn("rate limit reached", "ip", c.ClientIP())
			errors.TooManyRequests(c, "")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// a limiter failure should not reject webhook deliveries
			logger.FromContext(c.Request.Context()).Warn("rate limiter failed", "error", err)
			c.Next()
		}),
	), nil
}
