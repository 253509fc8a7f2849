package onboarding

import (
	"codeberg.org/finboard/server/internal/auth"
	"codeberg.org/finboard/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// the status route is only mounted when a JWT secret is configured
func RegisterRoutes(rg *gin.RouterGroup, stores Stores, jwtSecret string) {
	if jwtSecret == "" {
		logger.Warn("SUPABASE_JWT_SECRET not set, onboarding status endpoint disabled")
		return
	}

	onboarding := rg.Group("/onboarding")
	onboarding.Use(auth.ServiceRoleMiddleware(jwtSecret))

	onboarding.GET("/:userId", GetStatus(stores))
}
