package main

import (
	"time"

	"codeberg.org/finboard/server/api/rest/health"
	"codeberg.org/finboard/server/api/rest/onboarding"
	"codeberg.org/finboard/server/api/rest/webhooks"
	"codeberg.org/finboard/server/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	rateLimit, err := middleware.RateLimit(server.config.RateLimit)
	if err != nil {
		return err
	}

	router.Use(middleware.CorrelationID())
	router.Use(CORSMiddleware())

	router.GET("/health", health.Handler(server.db))

	// database webhooks arrive from one producer address and are not retried,
	// so the webhook paths stay outside the per-IP limiter
	webhooks.RegisterRoutes(router, router.Group("/api/v1"), server.services.Provisioner, webhooks.Options{
		WebhookSecret: server.config.WebhookSecret,
		JWTSecret:     server.config.SupabaseJWTSecret,
	})

	v1 := router.Group("/api/v1", rateLimit)

	{
		v1.GET("/ping", health.PingHandler)

		onboarding.RegisterRoutes(v1, onboarding.Stores{
			Profiles:    server.services.Profiles,
			Categories:  server.services.Categories,
			Subscribers: server.services.Subscribers,
			Deliveries:  server.services.Deliveries,
		}, server.config.SupabaseJWTSecret)
	}

	return nil
}

// permissive CORS; preflights are answered with 200 as edge functions do
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:              []string{"authorization", "x-client-info", "apikey", "content-type", "x-webhook-signature", "x-correlation-id"},
		ExposeHeaders:             []string{"X-Correlation-ID"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: 200,
	})
}
