package main

import (
	"context"
	"fmt"

	"codeberg.org/finboard/server/internal/config"
	"codeberg.org/finboard/server/internal/logger"
	"codeberg.org/finboard/server/internal/realtime"
	"codeberg.org/finboard/server/internal/services"
	"codeberg.org/finboard/server/internal/storage"
	"github.com/gin-gonic/gin"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	db, err := storage.Connect(ctx, cfg.SupabaseConnString)
	if err != nil {
		return nil, err
	}

	svc := services.Initialize(cfg, db)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		db:       db,
		config:   cfg,
		services: svc,
		router:   router,
	}

	if cfg.RealtimeURL != "" {
		server.listener = realtime.NewListener(realtime.ListenerConfig{
			URL:    cfg.RealtimeURL,
			APIKey: cfg.RealtimeAPIKey,
			Table:  cfg.RealtimeTable,
		}, realtime.NewDialer(cfg.ForceSecureWS), svc.Provisioner)

		logger.Info("realtime listener configured", "table", cfg.RealtimeTable, "force_secure", cfg.ForceSecureWS)
	}

	if err := RegisterRoutes(router, server); err != nil {
		svc.Close()
		db.Close()
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return server, nil
}
