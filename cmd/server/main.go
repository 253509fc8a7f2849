package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/finboard/server/internal/config"
	"codeberg.org/finboard/server/internal/logger"
)

// @title Finboard Onboarding API
// @version 1.0
// @description Provisions new Finboard accounts when Supabase reports a confirmed email:
// @description profile row, default transaction categories and a 7-day trial subscription.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Supabase service_role JWT. Format: Bearer {token}

func main() {
	logger.Info("starting onboarding server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	// create server with all dependencies
	srv, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// start realtime listener with cancellable context
	listenerCtx, listenerCancel := context.WithCancel(context.Background())
	listenerDone := make(chan struct{})

	if srv.listener != nil {
		go func() {
			defer close(listenerDone)
			srv.listener.Run(listenerCtx)
		}()
	} else {
		close(listenerDone)
	}

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// stop taking realtime changes first
	listenerCancel()
	<-listenerDone

	// graceful shutdown with 10 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// close redis and rabbitmq connections
	srv.services.Close()

	// close database connection
	srv.db.Close()

	logger.Info("server stopped")
}
