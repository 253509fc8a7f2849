package main

import (
	"codeberg.org/finboard/server/internal/config"
	"codeberg.org/finboard/server/internal/realtime"
	"codeberg.org/finboard/server/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// holds all dependencies and state for the API server
type Server struct {
	db       *pgxpool.Pool
	config   *config.Config
	services *services.Services
	listener *realtime.Listener
	router   *gin.Engine
}
