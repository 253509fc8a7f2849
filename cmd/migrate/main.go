package main

import (
	"errors"
	"fmt"
	"os"

	"codeberg.org/finboard/server/internal/config"
	"codeberg.org/finboard/server/internal/logger"
	"codeberg.org/finboard/server/internal/migrations"
	"github.com/golang-migrate/migrate/v4"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	m, err := migrations.New(cfg.SupabaseConnString)
	if err != nil {
		logger.FatalErr(err, "failed to initialize migrations")
	}

	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			logger.Warn("failed to close migration resources", "source_error", sourceErr, "database_error", dbErr)
		}
	}()

	switch command {
	case "up":
		err := m.Up()

		switch {
		case errors.Is(err, migrate.ErrNoChange):
			logger.Info("no changes: database is up to date")
		case err != nil:
			logger.FatalErr(err, "failed to apply migrations")
		default:
			logger.Info("migrations applied")
		}

	case "down":
		// roll back the most recent migration only
		if err := m.Steps(-1); err != nil {
			logger.FatalErr(err, "failed to roll back migration")
		}

		logger.Info("rolled back last migration")

	case "version":
		version, dirty, err := m.Version()

		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			logger.Info("no migrations applied yet")
		case err != nil:
			logger.FatalErr(err, "failed to read migration version")
		default:
			logger.Info("current migration version", "version", version, "dirty", dirty)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: migrate <command>")
	fmt.Println("Commands:")
	fmt.Println("  up       - apply all pending migrations")
	fmt.Println("  down     - roll back the last migration")
	fmt.Println("  version  - print the current migration version")
}
