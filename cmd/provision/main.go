package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"codeberg.org/finboard/server/finboard/deliveries"
	"codeberg.org/finboard/server/internal/config"
	"codeberg.org/finboard/server/internal/logger"
	"codeberg.org/finboard/server/internal/onboarding"
	"codeberg.org/finboard/server/internal/services"
	"codeberg.org/finboard/server/internal/storage"
	"github.com/google/uuid"
)

// replays onboarding for one user, e.g. after a lost webhook delivery
func main() {
	flags, err := config.ParseProvisionFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: provision -id <user id> -email <email> [-name n] [-org o] [-telefone t] [-dry-run]")
		logger.Fatal("invalid flags", "error", err)
	}

	user := onboarding.NormalizeUser(flags.UserID, flags.Email, onboarding.UserMetadata{
		Name:             flags.Name,
		OrganizationName: flags.OrganizationName,
		Telefone:         flags.Telefone,
	})

	if flags.DryRun {
		printJSON(user)
		return
	}

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := storage.Connect(ctx, cfg.SupabaseConnString)
	if err != nil {
		logger.FatalErr(err, "failed to connect to database")
	}

	defer db.Close()

	svc := services.Initialize(cfg, db)
	defer svc.Close()

	correlationID := uuid.NewString()
	log := logger.With("correlation_id", correlationID, "source", deliveries.SourceCLI)

	ctx = logger.WithContext(ctx, log)
	ctx = onboarding.WithCorrelationID(ctx, correlationID)

	// build the same envelope the webhook carries so the run is gated and recorded identically
	event, err := onboarding.UserUpdateEvent(onboarding.UserRecord{
		ID:               user.ID,
		Email:            user.Email,
		EmailConfirmedAt: onboarding.Timestamp{Time: time.Now().UTC(), Valid: true},
		Metadata: onboarding.UserMetadata{
			Name:             user.Name,
			OrganizationName: user.OrganizationName,
			Telefone:         user.Telefone,
		},
	})
	if err != nil {
		logger.FatalErr(err, "failed to build onboarding event", "user_id", user.ID)
	}

	processed, err := svc.Provisioner.Process(ctx, deliveries.SourceCLI, event)
	if err != nil {
		logger.FatalErr(err, "provisioning failed", "user_id", user.ID)
	}

	if processed.Skipped != nil {
		log.Warn("provisioning skipped", "reason", processed.Skipped.Reason)
		printJSON(map[string]string{"message": processed.Skipped.Message()})
		return
	}

	printJSON(processed.Result.Response(nil))

	if !processed.Result.Complete() {
		svc.Close()
		db.Close()
		os.Exit(2)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		logger.FatalErr(err, "failed to encode output")
	}
}
