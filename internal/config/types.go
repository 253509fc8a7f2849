package config

import "time"

// trial grant behavior when a confirmation event is replayed
type TrialPolicy string

const (
	// every delivery resets the trial window to now + 7 days
	TrialPolicyRefresh TrialPolicy = "refresh"

	// the first grant wins; replays keep the stored window
	TrialPolicyAnchor TrialPolicy = "anchor"
)

type Config struct {
	SupabaseConnString string
	SupabaseJWTSecret  string
	RedisURL           string
	RabbitMQURL        string
	WebhookSecret      string
	RealtimeURL        string
	RealtimeAPIKey     string
	RealtimeTable      string
	ForceSecureWS      bool
	TrialPolicy        TrialPolicy
	RateLimit          string
	LockTTL            time.Duration
	Port               string
	Environment        string
}

// flags for the provision CLI
type ProvisionFlags struct {
	UserID           string
	Email            string
	Name             string
	OrganizationName string
	Telefone         string
	DryRun           bool
}
