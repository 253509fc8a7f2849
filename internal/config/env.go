package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort          = "8080"
	defaultRateLimit     = "300-M"
	defaultLockTTL       = 30 * time.Second
	defaultRealtimeTable = "users"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	supabaseConnStr := os.Getenv("SUPABASE_CONNECTION_STRING")
	if supabaseConnStr == "" {
		return nil, fmt.Errorf("SUPABASE_CONNECTION_STRING environment variable is required")
	}

	policy, err := parseTrialPolicy(os.Getenv("TRIAL_POLICY"))
	if err != nil {
		return nil, err
	}

	forceSecure, err := parseBool("FORCE_SECURE_WEBSOCKET", false)
	if err != nil {
		return nil, err
	}

	lockTTL := defaultLockTTL
	if raw := os.Getenv("ONBOARDING_LOCK_TTL"); raw != "" {
		lockTTL, err = time.ParseDuration(raw)
		if err != nil || lockTTL <= 0 {
			return nil, fmt.Errorf("ONBOARDING_LOCK_TTL must be a positive duration, got %q", raw)
		}
	}

	return &Config{
		SupabaseConnString: supabaseConnStr,
		SupabaseJWTSecret:  os.Getenv("SUPABASE_JWT_SECRET"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),
		WebhookSecret:      os.Getenv("WEBHOOK_SECRET"),
		RealtimeURL:        os.Getenv("REALTIME_URL"),
		RealtimeAPIKey:     os.Getenv("REALTIME_API_KEY"),
		RealtimeTable:      getEnv("REALTIME_TABLE", defaultRealtimeTable),
		ForceSecureWS:      forceSecure,
		TrialPolicy:        policy,
		RateLimit:          getEnv("RATE_LIMIT", defaultRateLimit),
		LockTTL:            lockTTL,
		Port:               getEnv("PORT", defaultPort),
		Environment:        getEnv("ENVIRONMENT", "development"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseTrialPolicy(raw string) (TrialPolicy, error) {
	switch TrialPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", TrialPolicyRefresh:
		return TrialPolicyRefresh, nil
	case TrialPolicyAnchor:
		return TrialPolicyAnchor, nil
	default:
		return "", fmt.Errorf("TRIAL_POLICY must be %q or %q, got %q", TrialPolicyRefresh, TrialPolicyAnchor, raw)
	}
}

func parseBool(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, raw)
	}

	return v, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
