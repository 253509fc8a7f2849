package webhooks

import (
	"context"

	"codeberg.org/finboard/server/internal/onboarding"
)

// paths the database webhook may be pointed at
const (
	FunctionPath = "/functions/v1/user-onboarding"
	WebhookPath  = "/webhooks/user-onboarding"
)

// largest body accepted from the webhook producer
const maxBodyBytes = 1 << 20

// runs the onboarding workflow for a raw webhook body
type Processor interface {
	ProcessBody(ctx context.Context, source string, body []byte) (*onboarding.Processed, error)
}

type Options struct {
	// hex HMAC-SHA256 secret for X-Webhook-Signature; empty disables the check
	WebhookSecret string

	// Supabase JWT secret; empty disables the service-role check
	JWTSecret string
}

// early-exit body for events that are acknowledged without provisioning
type MessageResponse struct {
	Message string `json:"message"`
}
