package deliveries

import (
	"encoding/json"
	"time"

	"codeberg.org/finboard/server/internal/storage"
)

// where an onboarding request came from
const (
	SourceWebhook  = "webhook"
	SourceRealtime = "realtime"
	SourceCLI      = "cli"
)

// how the delivery ended
const (
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// handles delivery ledger database operations
type Repository struct {
	db storage.DB
}

// one processed onboarding event, kept for operators
type Delivery struct {
	CorrelationID string          `json:"correlation_id"`
	Source        string          `json:"source"`
	UserID        string          `json:"user_id,omitempty"`
	Status        string          `json:"status"`
	Reason        string          `json:"reason,omitempty"`
	Outcome       json.RawMessage `json:"outcome,omitempty"`
	Error         string          `json:"error,omitempty"`
	ReceivedAt    time.Time       `json:"received_at"`
}
