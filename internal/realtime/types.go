package realtime

import (
	"context"
	"encoding/json"
	"time"

	"codeberg.org/finboard/server/internal/onboarding"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// phoenix channel events used by Supabase Realtime
	eventJoin            = "phx_join"
	eventReply           = "phx_reply"
	eventHeartbeat       = "heartbeat"
	eventPostgresChanges = "postgres_changes"
	eventClose           = "phx_close"
	eventError           = "phx_error"

	topicPhoenix = "phoenix"

	// send heartbeats this often
	heartbeatPeriod = 30 * time.Second

	// a session with no frames for this long is considered dead
	readWait = 2 * heartbeatPeriod

	// time allowed to write a frame
	writeWait = 10 * time.Second

	// minimum spacing between reconnect attempts
	reconnectInterval = 5 * time.Second

	// time allowed for one change to be provisioned
	processTimeout = 60 * time.Second

	defaultSchema = "auth"
)

// consumes decoded change events, normally the onboarding provisioner
type Processor interface {
	Process(ctx context.Context, source string, event *onboarding.Event) (*onboarding.Processed, error)
}

// phoenix wire frame
type message struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     *string         `json:"ref"`
}

type joinPayload struct {
	Config joinConfig `json:"config"`
}

type joinConfig struct {
	PostgresChanges []changeFilter `json:"postgres_changes"`
}

type changeFilter struct {
	Event  string `json:"event"`
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

type changesPayload struct {
	Data changeData `json:"data"`
}

// one row change as Realtime delivers it
type changeData struct {
	Schema    string                 `json:"schema"`
	Table     string                 `json:"table"`
	EventType string                 `json:"eventType"`
	Type      string                 `json:"type"`
	New       json.RawMessage `json:"new"`
	Record    json.RawMessage `json:"record"`
	Old       json.RawMessage `json:"old"`
	OldRecord json.RawMessage `json:"old_record"`
}

type ListenerConfig struct {
	// Realtime websocket endpoint, e.g. https://xyz.supabase.co/realtime/v1/websocket
	URL string

	// project API key sent as the apikey query parameter
	APIKey string

	Schema string
	Table  string
}

// subscribes to user row changes and feeds them to a Processor
type Listener struct {
	config    ListenerConfig
	dialer    *Dialer
	processor Processor
	limiter   *rate.Limiter
	ref       uint64
}

// connection factory that can force TLS transport
type Dialer struct {
	ForceSecure bool
	Dialer      *websocket.Dialer
}
