package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/finboard/server/internal/onboarding"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureURL(t *testing.T) {
	tests := []struct {
		raw    string
		force  bool
		expect string
	}{
		{"ws://host/realtime", true, "wss://host/realtime"},
		{"http://host/realtime", true, "wss://host/realtime"},
		{"https://host/realtime", true, "wss://host/realtime"},
		{"wss://host/realtime", true, "wss://host/realtime"},
		{"ftp://host", true, "ftp://host"},
		{"ws://host/realtime", false, "ws://host/realtime"},
		{"http://host/realtime", false, "http://host/realtime"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, SecureURL(tt.raw, tt.force), tt.raw)
	}
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "wss://h/x", redact("wss://h/x?apikey=secret"))
	assert.Equal(t, "wss://h/x", redact("wss://h/x"))
}

func TestDecodeChange(t *testing.T) {
	payload := json.RawMessage(`{
		"data": {
			"schema": "auth",
			"table": "users",
			"eventType": "UPDATE",
			"commit_timestamp": "2024-01-01T00:00:01Z",
			"new": {"id": "u1", "email": "a@b.com", "email_confirmed_at": "2024-01-01T00:00:00Z", "raw_user_meta_data": {"name": "Ana"}},
			"old": {"id": "u1", "email": "a@b.com", "email_confirmed_at": null}
		},
		"ids": [1]
	}`)

	event, err := decodeChange(payload)
	require.NoError(t, err)

	assert.Equal(t, "users", event.Table)
	assert.Equal(t, "UPDATE", event.Type)
	record, err := event.DecodeRecord()
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.EmailConfirmedAt.Valid)

	var old onboarding.UserRecord
	require.NoError(t, json.Unmarshal(event.OldRecord, &old))
	assert.False(t, old.EmailConfirmedAt.Valid)

	user, err := onboarding.Gate(event)
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
}

func TestDecodeChange_LegacyShape(t *testing.T) {
	event, err := decodeChange(json.RawMessage(`{"data":{"table":"users","type":"UPDATE","record":{"id":"u1"}}}`))
	require.NoError(t, err)

	assert.Equal(t, "UPDATE", event.Type)

	record, err := event.DecodeRecord()
	require.NoError(t, err)
	assert.Equal(t, "u1", record.ID)
}

func TestDecodeChange_OtherTableRowShape(t *testing.T) {
	event, err := decodeChange(json.RawMessage(`{"data":{"schema":"public","table":"transacoes","eventType":"INSERT","new":{"id":42,"valor":10,"created_at":1700000000}}}`))
	require.NoError(t, err)

	_, err = onboarding.Gate(event)
	skipped, ok := onboarding.AsSkipped(err)
	require.True(t, ok)
	assert.Equal(t, onboarding.ReasonEventNotHandled, skipped.Reason)
}

func TestDecodeChange_Invalid(t *testing.T) {
	_, err := decodeChange(json.RawMessage(`[]`))
	assert.ErrorIs(t, err, onboarding.ErrMalformedPayload)

	_, err = decodeChange(json.RawMessage(`{"data":{}}`))
	assert.Error(t, err)
}

type recordingProcessor struct {
	mu     sync.Mutex
	events []*onboarding.Event
	source string
	seen   chan struct{}
}

func (p *recordingProcessor) Process(_ context.Context, source string, event *onboarding.Event) (*onboarding.Processed, error) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.source = source
	p.mu.Unlock()

	select {
	case p.seen <- struct{}{}:
	default:
	}

	return &onboarding.Processed{Skipped: &onboarding.SkippedError{Reason: onboarding.ReasonNotConfirmed}}, nil
}

func TestListener_Run(t *testing.T) {
	upgrader := websocket.Upgrader{}
	joined := make(chan message, 1)
	query := make(chan string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case query <- r.URL.RawQuery:
		default:
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var join message
		if err := conn.ReadJSON(&join); err != nil {
			return
		}
		select {
		case joined <- join:
		default:
		}

		_ = conn.WriteJSON(map[string]any{
			"topic":   join.Topic,
			"event":   "postgres_changes",
			"payload": json.RawMessage(`{"data":{"schema":"auth","table":"users","eventType":"UPDATE","new":{"id":"u1","email_confirmed_at":null}}}`),
			"ref":     nil,
		})

		// hold the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	processor := &recordingProcessor{seen: make(chan struct{}, 1)}

	listener := NewListener(ListenerConfig{
		URL:    "ws" + strings.TrimPrefix(srv.URL, "http") + "/realtime/v1/websocket",
		APIKey: "anon-key",
	}, NewDialer(false), processor)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		listener.Run(ctx)
		close(done)
	}()

	select {
	case q := <-query:
		assert.Contains(t, q, "apikey=anon-key")
		assert.Contains(t, q, "vsn=1.0.0")
	case <-time.After(5 * time.Second):
		t.Fatal("listener never connected")
	}

	select {
	case join := <-joined:
		assert.Equal(t, "realtime:auth:users", join.Topic)
		assert.Equal(t, "phx_join", join.Event)
		assert.Contains(t, string(join.Payload), `"postgres_changes"`)
	case <-time.After(5 * time.Second):
		t.Fatal("listener never joined")
	}

	select {
	case <-processor.seen:
	case <-time.After(5 * time.Second):
		t.Fatal("change never processed")
	}

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}

	processor.mu.Lock()
	defer processor.mu.Unlock()

	require.Len(t, processor.events, 1)

	record, err := processor.events[0].DecodeRecord()
	require.NoError(t, err)
	assert.Equal(t, "u1", record.ID)
	assert.Equal(t, "realtime", processor.source)
}
