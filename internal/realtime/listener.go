package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/finboard/server/finboard/deliveries"
	"codeberg.org/finboard/server/internal/logger"
	"codeberg.org/finboard/server/internal/onboarding"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// creates a listener; reconnects are spaced by at least reconnectInterval
func NewListener(cfg ListenerConfig, dialer *Dialer, processor Processor) *Listener {
	if cfg.Schema == "" {
		cfg.Schema = defaultSchema
	}

	if cfg.Table == "" {
		cfg.Table = onboarding.TableUsers
	}

	return &Listener{
		config:    cfg,
		dialer:    dialer,
		processor: processor,
		limiter:   rate.NewLimiter(rate.Every(reconnectInterval), 1),
	}
}

// keeps a subscription open until ctx is cancelled
func (l *Listener) Run(ctx context.Context) {
	log := logger.With("component", "realtime", "table", l.config.Schema+"."+l.config.Table)

	for {
		if err := l.limiter.Wait(ctx); err != nil {
			log.Info("realtime listener stopped")
			return
		}

		err := l.session(ctx)

		if ctx.Err() != nil {
			log.Info("realtime listener stopped")
			return
		}

		log.Warn("realtime session ended, reconnecting", "error", err)
	}
}

// one connection lifetime: join, heartbeat and read until failure
func (l *Listener) session(ctx context.Context) error {
	endpoint, err := l.endpoint()
	if err != nil {
		return err
	}

	conn, err := l.dialer.Dial(ctx, endpoint, nil)
	if err != nil {
		return err
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var writeMu sync.Mutex

	write := func(msg message) error {
		writeMu.Lock()
		defer writeMu.Unlock()

		conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // surfaced by WriteJSON
		return conn.WriteJSON(msg)
	}

	// unblock ReadJSON when the session is cancelled
	go func() {
		<-sessionCtx.Done()
		conn.Close() //nolint:errcheck,gosec // closing an already failed conn
	}()

	if err := write(l.joinMessage()); err != nil {
		return fmt.Errorf("failed to join channel: %w", err)
	}

	go l.heartbeat(sessionCtx, write)

	logger.Info("realtime subscription requested", "topic", l.topic())

	for {
		conn.SetReadDeadline(time.Now().Add(readWait)) //nolint:errcheck,gosec // surfaced by ReadJSON

		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read failed: %w", err)
		}

		switch msg.Event {
		case eventPostgresChanges:
			l.handleChange(ctx, msg.Payload)
		case eventReply:
			logger.Debug("realtime reply", "topic", msg.Topic, "payload", string(msg.Payload))
		case eventClose, eventError:
			return fmt.Errorf("channel %s: %s", msg.Event, string(msg.Payload))
		}
	}
}

func (l *Listener) heartbeat(ctx context.Context, write func(message) error) {
	ticker := time.NewTicker(heartbeatPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := write(message{Topic: topicPhoenix, Event: eventHeartbeat, Payload: json.RawMessage(`{}`), Ref: l.nextRef()}); err != nil {
				logger.Warn("realtime heartbeat failed", "error", err)
				return
			}
		}
	}
}

func (l *Listener) handleChange(ctx context.Context, payload json.RawMessage) {
	id := uuid.NewString()
	log := logger.With("component", "realtime", "correlation_id", id)

	event, err := decodeChange(payload)
	if err != nil {
		log.Warn("dropping undecodable change", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	ctx = logger.WithContext(ctx, log)
	ctx = onboarding.WithCorrelationID(ctx, id)

	processed, err := l.processor.Process(ctx, deliveries.SourceRealtime, event)
	if err != nil {
		log.Error("realtime onboarding failed", "error", err)
		return
	}

	if processed.Result != nil {
		log.Info("realtime onboarding completed",
			"user_id", processed.Result.User.ID,
			"complete", processed.Result.Complete(),
		)
	}
}

// converts a postgres_changes payload into the webhook event envelope
func decodeChange(payload json.RawMessage) (*onboarding.Event, error) {
	var p changesPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", onboarding.ErrMalformedPayload, err)
	}

	d := p.Data

	event := &onboarding.Event{
		Table:     d.Table,
		Type:      d.EventType,
		Schema:    d.Schema,
		Record:    d.New,
		OldRecord: d.Old,
	}

	if event.Type == "" {
		event.Type = d.Type
	}

	if onboarding.IsNull(event.Record) {
		event.Record = d.Record
	}

	if onboarding.IsNull(event.OldRecord) {
		event.OldRecord = d.OldRecord
	}

	if event.Table == "" {
		return nil, errors.New("change without table")
	}

	return event, nil
}

func (l *Listener) endpoint() (string, error) {
	u, err := url.Parse(l.config.URL)
	if err != nil {
		return "", fmt.Errorf("invalid realtime url: %w", err)
	}

	q := u.Query()
	if l.config.APIKey != "" {
		q.Set("apikey", l.config.APIKey)
	}

	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (l *Listener) topic() string {
	return "realtime:" + l.config.Schema + ":" + l.config.Table
}

func (l *Listener) joinMessage() message {
	payload, _ := json.Marshal(joinPayload{ //nolint:errcheck // static shape
		Config: joinConfig{
			PostgresChanges: []changeFilter{{
				Event:  onboarding.TypeUpdate,
				Schema: l.config.Schema,
				Table:  l.config.Table,
			}},
		},
	})

	return message{Topic: l.topic(), Event: eventJoin, Payload: payload, Ref: l.nextRef()}
}

func (l *Listener) nextRef() *string {
	ref := strconv.FormatUint(atomic.AddUint64(&l.ref, 1), 10)
	return &ref
}
