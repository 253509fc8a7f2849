package onboarding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// why an event was accepted without provisioning
type SkipReason string

const (
	ReasonEventNotHandled SkipReason = "event-type-not-handled"
	ReasonNotConfirmed    SkipReason = "not-confirmed-yet"
	ReasonInProgress      SkipReason = "provisioning-in-progress"
	ReasonAlreadySeeded   SkipReason = "already-seeded"
)

var skipMessages = map[SkipReason]string{
	ReasonEventNotHandled: "Event type not handled",
	ReasonNotConfirmed:    "Email not confirmed yet",
	ReasonInProgress:      "Onboarding already in progress",
}

// returned for events that must be acknowledged without any store write
type SkippedError struct {
	Reason SkipReason
}

func (e *SkippedError) Error() string {
	return "skipped: " + string(e.Reason)
}

// the text sent back to the webhook producer
func (e *SkippedError) Message() string {
	if msg, ok := skipMessages[e.Reason]; ok {
		return msg
	}

	return string(e.Reason)
}

// reports whether err is a skip and returns it
func AsSkipped(err error) (*SkippedError, bool) {
	var skipped *SkippedError
	if errors.As(err, &skipped) {
		return skipped, true
	}

	return nil, false
}

var validate = validator.New()

// decodes a webhook body into an event
func ParseEvent(body []byte) (*Event, error) {
	var event Event

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&event); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	return &event, nil
}

// decides whether the event is a confirmed signup and normalizes the user
func Gate(event *Event) (NewUser, error) {
	if event == nil {
		return NewUser{}, fmt.Errorf("%w: empty event", ErrMalformedPayload)
	}

	if event.Table != TableUsers || event.Type != TypeUpdate {
		return NewUser{}, &SkippedError{Reason: ReasonEventNotHandled}
	}

	record, err := event.DecodeRecord()
	if err != nil {
		return NewUser{}, err
	}

	if record == nil {
		return NewUser{}, fmt.Errorf("%w: record is required", ErrMalformedPayload)
	}

	if !record.EmailConfirmedAt.Valid {
		return NewUser{}, &SkippedError{Reason: ReasonNotConfirmed}
	}

	record.ID = strings.TrimSpace(record.ID)

	if err := validate.Struct(record); err != nil {
		return NewUser{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	return normalize(record), nil
}

// decodes the row as an auth user; nil when the event carries no record
func (e *Event) DecodeRecord() (*UserRecord, error) {
	if IsNull(e.Record) {
		return nil, nil
	}

	var record UserRecord
	if err := json.Unmarshal(e.Record, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	return &record, nil
}

// builds the envelope a confirmed-user webhook carries for record
func UserUpdateEvent(record UserRecord) (*Event, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user record: %w", err)
	}

	return &Event{Table: TableUsers, Type: TypeUpdate, Record: raw}, nil
}

// reports whether raw is absent or the JSON null literal
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// builds a NewUser for callers that bypass the webhook envelope (CLI replays)
func NormalizeUser(id, email string, meta UserMetadata) NewUser {
	return normalize(&UserRecord{ID: strings.TrimSpace(id), Email: email, Metadata: meta})
}

func normalize(r *UserRecord) NewUser {
	return NewUser{
		ID:               r.ID,
		Email:            r.Email,
		Name:             orDefault(r.Metadata.Name, DefaultName),
		OrganizationName: orDefault(r.Metadata.OrganizationName, DefaultOrganizationName),
		Telefone:         r.Metadata.Telefone,
		DroppedMetadata:  r.Metadata.Dropped,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}

// keeps string values of the known keys. a value of any other type is
// treated as absent so the documented default applies.
func (m *UserMetadata) UnmarshalJSON(data []byte) error {
	*m = UserMetadata{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		m.Dropped = []string{"raw_user_meta_data"}
		return nil
	}

	fields := []struct {
		key string
		dst *string
	}{
		{"name", &m.Name},
		{"organization_name", &m.OrganizationName},
		{"telefone", &m.Telefone},
	}

	for _, f := range fields {
		value, ok := raw[f.key]
		if !ok || IsNull(value) {
			continue
		}

		if err := json.Unmarshal(value, f.dst); err != nil {
			m.Dropped = append(m.Dropped, f.key)
		}
	}

	return nil
}

// nullable timestamp as Postgres renders it inside change payloads
type Timestamp struct {
	Time  time.Time
	Valid bool
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	if raw == "" {
		*t = Timestamp{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = Timestamp{Time: parsed, Valid: true}
			return nil
		}
	}

	return fmt.Errorf("invalid timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}
