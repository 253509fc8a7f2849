package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"codeberg.org/finboard/server/finboard/categories"
	"codeberg.org/finboard/server/finboard/profiles"
	"codeberg.org/finboard/server/finboard/subscribers"
	"codeberg.org/finboard/server/internal/config"
	"codeberg.org/finboard/server/internal/events"
)

const (
	// auth table and change type that carry the email confirmation
	TableUsers = "users"
	TypeUpdate = "UPDATE"

	DefaultName             = "Usuário"
	DefaultOrganizationName = "Minha Empresa"

	TrialLength = 7 * 24 * time.Hour

	// message returned with every provisioned response
	CompletedMessage = "User onboarding completed"
)

var (
	// body could not be decoded into an event
	ErrMalformedPayload = errors.New("malformed payload")

	// a provisioning step panicked
	ErrUnhandled = errors.New("unhandled provisioning failure")
)

// database change notification envelope. rows stay raw until the envelope
// is known to describe an auth user update; other tables carry other shapes.
type Event struct {
	Table     string          `json:"table"`
	Type      string          `json:"type"`
	Schema    string          `json:"schema,omitempty"`
	Record    json.RawMessage `json:"record"`
	OldRecord json.RawMessage `json:"old_record,omitempty"`
}

// the auth user row as delivered by the webhook
type UserRecord struct {
	ID               string       `json:"id" validate:"required"`
	Email            string       `json:"email"`
	EmailConfirmedAt Timestamp    `json:"email_confirmed_at"`
	Metadata         UserMetadata `json:"raw_user_meta_data"`
}

// optional onboarding fields collected at signup; unknown keys are dropped
type UserMetadata struct {
	Name             string `json:"name"`
	OrganizationName string `json:"organization_name"`
	Telefone         string `json:"telefone"`

	// known keys whose values were not strings and fell back to defaults
	Dropped []string `json:"-"`
}

// a confirmed user with defaults applied, ready to provision
type NewUser struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	OrganizationName string `json:"organization_name"`
	Telefone         string `json:"telefone"`

	DroppedMetadata []string `json:"-"`
}

type StepStatus string

const (
	StatusOK      StepStatus = "ok"
	StatusSkipped StepStatus = "skipped"
	StatusPartial StepStatus = "partial"
	StatusFailed  StepStatus = "failed"
)

// what one provisioning step did
type StepOutcome struct {
	Status    StepStatus
	Reason    string
	Succeeded int
	Failed    int
	Err       error
}

func (o StepOutcome) OK() bool {
	return o.Status == StatusOK
}

// aggregated outcome of one provisioning run
type Result struct {
	User       NewUser
	Profile    StepOutcome
	Categories StepOutcome
	Subscriber StepOutcome
	TrialStart time.Time
	TrialEnd   time.Time
}

type ProfileStore interface {
	Upsert(ctx context.Context, p profiles.Profile) error
}

type CategoryStore interface {
	Exists(ctx context.Context, userID string) (bool, error)
	Insert(ctx context.Context, c categories.Category) error
}

type SubscriberStore interface {
	UpsertTrial(ctx context.Context, s subscribers.Subscriber) error
	GrantTrialOnce(ctx context.Context, s subscribers.Subscriber) (*subscribers.Subscriber, bool, error)
}

// serializes provisioning runs for the same user across replicas
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), acquired bool, err error)
}

// announces finished onboarding runs to downstream consumers
type Notifier interface {
	PublishUserOnboarded(ctx context.Context, event events.UserOnboarded) error
}

// runs the profile, category and trial steps for confirmed users
type Provisioner struct {
	profiles    ProfileStore
	categories  CategoryStore
	subscribers SubscriberStore
	locker      Locker
	notifier    Notifier
	ledger      Ledger
	policy      config.TrialPolicy
	now         func() time.Time
}

type Option func(*Provisioner)
