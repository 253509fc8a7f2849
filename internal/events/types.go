// Package events publishes onboarding lifecycle events to RabbitMQ.
package events

import (
	"context"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "onboarding"

	// routing key for finished provisioning runs
	RoutingKeyUserOnboarded = "user.onboarded"
)

// published after every provisioning run, whatever the step outcomes were
type UserOnboarded struct {
	EventID           string    `json:"event_id"`
	CorrelationID     string    `json:"correlation_id,omitempty"`
	UserID            string    `json:"user_id"`
	Email             string    `json:"email"`
	ProfileCreated    bool      `json:"profile_created"`
	CategoriesCreated bool      `json:"categories_created"`
	SubscriberCreated bool      `json:"subscriber_created"`
	TrialEnd          time.Time `json:"trial_end"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// publishes JSON events to a durable topic exchange
type Publisher struct {
	mu      sync.Mutex
	dial    func() (connection, channel, error)
	conn    connection
	channel channel
}

type connection interface {
	Close() error
}

// the subset of *amqp.Channel the publisher uses
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}
