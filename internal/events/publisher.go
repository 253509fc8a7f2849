package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"codeberg.org/finboard/server/internal/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

var errPublisherClosed = errors.New("publisher is closed")

// dials RabbitMQ and declares the onboarding exchange. the connection is
// redialed when a publish finds it closed, e.g. after a broker restart.
func NewPublisher(url string) (*Publisher, error) {
	p := &Publisher{
		dial: func() (connection, channel, error) {
			return dialExchange(url)
		},
	}

	if err := p.reconnect(); err != nil {
		return nil, err
	}

	return p, nil
}

func dialExchange(url string) (connection, channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()   //nolint:errcheck,gosec // best-effort cleanup on init failure
		conn.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, nil, fmt.Errorf("failed to declare exchange %s: %w", ExchangeName, err)
	}

	return conn, ch, nil
}

// publishes a persistent user.onboarded message
func (p *Publisher) PublishUserOnboarded(ctx context.Context, event UserOnboarded) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", RoutingKeyUserOnboarded, err)
	}

	msg := amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: event.CorrelationID,
		MessageId:     event.EventID,
		DeliveryMode:  amqp.Persistent,
		Timestamp:     event.OccurredAt,
		Body:          body,
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		if err := p.reconnect(); err != nil {
			return fmt.Errorf("failed to publish %s for %s: %w", RoutingKeyUserOnboarded, event.UserID, err)
		}
	}

	err = p.channel.PublishWithContext(ctx, ExchangeName, RoutingKeyUserOnboarded, false, false, msg)

	if errors.Is(err, amqp.ErrClosed) {
		logger.FromContext(ctx).Warn("rabbitmq channel closed, reconnecting", "error", err)

		if rerr := p.reconnect(); rerr != nil {
			return fmt.Errorf("failed to publish %s for %s: %w", RoutingKeyUserOnboarded, event.UserID, rerr)
		}

		err = p.channel.PublishWithContext(ctx, ExchangeName, RoutingKeyUserOnboarded, false, false, msg)
	}

	if err != nil {
		return fmt.Errorf("failed to publish %s for %s: %w", RoutingKeyUserOnboarded, event.UserID, err)
	}

	return nil
}

// replaces the current connection with a fresh one. callers hold mu.
func (p *Publisher) reconnect() error {
	if p.dial == nil {
		return errPublisherClosed
	}

	p.release() //nolint:errcheck // the old connection is already broken

	conn, ch, err := p.dial()
	if err != nil {
		return err
	}

	p.conn, p.channel = conn, ch

	return nil
}

func (p *Publisher) release() error {
	var errs []error

	if p.channel != nil {
		errs = append(errs, p.channel.Close())
		p.channel = nil
	}

	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}

	return errors.Join(errs...)
}

// closes the channel and connection; later publishes fail
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dial = nil

	return p.release()
}
