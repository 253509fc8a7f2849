package onboarding

import (
	"context"
	"encoding/json"
	"errors"

	"codeberg.org/finboard/server/finboard/deliveries"
	"codeberg.org/finboard/server/internal/logger"
)

// persists processed deliveries for operators
type Ledger interface {
	Record(ctx context.Context, d deliveries.Delivery) error
}

// records actionable deliveries; a nil ledger disables recording
func WithLedger(l Ledger) Option {
	return func(p *Provisioner) {
		p.ledger = l
	}
}

// outcome of one inbound event: exactly one of Skipped or Result is set
type Processed struct {
	Skipped *SkippedError
	Result  *Result
}

// decodes body and processes it like Process
func (p *Provisioner) ProcessBody(ctx context.Context, source string, body []byte) (*Processed, error) {
	event, err := ParseEvent(body)
	if err != nil {
		p.record(ctx, deliveries.Delivery{
			Source: source,
			Status: deliveries.StatusFailed,
			Error:  err.Error(),
		})

		return nil, err
	}

	return p.Process(ctx, source, event)
}

// gates the event and provisions the user it confirms. skips are returned
// in Processed, not as errors; errors are ErrMalformedPayload or ErrUnhandled.
func (p *Provisioner) Process(ctx context.Context, source string, event *Event) (*Processed, error) {
	user, err := Gate(event)
	if err != nil {
		if skipped, ok := AsSkipped(err); ok {
			logger.FromContext(ctx).Debug("event not actionable", "reason", skipped.Reason)
			return &Processed{Skipped: skipped}, nil
		}

		p.record(ctx, deliveries.Delivery{
			Source: source,
			Status: deliveries.StatusFailed,
			Error:  err.Error(),
		})

		return nil, err
	}

	if len(user.DroppedMetadata) > 0 {
		logger.FromContext(ctx).Warn("ignoring non-string signup metadata",
			"user_id", user.ID,
			"keys", user.DroppedMetadata,
		)
	}

	result, err := p.Provision(ctx, user)
	if err != nil {
		if skipped, ok := AsSkipped(err); ok {
			p.record(ctx, deliveries.Delivery{
				Source: source,
				UserID: user.ID,
				Status: deliveries.StatusSkipped,
				Reason: string(skipped.Reason),
			})

			return &Processed{Skipped: skipped}, nil
		}

		p.record(ctx, deliveries.Delivery{
			Source: source,
			UserID: user.ID,
			Status: deliveries.StatusFailed,
			Error:  err.Error(),
		})

		return nil, err
	}

	delivery := deliveries.Delivery{
		Source: source,
		UserID: user.ID,
		Status: deliveries.StatusCompleted,
	}

	if outcome, err := json.Marshal(result.Response(nil)); err == nil {
		delivery.Outcome = outcome
	}

	if !result.Complete() {
		delivery.Error = stepErrors(result).Error()
	}

	p.record(ctx, delivery)

	return &Processed{Result: result}, nil
}

func (p *Provisioner) record(ctx context.Context, d deliveries.Delivery) {
	if p.ledger == nil {
		return
	}

	d.CorrelationID = CorrelationIDFromContext(ctx)
	d.ReceivedAt = p.now().UTC()

	if err := p.ledger.Record(ctx, d); err != nil {
		logger.FromContext(ctx).Warn("failed to record delivery",
			"user_id", d.UserID,
			"status", d.Status,
			"error", err,
		)
	}
}

func stepErrors(r *Result) error {
	return errors.Join(r.Profile.Err, r.Categories.Err, r.Subscriber.Err)
}
