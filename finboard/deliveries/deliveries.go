package deliveries

import (
	"context"
	"fmt"

	"codeberg.org/finboard/server/internal/storage"
)

// creates a new delivery ledger repository
func NewRepository(db storage.DB) *Repository {
	return &Repository{db: db}
}

// appends a delivery to the ledger
func (r *Repository) Record(ctx context.Context, d Delivery) error {
	var outcome any
	if len(d.Outcome) > 0 {
		outcome = string(d.Outcome)
	}

	_, err := r.db.Exec(
		ctx,
		queryRecord,
		d.CorrelationID,
		d.Source,
		d.UserID,
		d.Status,
		d.Reason,
		outcome,
		d.Error,
		d.ReceivedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record delivery %s: %w", d.CorrelationID, err)
	}

	return nil
}

// returns the most recent deliveries for a user, newest first
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]Delivery, error) {
	rows, err := r.db.Query(ctx, queryListByUser, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries for %s: %w", userID, err)
	}

	defer rows.Close()

	out := []Delivery{}

	for rows.Next() {
		var d Delivery
		var outcome []byte

		if err := rows.Scan(
			&d.CorrelationID,
			&d.Source,
			&d.UserID,
			&d.Status,
			&d.Reason,
			&outcome,
			&d.Error,
			&d.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}

		d.Outcome = outcome
		out = append(out, d)
	}

	return out, rows.Err()
}
