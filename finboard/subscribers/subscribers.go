package subscribers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/finboard/server/internal/storage"
	"github.com/jackc/pgx/v5"
)

// creates a new subscriber repository
func NewRepository(db storage.DB) *Repository {
	return &Repository{db: db}
}

// builds the trial row granted at now for the given duration
func NewTrial(userID, email string, now time.Time, length time.Duration) Subscriber {
	start := now
	end := now.Add(length)

	return Subscriber{
		UserID:            userID,
		Email:             email,
		StripeCustomerID:  nil,
		Subscribed:        true,
		SubscriptionTier:  TierTrial,
		SubscriptionStart: &start,
		SubscriptionEnd:   &end,
		TrialStart:        &start,
		TrialEnd:          &end,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// writes the trial row, overwriting any stored billing columns except created_at
func (r *Repository) UpsertTrial(ctx context.Context, s Subscriber) error {
	_, err := r.db.Exec(ctx, queryUpsertTrial, args(s)...)
	if err != nil {
		return fmt.Errorf("failed to upsert subscriber %s: %w", s.UserID, err)
	}

	return nil
}

// inserts the trial row only when the user has no subscriber yet.
// returns the trial window actually stored and whether this call created it.
func (r *Repository) GrantTrialOnce(ctx context.Context, s Subscriber) (*Subscriber, bool, error) {
	var trialStart, trialEnd *time.Time

	err := r.db.QueryRow(ctx, queryInsertTrialIfAbsent, args(s)...).Scan(&trialStart, &trialEnd)
	if err == nil {
		s.TrialStart = trialStart
		s.TrialEnd = trialEnd
		return &s, true, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to grant trial to %s: %w", s.UserID, err)
	}

	existing, err := r.FindByUserID(ctx, s.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing subscriber %s: %w", s.UserID, err)
	}

	return existing, false, nil
}

// finds the subscriber row for a user
func (r *Repository) FindByUserID(ctx context.Context, userID string) (*Subscriber, error) {
	var s Subscriber

	err := r.db.QueryRow(ctx, queryFindByUserID, userID).Scan(
		&s.UserID,
		&s.Email,
		&s.StripeCustomerID,
		&s.Subscribed,
		&s.SubscriptionTier,
		&s.SubscriptionStart,
		&s.SubscriptionEnd,
		&s.TrialStart,
		&s.TrialEnd,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &s, nil
}

func args(s Subscriber) []any {
	return []any{
		s.UserID,
		s.Email,
		s.StripeCustomerID,
		s.Subscribed,
		s.SubscriptionTier,
		s.SubscriptionStart,
		s.SubscriptionEnd,
		s.TrialStart,
		s.TrialEnd,
		s.CreatedAt,
		s.UpdatedAt,
	}
}
