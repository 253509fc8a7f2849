package subscribers

import (
	"time"

	"codeberg.org/finboard/server/internal/storage"
)

// tier written for accounts still inside their free trial
const TierTrial = "Trial"

// handles subscriber database operations
type Repository struct {
	db storage.DB
}

// billing state for one auth user, keyed by user id
type Subscriber struct {
	UserID            string     `json:"user_id"`
	Email             string     `json:"email"`
	StripeCustomerID  *string    `json:"stripe_customer_id"`
	Subscribed        bool       `json:"subscribed"`
	SubscriptionTier  string     `json:"subscription_tier"`
	SubscriptionStart *time.Time `json:"subscription_start"`
	SubscriptionEnd   *time.Time `json:"subscription_end"`
	TrialStart        *time.Time `json:"trial_start"`
	TrialEnd          *time.Time `json:"trial_end"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
