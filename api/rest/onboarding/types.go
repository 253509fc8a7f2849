package onboarding

import (
	"context"
	"time"

	"codeberg.org/finboard/server/finboard/deliveries"
	"codeberg.org/finboard/server/finboard/profiles"
	"codeberg.org/finboard/server/finboard/subscribers"
)

// how many ledger entries the status endpoint returns
const recentDeliveries = 10

type ProfileReader interface {
	FindByID(ctx context.Context, id string) (*profiles.Profile, error)
}

type CategoryCounter interface {
	CountByUser(ctx context.Context, userID string) (int, error)
}

type SubscriberReader interface {
	FindByUserID(ctx context.Context, userID string) (*subscribers.Subscriber, error)
}

type DeliveryReader interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]deliveries.Delivery, error)
}

// read-side dependencies of the status endpoint
type Stores struct {
	Profiles    ProfileReader
	Categories  CategoryCounter
	Subscribers SubscriberReader
	Deliveries  DeliveryReader
}

// what has been provisioned for one user so far
type StatusResponse struct {
	UserID         string                `json:"userId"`
	Profile        *profiles.Profile     `json:"profile"`
	CategoryCount  int                   `json:"categoryCount"`
	Subscriber     *SubscriberStatus     `json:"subscriber"`
	Deliveries     []deliveries.Delivery `json:"deliveries"`
	FullyOnboarded bool                  `json:"fullyOnboarded"`
}

type SubscriberStatus struct {
	Subscribed       bool       `json:"subscribed"`
	SubscriptionTier string     `json:"subscriptionTier"`
	TrialStart       *time.Time `json:"trialStart"`
	TrialEnd         *time.Time `json:"trialEnd"`
}
