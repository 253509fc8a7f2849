package services

import (
	"codeberg.org/finboard/server/finboard/categories"
	"codeberg.org/finboard/server/finboard/deliveries"
	"codeberg.org/finboard/server/finboard/profiles"
	"codeberg.org/finboard/server/finboard/subscribers"
	"codeberg.org/finboard/server/internal/events"
	"codeberg.org/finboard/server/internal/locks"
	"codeberg.org/finboard/server/internal/onboarding"
)

// repositories and optional external clients shared by the server and CLIs
type Services struct {
	Profiles    *profiles.Repository
	Categories  *categories.Repository
	Subscribers *subscribers.Repository
	Deliveries  *deliveries.Repository

	// nil when REDIS_URL is unset or unreachable
	Locker *locks.RedisLocker

	// nil when RABBITMQ_URL is unset or unreachable
	Publisher *events.Publisher

	Provisioner *onboarding.Provisioner
}
