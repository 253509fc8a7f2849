package services

import (
	"codeberg.org/finboard/server/finboard/categories"
	"codeberg.org/finboard/server/finboard/deliveries"
	"codeberg.org/finboard/server/finboard/profiles"
	"codeberg.org/finboard/server/finboard/subscribers"
	"codeberg.org/finboard/server/internal/config"
	"codeberg.org/finboard/server/internal/events"
	"codeberg.org/finboard/server/internal/locks"
	"codeberg.org/finboard/server/internal/logger"
	"codeberg.org/finboard/server/internal/onboarding"
	"codeberg.org/finboard/server/internal/storage"
)

// builds repositories and the provisioner. Redis and RabbitMQ are optional:
// a connection failure is logged and the feature is left disabled.
func Initialize(cfg *config.Config, db storage.DB) *Services {
	s := &Services{
		Profiles:    profiles.NewRepository(db),
		Categories:  categories.NewRepository(db),
		Subscribers: subscribers.NewRepository(db),
		Deliveries:  deliveries.NewRepository(db),
	}

	opts := []onboarding.Option{
		onboarding.WithTrialPolicy(cfg.TrialPolicy),
		onboarding.WithLedger(s.Deliveries),
	}

	if cfg.RedisURL != "" {
		locker, err := locks.NewRedisLocker(cfg.RedisURL, cfg.LockTTL)
		if err != nil {
			logger.ErrorErr(err, "failed to initialize redis locker, continuing without per-user locks")
		} else {
			s.Locker = locker
			opts = append(opts, onboarding.WithLocker(locker))
		}
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := events.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			logger.ErrorErr(err, "failed to initialize event publisher, continuing without user.onboarded events")
		} else {
			s.Publisher = publisher
			opts = append(opts, onboarding.WithNotifier(publisher))
		}
	}

	s.Provisioner = onboarding.New(s.Profiles, s.Categories, s.Subscribers, opts...)

	logger.Info("onboarding services initialized",
		"trial_policy", cfg.TrialPolicy,
		"locks", s.Locker != nil,
		"events", s.Publisher != nil,
	)

	return s
}

// closes the optional external clients
func (s *Services) Close() {
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			logger.Warn("failed to close event publisher", "error", err)
		}
	}

	if s.Locker != nil {
		if err := s.Locker.Close(); err != nil {
			logger.Warn("failed to close redis locker", "error", err)
		}
	}
}
