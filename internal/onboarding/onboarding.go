package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeberg.org/finboard/server/finboard/categories"
	"codeberg.org/finboard/server/finboard/profiles"
	"codeberg.org/finboard/server/finboard/subscribers"
	"codeberg.org/finboard/server/internal/config"
	"codeberg.org/finboard/server/internal/events"
	"codeberg.org/finboard/server/internal/logger"
	"github.com/google/uuid"
)

// creates a provisioner over the three stores
func New(p ProfileStore, c CategoryStore, s SubscriberStore, opts ...Option) *Provisioner {
	prov := &Provisioner{
		profiles:    p,
		categories:  c,
		subscribers: s,
		policy:      config.TrialPolicyRefresh,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(prov)
	}

	return prov
}

// serializes runs per user; a nil locker disables locking
func WithLocker(l Locker) Option {
	return func(p *Provisioner) {
		p.locker = l
	}
}

// publishes user.onboarded after each run; a nil notifier disables publishing
func WithNotifier(n Notifier) Option {
	return func(p *Provisioner) {
		p.notifier = n
	}
}

func WithTrialPolicy(policy config.TrialPolicy) Option {
	return func(p *Provisioner) {
		p.policy = policy
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Provisioner) {
		p.now = now
	}
}

// runs the three provisioning steps for a confirmed user.
// step failures are reported in the result; only a panic inside a step
// (ErrUnhandled) or a held per-user lock (SkippedError) return an error.
func (p *Provisioner) Provision(ctx context.Context, user NewUser) (*Result, error) {
	log := logger.FromContext(ctx).With("user_id", user.ID)

	if p.locker != nil {
		release, acquired, err := p.locker.Acquire(ctx, user.ID)

		switch {
		case err != nil:
			// a lock outage must not block onboarding; every step is replay-safe
			log.Warn("onboarding lock unavailable, continuing unlocked", "error", err)
		case !acquired:
			log.Info("onboarding already running for user")
			return nil, &SkippedError{Reason: ReasonInProgress}
		default:
			defer release()
		}
	}

	now := p.now().UTC()

	result := &Result{
		User:       user,
		TrialStart: now,
		TrialEnd:   now.Add(TrialLength),
	}

	log.Info("processing confirmed user", "email", user.Email)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		panics []error
	)

	guard := func(step string, fn func()) {
		wg.Add(1)

		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					panics = append(panics, fmt.Errorf("%s step panicked: %v", step, r))
					mu.Unlock()
				}
			}()

			fn()
		}()
	}

	guard("profile", func() {
		result.Profile = p.provisionProfile(ctx, user, now)
	})

	guard("categories", func() {
		result.Categories = p.seedCategories(ctx, user.ID)
	})

	guard("subscriber", func() {
		result.Subscriber, result.TrialStart, result.TrialEnd = p.provisionTrial(ctx, user, now)
	})

	wg.Wait()

	if len(panics) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrUnhandled, errors.Join(panics...))
	}

	logStep(log, "profile", result.Profile)
	logStep(log, "categories", result.Categories)
	logStep(log, "subscriber", result.Subscriber)

	p.notify(ctx, result)

	return result, nil
}

func (p *Provisioner) provisionProfile(ctx context.Context, user NewUser, now time.Time) StepOutcome {
	err := p.profiles.Upsert(ctx, profiles.Profile{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		OrganizationName: user.OrganizationName,
		Telefone:         user.Telefone,
		UpdatedAt:        now,
	})

	if err != nil {
		return StepOutcome{Status: StatusFailed, Err: err}
	}

	return StepOutcome{Status: StatusOK, Succeeded: 1}
}

// seeds the default catalog unless the user already owns any category.
// inserts run concurrently and are not rolled back when some of them fail.
func (p *Provisioner) seedCategories(ctx context.Context, userID string) StepOutcome {
	exists, err := p.categories.Exists(ctx, userID)
	if err != nil {
		return StepOutcome{Status: StatusFailed, Err: err}
	}

	if exists {
		return StepOutcome{Status: StatusSkipped, Reason: string(ReasonAlreadySeeded)}
	}

	catalog := categories.DefaultCatalog(userID)
	errs := make([]error, len(catalog))

	var (
		wg       sync.WaitGroup
		panicMu  sync.Mutex
		panicked any
	)

	for i, c := range catalog {
		wg.Add(1)

		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panicMu.Lock()
					panicked = r
					panicMu.Unlock()
				}
			}()

			errs[i] = p.categories.Insert(ctx, c)
		}()
	}

	wg.Wait()

	if panicked != nil {
		panic(panicked)
	}

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}

	if len(failed) == 0 {
		return StepOutcome{Status: StatusOK, Succeeded: len(catalog)}
	}

	return StepOutcome{
		Status:    StatusPartial,
		Succeeded: len(catalog) - len(failed),
		Failed:    len(failed),
		Err:       errors.Join(failed...),
	}
}

// grants the 7-day trial. returns the outcome and the trial window that is
// actually stored, which under the anchor policy may predate now.
func (p *Provisioner) provisionTrial(ctx context.Context, user NewUser, now time.Time) (StepOutcome, time.Time, time.Time) {
	trial := subscribers.NewTrial(user.ID, user.Email, now, TrialLength)
	start, end := *trial.TrialStart, *trial.TrialEnd

	if p.policy != config.TrialPolicyAnchor {
		if err := p.subscribers.UpsertTrial(ctx, trial); err != nil {
			return StepOutcome{Status: StatusFailed, Err: err}, start, end
		}

		return StepOutcome{Status: StatusOK, Succeeded: 1}, start, end
	}

	stored, created, err := p.subscribers.GrantTrialOnce(ctx, trial)
	if err != nil {
		return StepOutcome{Status: StatusFailed, Err: err}, start, end
	}

	if stored != nil && stored.TrialStart != nil && stored.TrialEnd != nil {
		start, end = stored.TrialStart.UTC(), stored.TrialEnd.UTC()
	}

	if !created {
		return StepOutcome{Status: StatusSkipped, Reason: "trial-already-granted"}, start, end
	}

	return StepOutcome{Status: StatusOK, Succeeded: 1}, start, end
}

func (p *Provisioner) notify(ctx context.Context, result *Result) {
	if p.notifier == nil {
		return
	}

	event := events.UserOnboarded{
		EventID:           uuid.New().String(),
		CorrelationID:     CorrelationIDFromContext(ctx),
		UserID:            result.User.ID,
		Email:             result.User.Email,
		ProfileCreated:    result.ProfileCreated(),
		CategoriesCreated: result.CategoriesCreated(),
		SubscriberCreated: result.SubscriberCreated(),
		TrialEnd:          result.TrialEnd,
		OccurredAt:        p.now().UTC(),
	}

	if err := p.notifier.PublishUserOnboarded(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("failed to publish onboarding event",
			"user_id", result.User.ID,
			"error", err,
		)
	}
}

type correlationKey struct{}

// stores the request correlation id for events published downstream
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}

	return ""
}
