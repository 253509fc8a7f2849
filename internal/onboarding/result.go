package onboarding

import (
	"log/slog"
	"time"
)

// javascript Date.toISOString layout, which existing consumers parse
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// success body returned to the webhook producer
type Response struct {
	Success           bool       `json:"success"`
	Message           string     `json:"message"`
	UserID            string     `json:"userId"`
	Email             string     `json:"email"`
	ProfileCreated    bool       `json:"profileCreated"`
	SubscriberCreated bool       `json:"subscriberCreated"`
	CategoriesCreated bool       `json:"categoriesCreated"`
	TrialEnd          string     `json:"trialEnd"`
	Steps             StepReport `json:"steps"`
}

// per-step detail for operators reading responses and the delivery ledger
type StepReport struct {
	Profile    StepView `json:"profile"`
	Categories StepView `json:"categories"`
	Subscriber StepView `json:"subscriber"`
}

type StepView struct {
	Status    StepStatus `json:"status"`
	Reason    string     `json:"reason,omitempty"`
	Succeeded int        `json:"succeeded,omitempty"`
	Failed    int        `json:"failed,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func (r *Result) ProfileCreated() bool {
	return r.Profile.OK()
}

// true only when this run inserted the whole catalog
func (r *Result) CategoriesCreated() bool {
	return r.Categories.OK()
}

// true when the subscriber row holds a trial after this run
func (r *Result) SubscriberCreated() bool {
	return r.Subscriber.Status == StatusOK || r.Subscriber.Status == StatusSkipped
}

// true when no step failed, even partially
func (r *Result) Complete() bool {
	for _, o := range []StepOutcome{r.Profile, r.Categories, r.Subscriber} {
		if o.Status == StatusFailed || o.Status == StatusPartial {
			return false
		}
	}

	return true
}

// composes the response body; describe turns step errors into client-safe text
func (r *Result) Response(describe func(error) string) Response {
	return Response{
		Success:           true,
		Message:           CompletedMessage,
		UserID:            r.User.ID,
		Email:             r.User.Email,
		ProfileCreated:    r.ProfileCreated(),
		SubscriberCreated: r.SubscriberCreated(),
		CategoriesCreated: r.CategoriesCreated(),
		TrialEnd:          FormatTimestamp(r.TrialEnd),
		Steps: StepReport{
			Profile:    view(r.Profile, describe),
			Categories: view(r.Categories, describe),
			Subscriber: view(r.Subscriber, describe),
		},
	}
}

// formats t in UTC with millisecond precision
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

func view(o StepOutcome, describe func(error) string) StepView {
	v := StepView{
		Status:    o.Status,
		Reason:    o.Reason,
		Succeeded: o.Succeeded,
		Failed:    o.Failed,
	}

	if o.Err != nil {
		if describe != nil {
			v.Error = describe(o.Err)
		} else {
			v.Error = o.Err.Error()
		}
	}

	return v
}

func logStep(log *slog.Logger, step string, o StepOutcome) {
	switch o.Status {
	case StatusFailed:
		log.Error("onboarding step failed", "step", step, "error", o.Err)
	case StatusPartial:
		log.Error("onboarding step partially failed", "step", step,
			"succeeded", o.Succeeded,
			"failed", o.Failed,
			"error", o.Err,
		)
	case StatusSkipped:
		log.Info("onboarding step skipped", "step", step, "reason", o.Reason)
	default:
		log.Info("onboarding step completed", "step", step, "rows", o.Succeeded)
	}
}
