package lens

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/lens/engine"
)

// Status is the aggregate activity view of one job, reduced from all
// of its triggers.
type Status struct {
	// Active reports whether any trigger is currently eligible to fire.
	Active bool `json:"active"`

	// LastFireTime is the most recent previous fire across triggers,
	// nil when no trigger has fired.
	LastFireTime *time.Time `json:"last_fire_time,omitempty"`

	// NextFireTime is the soonest upcoming fire across triggers, nil
	// when no trigger will fire.
	NextFireTime *time.Time `json:"next_fire_time,omitempty"`
}

// StateFunc reports the live state of one trigger. An Engine's
// TriggerState method satisfies it directly.
type StateFunc func(ctx context.Context, key engine.TriggerKey) (engine.TriggerState, error)

// AggregateStatus folds a job's triggers into its Status.
//
// An empty trigger slice means the job has no schedule: inactive, no
// fire times, no error. Otherwise the fold queries the live state of
// every trigger and the job is active as soon as one reports
// StateNormal. The last fire is the latest of the present
// previous-fire times and the next fire the soonest of the present
// next-fire times; an absent time never displaces a present one.
//
// A state lookup failure aborts the whole aggregation. There is no
// partial Status for a job.
func AggregateStatus(ctx context.Context, triggers []engine.Trigger, state StateFunc) (Status, error) {
	var st Status
	if len(triggers) == 0 {
		return st, nil
	}

	for _, t := range triggers {
		ts, err := state(ctx, t.Key)
		if err != nil {
			return Status{}, fmt.Errorf("trigger state %s: %w", t.Key, err)
		}
		if ts == engine.StateNormal {
			st.Active = true
		}

		st.LastFireTime = laterOf(st.LastFireTime, t.PreviousFireTime)
		st.NextFireTime = earlierOf(st.NextFireTime, t.NextFireTime)
	}

	return st, nil
}
