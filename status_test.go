package lens_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/lens"
	"github.com/xraph/lens/engine"
)

func trigger(name string, prev, next *time.Time) engine.Trigger {
	return engine.Trigger{
		Key:              engine.TriggerKey{Name: name, Group: engine.DefaultGroup},
		Schedule:         engine.ExpressionSchedule{Expression: "0 9 * * *"},
		PreviousFireTime: prev,
		NextFireTime:     next,
	}
}

// stateByName reports the given states, StateNormal for anything not
// listed.
func stateByName(states map[string]engine.TriggerState) lens.StateFunc {
	return func(_ context.Context, key engine.TriggerKey) (engine.TriggerState, error) {
		if s, ok := states[key.Name]; ok {
			return s, nil
		}
		return engine.StateNormal, nil
	}
}

func TestAggregateStatusEmpty(t *testing.T) {
	t.Parallel()

	st, err := lens.AggregateStatus(context.Background(), nil, stateByName(nil))
	if err != nil {
		t.Fatalf("AggregateStatus: %v", err)
	}
	if st.Active {
		t.Error("Active = true for a job with no triggers")
	}
	if st.LastFireTime != nil || st.NextFireTime != nil {
		t.Errorf("fire times = %v/%v, want nil/nil", st.LastFireTime, st.NextFireTime)
	}
}

func TestAggregateStatusActivity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		states     map[string]engine.TriggerState
		wantActive bool
	}{
		{
			name:       "one normal among paused",
			states:     map[string]engine.TriggerState{"a": engine.StatePaused, "b": engine.StateNormal},
			wantActive: true,
		},
		{
			name:       "all paused or finished",
			states:     map[string]engine.TriggerState{"a": engine.StatePaused, "b": engine.StateComplete},
			wantActive: false,
		},
		{
			name:       "errored and blocked",
			states:     map[string]engine.TriggerState{"a": engine.StateError, "b": engine.StateBlocked},
			wantActive: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			triggers := []engine.Trigger{trigger("a", nil, nil), trigger("b", nil, nil)}

			st, err := lens.AggregateStatus(context.Background(), triggers, stateByName(tt.states))
			if err != nil {
				t.Fatalf("AggregateStatus: %v", err)
			}
			if st.Active != tt.wantActive {
				t.Errorf("Active = %v, want %v", st.Active, tt.wantActive)
			}
		})
	}
}

func TestAggregateStatusFireTimes(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	early := base
	late := base.Add(2 * time.Hour)
	soon := base.Add(10 * time.Minute)
	eventually := base.Add(3 * time.Hour)

	tests := []struct {
		name     string
		triggers []engine.Trigger
		wantLast *time.Time
		wantNext *time.Time
	}{
		{
			name: "max of previous and min of next",
			triggers: []engine.Trigger{
				trigger("a", &early, &eventually),
				trigger("b", &late, &soon),
			},
			wantLast: &late,
			wantNext: &soon,
		},
		{
			name: "absent values never displace present ones",
			triggers: []engine.Trigger{
				trigger("a", &late, &soon),
				trigger("b", nil, nil),
				trigger("c", &early, &eventually),
			},
			wantLast: &late,
			wantNext: &soon,
		},
		{
			name: "all absent stays absent",
			triggers: []engine.Trigger{
				trigger("a", nil, nil),
				trigger("b", nil, nil),
			},
		},
		{
			name: "first present value seeds",
			triggers: []engine.Trigger{
				trigger("a", nil, nil),
				trigger("b", &early, &eventually),
			},
			wantLast: &early,
			wantNext: &eventually,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st, err := lens.AggregateStatus(context.Background(), tt.triggers, stateByName(nil))
			if err != nil {
				t.Fatalf("AggregateStatus: %v", err)
			}

			checkTime(t, "LastFireTime", st.LastFireTime, tt.wantLast)
			checkTime(t, "NextFireTime", st.NextFireTime, tt.wantNext)
		})
	}
}

func checkTime(t *testing.T, field string, got, want *time.Time) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %v, want nil", field, got)
	case want != nil && got == nil:
		t.Errorf("%s = nil, want %v", field, want)
	case want != nil && !got.Equal(*want):
		t.Errorf("%s = %v, want %v", field, got, want)
	}
}

func TestAggregateStatusStateLookupError(t *testing.T) {
	t.Parallel()

	errOffline := errors.New("state store offline")
	triggers := []engine.Trigger{trigger("a", nil, nil), trigger("b", nil, nil)}

	failOn := func(name string) lens.StateFunc {
		return func(_ context.Context, key engine.TriggerKey) (engine.TriggerState, error) {
			if key.Name == name {
				return engine.StateNone, errOffline
			}
			return engine.StateNormal, nil
		}
	}

	for _, name := range []string{"a", "b"} {
		st, err := lens.AggregateStatus(context.Background(), triggers, failOn(name))
		if !errors.Is(err, errOffline) {
			t.Fatalf("failing %q: error = %v, want %v", name, err, errOffline)
		}
		if st != (lens.Status{}) {
			t.Errorf("failing %q: partial status %+v, want zero", name, st)
		}
	}
}

// State is read for every trigger, not just until the first normal one.
func TestAggregateStatusQueriesEveryTrigger(t *testing.T) {
	t.Parallel()

	triggers := []engine.Trigger{
		trigger("a", nil, nil),
		trigger("b", nil, nil),
		trigger("c", nil, nil),
	}

	var calls int
	count := func(_ context.Context, _ engine.TriggerKey) (engine.TriggerState, error) {
		calls++
		return engine.StateNormal, nil
	}

	if _, err := lens.AggregateStatus(context.Background(), triggers, count); err != nil {
		t.Fatalf("AggregateStatus: %v", err)
	}
	if calls != len(triggers) {
		t.Errorf("state lookups = %d, want %d", calls, len(triggers))
	}
}
