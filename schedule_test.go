package lens_test

import (
	"testing"
	"time"

	"github.com/xraph/lens"
	"github.com/xraph/lens/engine"
)

func TestClassifyInterval(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	prev := start.Add(time.Hour)
	next := start.Add(2 * time.Hour)

	tests := []struct {
		name            string
		repeatCount     int
		wantRepeatCount int
	}{
		{name: "repeat 4 reports 5 total fires", repeatCount: 4, wantRepeatCount: 5},
		{name: "repeat 0 reports the single fire", repeatCount: 0, wantRepeatCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := lens.Classify(engine.Trigger{
				Key: engine.TriggerKey{Name: "steady", Group: "batch"},
				Schedule: engine.IntervalSchedule{
					RepeatCount:    tt.repeatCount,
					RepeatInterval: 30 * time.Second,
				},
				StartTime:        start,
				PreviousFireTime: &prev,
				NextFireTime:     &next,
			})

			if d.Kind != lens.ScheduleInterval {
				t.Errorf("Kind = %q, want %q", d.Kind, lens.ScheduleInterval)
			}
			if d.RepeatCount != tt.wantRepeatCount {
				t.Errorf("RepeatCount = %d, want %d", d.RepeatCount, tt.wantRepeatCount)
			}
			if d.RepeatInterval != 30*time.Second {
				t.Errorf("RepeatInterval = %v, want %v", d.RepeatInterval, 30*time.Second)
			}
			if d.Expression != "" {
				t.Errorf("interval trigger carries expression %q", d.Expression)
			}
			if d.Name != "steady" || d.Group != "batch" {
				t.Errorf("key = %s/%s, want batch/steady", d.Group, d.Name)
			}
			if !d.StartTime.Equal(start) {
				t.Errorf("StartTime = %v, want %v", d.StartTime, start)
			}
			if d.LastFireTime == nil || !d.LastFireTime.Equal(prev) {
				t.Errorf("LastFireTime = %v, want %v", d.LastFireTime, prev)
			}
			if d.NextFireTime == nil || !d.NextFireTime.Equal(next) {
				t.Errorf("NextFireTime = %v, want %v", d.NextFireTime, next)
			}
		})
	}
}

func TestClassifyExpression(t *testing.T) {
	t.Parallel()

	d := lens.Classify(engine.Trigger{
		Key:      engine.TriggerKey{Name: "nightly", Group: "calendars"},
		Schedule: engine.ExpressionSchedule{Expression: "0 9 * * *"},
	})

	if d.Kind != lens.ScheduleExpression {
		t.Errorf("Kind = %q, want %q", d.Kind, lens.ScheduleExpression)
	}
	if d.Expression != "0 9 * * *" {
		t.Errorf("Expression = %q, want %q", d.Expression, "0 9 * * *")
	}
	if d.RepeatCount != 0 || d.RepeatInterval != 0 {
		t.Errorf("expression trigger carries interval fields: count=%d interval=%v",
			d.RepeatCount, d.RepeatInterval)
	}
}

func TestClassifyUnknownFallsBackToExpression(t *testing.T) {
	t.Parallel()

	d := lens.Classify(engine.Trigger{
		Key: engine.TriggerKey{Name: "opaque", Group: engine.DefaultGroup},
	})

	if d.Kind != lens.ScheduleExpression {
		t.Errorf("Kind = %q, want %q", d.Kind, lens.ScheduleExpression)
	}
	if d.Expression != "" {
		t.Errorf("fallback carries expression %q", d.Expression)
	}
	if d.RepeatCount != 0 || d.RepeatInterval != 0 {
		t.Errorf("fallback carries interval fields: count=%d interval=%v",
			d.RepeatCount, d.RepeatInterval)
	}
}
