package lens

import "github.com/xraph/lens/engine"

// ScheduleKind distinguishes how a trigger decides its fire times.
type ScheduleKind string

const (
	// ScheduleInterval marks triggers that fire a fixed number of times
	// at a fixed interval.
	ScheduleInterval ScheduleKind = "interval"

	// ScheduleExpression marks triggers driven by a calendar
	// expression. Triggers with no recognizable schedule are also
	// reported under this kind, with no expression attached.
	ScheduleExpression ScheduleKind = "expression"
)

// Classify reduces one engine trigger to its descriptor. Interval
// schedules classify as ScheduleInterval, expression schedules as
// ScheduleExpression, and anything else falls back to
// ScheduleExpression with no kind-specific fields set.
func Classify(t engine.Trigger) TriggerDescriptor {
	d := TriggerDescriptor{
		Name:         t.Key.Name,
		Group:        t.Key.Group,
		StartTime:    t.StartTime,
		LastFireTime: t.PreviousFireTime,
		NextFireTime: t.NextFireTime,
	}

	switch s := t.Schedule.(type) {
	case engine.IntervalSchedule:
		d.Kind = ScheduleInterval
		// Engines count fires after the first; the descriptor reports
		// total fires, so a trigger configured to repeat 4 times shows 5.
		d.RepeatCount = s.RepeatCount + 1
		d.RepeatInterval = s.RepeatInterval
	case engine.ExpressionSchedule:
		d.Kind = ScheduleExpression
		d.Expression = s.Expression
	default:
		d.Kind = ScheduleExpression
	}

	return d
}
