package engine

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrJobNotFound is returned by JobDetail and JobData when no job
	// exists for the given key.
	ErrJobNotFound = errors.New("lens/engine: job not found")
)

// DefaultGroup is the group assigned to job and trigger keys that were
// created without an explicit group.
const DefaultGroup = "DEFAULT"

// JobKey identifies a job within the engine. Name and Group are unique
// together.
type JobKey struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

// NewJobKey returns a JobKey in DefaultGroup.
func NewJobKey(name string) JobKey {
	return JobKey{Name: name, Group: DefaultGroup}
}

// Normalized returns the key with an empty group replaced by DefaultGroup.
func (k JobKey) Normalized() JobKey {
	if k.Group == "" {
		k.Group = DefaultGroup
	}
	return k
}

// String returns the key in "group.name" form, the form used in logs.
func (k JobKey) String() string { return k.Group + "." + k.Name }

// TriggerKey identifies a trigger within the engine. Name and Group are
// unique together, independently of job keys.
type TriggerKey struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

// NewTriggerKey returns a TriggerKey in DefaultGroup.
func NewTriggerKey(name string) TriggerKey {
	return TriggerKey{Name: name, Group: DefaultGroup}
}

// Normalized returns the key with an empty group replaced by DefaultGroup.
func (k TriggerKey) Normalized() TriggerKey {
	if k.Group == "" {
		k.Group = DefaultGroup
	}
	return k
}

// String returns the key in "group.name" form.
func (k TriggerKey) String() string { return k.Group + "." + k.Name }

// TriggerState is the live state of a trigger.
type TriggerState string

const (
	// StateNormal marks a trigger that is eligible to fire.
	StateNormal TriggerState = "normal"
	// StatePaused marks a trigger that has been paused.
	StatePaused TriggerState = "paused"
	// StateComplete marks a trigger that will not fire again.
	StateComplete TriggerState = "complete"
	// StateError marks a trigger whose last firing attempt failed.
	StateError TriggerState = "error"
	// StateBlocked marks a trigger held back by a concurrency constraint.
	StateBlocked TriggerState = "blocked"
	// StateNone is reported for triggers the engine does not know about.
	StateNone TriggerState = "none"
)

// JobDetail describes a job as registered with the engine.
type JobDetail struct {
	Key JobKey `json:"key"`

	// JobType is the name of the type implementing the job.
	JobType string `json:"job_type"`

	// DisallowConcurrent reports whether the engine refuses to run two
	// instances of this job at the same time.
	DisallowConcurrent bool `json:"disallow_concurrent"`
}

// DataEntry is one key/value pair from a job's data map. The value may
// be nil. Engines return entries in the data map's own order.
type DataEntry struct {
	Key   string
	Value any
}

// Schedule describes how a trigger fires. The set of implementations is
// closed: IntervalSchedule, ExpressionSchedule, or nil for a trigger
// whose scheduling discipline the engine cannot express.
type Schedule interface {
	isSchedule()
}

// IntervalSchedule fires at a fixed interval a fixed number of times.
// RepeatCount counts the fires after the first one, matching how
// schedulers commonly store it.
type IntervalSchedule struct {
	RepeatCount    int           `json:"repeat_count"`
	RepeatInterval time.Duration `json:"repeat_interval"`
}

func (IntervalSchedule) isSchedule() {}

// ExpressionSchedule fires according to a calendar expression such as a
// cron spec.
type ExpressionSchedule struct {
	Expression string `json:"expression"`
}

func (ExpressionSchedule) isSchedule() {}

// Trigger is a schedule attached to a job, as reported by the engine.
// Classification into a Schedule variant happens once, when the engine
// materializes the trigger.
type Trigger struct {
	Key              TriggerKey
	Schedule         Schedule
	StartTime        time.Time
	PreviousFireTime *time.Time
	NextFireTime     *time.Time
}

// Engine is the read-side contract a scheduler exposes for
// introspection. Implementations live under engine/ (memory, redis,
// bun, postgres, mongo); callers own the lifecycle of whatever client
// or pool backs them.
//
// Enumeration order is whatever the backing engine yields; callers must
// not rely on any particular order beyond its stability within a single
// call.
type Engine interface {
	// JobKeys lists every job key across all job groups.
	JobKeys(ctx context.Context) ([]JobKey, error)

	// JobGroupNames lists the distinct job group names.
	JobGroupNames(ctx context.Context) ([]string, error)

	// TriggerGroupNames lists the distinct trigger group names.
	TriggerGroupNames(ctx context.Context) ([]string, error)

	// JobDetail fetches a job's registration detail. It returns
	// ErrJobNotFound when no job exists for the key.
	JobDetail(ctx context.Context, key JobKey) (*JobDetail, error)

	// TriggersOfJob fetches the triggers attached to a job, in the
	// engine's order. An unknown job yields an empty slice, not an
	// error.
	TriggersOfJob(ctx context.Context, key JobKey) ([]Trigger, error)

	// TriggerState reports the live state of one trigger. An unknown
	// trigger yields StateNone, not an error.
	TriggerState(ctx context.Context, key TriggerKey) (TriggerState, error)

	// JobData fetches a job's data map as ordered entries. It returns
	// ErrJobNotFound when no job exists for the key.
	JobData(ctx context.Context, key JobKey) ([]DataEntry, error)
}
