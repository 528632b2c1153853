package lens

import "time"

// JobDescriptor is the aggregate view of one job: its registration
// detail plus the status reduced from all of its triggers. Descriptors
// are built fresh on every listing call and never mutated afterwards.
type JobDescriptor struct {
	Name  string `json:"name"`
	Group string `json:"group"`

	// JobType is the name of the type implementing the job, copied
	// verbatim from the engine's job detail.
	JobType string `json:"job_type"`

	// DisallowConcurrent is copied verbatim from the engine's job
	// detail.
	DisallowConcurrent bool `json:"disallow_concurrent"`

	// Active reports whether any of the job's triggers is currently
	// eligible to fire. A job with no triggers is never active.
	Active bool `json:"active"`

	// LastFireTime is the most recent previous fire across the job's
	// triggers, nil when none has fired yet.
	LastFireTime *time.Time `json:"last_fire_time,omitempty"`

	// NextFireTime is the soonest upcoming fire across the job's
	// triggers, nil when none will fire.
	NextFireTime *time.Time `json:"next_fire_time,omitempty"`
}

// TriggerDescriptor is the classified view of one trigger. Exactly one
// set of kind-specific fields is populated: Expression for expression
// triggers, RepeatCount/RepeatInterval for interval triggers.
type TriggerDescriptor struct {
	Name  string       `json:"name"`
	Group string       `json:"group"`
	Kind  ScheduleKind `json:"kind"`

	StartTime    time.Time  `json:"start_time"`
	LastFireTime *time.Time `json:"last_fire_time,omitempty"`
	NextFireTime *time.Time `json:"next_fire_time,omitempty"`

	// Expression is the calendar expression of an expression trigger.
	Expression string `json:"expression,omitempty"`

	// RepeatCount is the total number of times an interval trigger
	// fires, counting the first fire. Always at least 1 for interval
	// triggers.
	RepeatCount int `json:"repeat_count,omitempty"`

	// RepeatInterval is the pause between an interval trigger's fires.
	RepeatInterval time.Duration `json:"repeat_interval,omitempty"`
}

// JobParameter is one entry of a job's data map, its value rendered as
// a string. A nil value renders as the empty string.
type JobParameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
