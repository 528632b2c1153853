package redis

import "github.com/xraph/lens/engine"

// Redis key naming conventions for scheduler state. All keys carry the
// engine's prefix, "sched:" by default.

const defaultKeyPrefix = "sched:"

// jobsKey is the List of job refs in registration order: sched:jobs
func (e *Engine) jobsKey() string { return e.prefix + "jobs" }

// jobKey returns the key for a job document: sched:job:{group}/{name}
func (e *Engine) jobKey(k engine.JobKey) string {
	return e.prefix + "job:" + k.Group + "/" + k.Name
}

// jobDataKey returns the List of a job's data entries:
// sched:job:{group}/{name}:data
func (e *Engine) jobDataKey(k engine.JobKey) string {
	return e.jobKey(k) + ":data"
}

// jobTriggersKey returns the List of a job's trigger refs:
// sched:job:{group}/{name}:triggers
func (e *Engine) jobTriggersKey(k engine.JobKey) string {
	return e.jobKey(k) + ":triggers"
}

// triggersKey is the List of every trigger ref: sched:triggers
func (e *Engine) triggersKey() string { return e.prefix + "triggers" }

// triggerKey returns the key for a trigger document:
// sched:trigger:{group}/{name}
func (e *Engine) triggerKey(k engine.TriggerKey) string {
	return e.prefix + "trigger:" + k.Group + "/" + k.Name
}
