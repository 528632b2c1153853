package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xraph/lens/engine"
)

// Compile-time interface check.
var _ engine.Engine = (*Engine)(nil)

// Option configures the Engine.
type Option func(*Engine)

// WithKeyPrefix overrides the default "sched:" key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(e *Engine) { e.prefix = prefix }
}

// Engine implements engine.Engine over scheduler state in Redis. The
// caller owns the Redis client lifecycle.
type Engine struct {
	client redis.Cmdable
	prefix string
}

// New creates a Redis-backed engine view.
func New(client redis.Cmdable, opts ...Option) *Engine {
	e := &Engine{client: client, prefix: defaultKeyPrefix}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Client returns the underlying Redis client.
func (e *Engine) Client() redis.Cmdable { return e.client }

// Ping verifies the Redis connection is alive.
func (e *Engine) Ping(ctx context.Context) error {
	return e.client.Ping(ctx).Err()
}

// ── JSON documents ──

// keyRef is the {"name","group"} member stored in enumeration lists.
type keyRef struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

type jobDocument struct {
	Name               string `json:"name"`
	Group              string `json:"group"`
	JobType            string `json:"job_type"`
	DisallowConcurrent bool   `json:"disallow_concurrent"`
}

type triggerDocument struct {
	Name             string     `json:"name"`
	Group            string     `json:"group"`
	JobName          string     `json:"job_name"`
	JobGroup         string     `json:"job_group"`
	Kind             string     `json:"kind"`
	Expression       string     `json:"expression,omitempty"`
	RepeatCount      int        `json:"repeat_count,omitempty"`
	RepeatInterval   int64      `json:"repeat_interval,omitempty"` // nanoseconds
	StartTime        time.Time  `json:"start_time"`
	PreviousFireTime *time.Time `json:"previous_fire_time,omitempty"`
	NextFireTime     *time.Time `json:"next_fire_time,omitempty"`
	State            string     `json:"state"`
}

type dataDocument struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// toTrigger classifies the stored kind into a schedule variant. Unknown
// kinds map to a nil schedule.
func (d *triggerDocument) toTrigger() engine.Trigger {
	t := engine.Trigger{
		Key:              engine.TriggerKey{Name: d.Name, Group: d.Group},
		StartTime:        d.StartTime,
		PreviousFireTime: d.PreviousFireTime,
		NextFireTime:     d.NextFireTime,
	}
	switch d.Kind {
	case "interval":
		t.Schedule = engine.IntervalSchedule{
			RepeatCount:    d.RepeatCount,
			RepeatInterval: time.Duration(d.RepeatInterval),
		}
	case "expression":
		t.Schedule = engine.ExpressionSchedule{Expression: d.Expression}
	}
	return t
}

// ── engine.Engine ──

// JobKeys lists every job key in registration order.
func (e *Engine) JobKeys(ctx context.Context) ([]engine.JobKey, error) {
	refs, err := e.listRefs(ctx, e.jobsKey())
	if err != nil {
		return nil, fmt.Errorf("lens/redis: job keys: %w", err)
	}
	keys := make([]engine.JobKey, 0, len(refs))
	for _, ref := range refs {
		keys = append(keys, engine.JobKey{Name: ref.Name, Group: ref.Group})
	}
	return keys, nil
}

// JobGroupNames lists distinct job groups in first-seen order.
func (e *Engine) JobGroupNames(ctx context.Context) ([]string, error) {
	refs, err := e.listRefs(ctx, e.jobsKey())
	if err != nil {
		return nil, fmt.Errorf("lens/redis: job group names: %w", err)
	}
	return distinctGroups(refs), nil
}

// TriggerGroupNames lists distinct trigger groups in first-seen order.
func (e *Engine) TriggerGroupNames(ctx context.Context) ([]string, error) {
	refs, err := e.listRefs(ctx, e.triggersKey())
	if err != nil {
		return nil, fmt.Errorf("lens/redis: trigger group names: %w", err)
	}
	return distinctGroups(refs), nil
}

// JobDetail fetches one job document.
func (e *Engine) JobDetail(ctx context.Context, key engine.JobKey) (*engine.JobDetail, error) {
	key = key.Normalized()
	raw, err := e.client.Get(ctx, e.jobKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, engine.ErrJobNotFound
		}
		return nil, fmt.Errorf("lens/redis: job detail %s: %w", key, err)
	}
	var doc jobDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("lens/redis: decode job %s: %w", key, err)
	}
	return &engine.JobDetail{
		Key:                engine.JobKey{Name: doc.Name, Group: doc.Group},
		JobType:            doc.JobType,
		DisallowConcurrent: doc.DisallowConcurrent,
	}, nil
}

// TriggersOfJob fetches the job's trigger documents in list order. An
// unknown job has no trigger list and yields an empty slice.
func (e *Engine) TriggersOfJob(ctx context.Context, key engine.JobKey) ([]engine.Trigger, error) {
	key = key.Normalized()
	refs, err := e.listRefs(ctx, e.jobTriggersKey(key))
	if err != nil {
		return nil, fmt.Errorf("lens/redis: triggers of %s: %w", key, err)
	}

	triggers := make([]engine.Trigger, 0, len(refs))
	for _, ref := range refs {
		doc, getErr := e.getTrigger(ctx, engine.TriggerKey{Name: ref.Name, Group: ref.Group})
		if getErr != nil {
			if errors.Is(getErr, redis.Nil) {
				continue // dangling ref
			}
			return nil, fmt.Errorf("lens/redis: triggers of %s: %w", key, getErr)
		}
		triggers = append(triggers, doc.toTrigger())
	}
	return triggers, nil
}

// TriggerState reports the state field of one trigger document,
// StateNone for unknown keys.
func (e *Engine) TriggerState(ctx context.Context, key engine.TriggerKey) (engine.TriggerState, error) {
	key = key.Normalized()
	doc, err := e.getTrigger(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return engine.StateNone, nil
		}
		return engine.StateNone, fmt.Errorf("lens/redis: trigger state %s: %w", key, err)
	}
	if doc.State == "" {
		// Document present but state never written: schedulable.
		return engine.StateNormal, nil
	}
	return engine.TriggerState(doc.State), nil
}

// JobData fetches the job's data entries in list order.
func (e *Engine) JobData(ctx context.Context, key engine.JobKey) ([]engine.DataEntry, error) {
	key = key.Normalized()
	exists, err := e.client.Exists(ctx, e.jobKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("lens/redis: job data %s: %w", key, err)
	}
	if exists == 0 {
		return nil, engine.ErrJobNotFound
	}

	raws, err := e.client.LRange(ctx, e.jobDataKey(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lens/redis: job data %s: %w", key, err)
	}
	entries := make([]engine.DataEntry, 0, len(raws))
	for _, raw := range raws {
		var d dataDocument
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("lens/redis: decode data entry of %s: %w", key, err)
		}
		entries = append(entries, engine.DataEntry{Key: d.Key, Value: d.Value})
	}
	return entries, nil
}

// ── helpers ──

// listRefs reads a whole List of key refs.
func (e *Engine) listRefs(ctx context.Context, key string) ([]keyRef, error) {
	raws, err := e.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	refs := make([]keyRef, 0, len(raws))
	for _, raw := range raws {
		var ref keyRef
		if err := json.Unmarshal([]byte(raw), &ref); err != nil {
			return nil, fmt.Errorf("decode ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// getTrigger reads one trigger document. Missing documents surface as
// redis.Nil so callers can map them to their own semantics.
func (e *Engine) getTrigger(ctx context.Context, key engine.TriggerKey) (*triggerDocument, error) {
	raw, err := e.client.Get(ctx, e.triggerKey(key)).Result()
	if err != nil {
		return nil, err
	}
	var doc triggerDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode trigger %s: %w", key, err)
	}
	return &doc, nil
}

// distinctGroups folds refs to their groups, first-seen order.
func distinctGroups(refs []keyRef) []string {
	seen := make(map[string]struct{}, len(refs))
	groups := make([]string, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.Group]; ok {
			continue
		}
		seen[ref.Group] = struct{}{}
		groups = append(groups, ref.Group)
	}
	return groups
}
