package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/xraph/lens/engine"
)

// Ensure Engine implements engine.Engine at compile time.
var _ engine.Engine = (*Engine)(nil)

var (
	// ErrJobExists is returned by AddJob for a duplicate job key.
	ErrJobExists = errors.New("lens/memory: job already exists")
	// ErrTriggerExists is returned by AddTrigger for a duplicate
	// trigger key.
	ErrTriggerExists = errors.New("lens/memory: trigger already exists")
	// ErrTriggerNotFound is returned by SetTriggerState for an unknown
	// trigger key.
	ErrTriggerNotFound = errors.New("lens/memory: trigger not found")
)

// cronParser supports standard 5-field cron and descriptors like "@every 30s".
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// Engine is a fully in-memory scheduler engine. Safe for concurrent
// access. Intended for unit testing, development, and embedding where
// the scheduler state lives in-process.
//
// Jobs and triggers enumerate in insertion order. The read side is the
// engine.Engine contract; the Add/Set/Remove mutators exist because
// here the engine itself is in-process and something has to own its
// state. Introspection built on top stays read-only.
type Engine struct {
	mu sync.RWMutex

	jobs     []*jobRecord // insertion order
	byJob    map[engine.JobKey]*jobRecord
	triggers []*triggerRecord // insertion order
	byTrig   map[engine.TriggerKey]*triggerRecord

	now func() time.Time
}

type jobRecord struct {
	detail engine.JobDetail
	data   []engine.DataEntry
}

type triggerRecord struct {
	trigger engine.Trigger
	jobKey  engine.JobKey
	state   engine.TriggerState
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used to derive next fire times.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New returns a new empty Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		byJob:  make(map[engine.JobKey]*jobRecord),
		byTrig: make(map[engine.TriggerKey]*triggerRecord),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ──────────────────────────────────────────────────
// Seeding mutators
// ──────────────────────────────────────────────────

// JobConfig seeds one job.
type JobConfig struct {
	Name               string
	Group              string // empty means engine.DefaultGroup
	JobType            string
	DisallowConcurrent bool
	Data               []engine.DataEntry
}

// TriggerConfig seeds one trigger attached to an existing job.
type TriggerConfig struct {
	Name     string
	Group    string // empty means engine.DefaultGroup
	JobName  string
	JobGroup string

	// Schedule may be nil for a trigger whose scheduling discipline
	// the engine cannot express.
	Schedule engine.Schedule

	StartTime        time.Time  // zero means now
	PreviousFireTime *time.Time
	NextFireTime     *time.Time // nil derives from Schedule for normal triggers

	State engine.TriggerState // empty means StateNormal
}

// AddJob registers a job.
func (e *Engine) AddJob(cfg JobConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("lens/memory: job name is required")
	}
	key := engine.JobKey{Name: cfg.Name, Group: cfg.Group}.Normalized()

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.byJob[key]; exists {
		return ErrJobExists
	}

	rec := &jobRecord{
		detail: engine.JobDetail{
			Key:                key,
			JobType:            cfg.JobType,
			DisallowConcurrent: cfg.DisallowConcurrent,
		},
		data: append([]engine.DataEntry(nil), cfg.Data...),
	}
	e.jobs = append(e.jobs, rec)
	e.byJob[key] = rec
	return nil
}

// AddTrigger attaches a trigger to a job. Expression schedules are
// validated up front so introspection never sees a trigger the
// scheduler itself would have rejected.
func (e *Engine) AddTrigger(cfg TriggerConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("lens/memory: trigger name is required")
	}
	key := engine.TriggerKey{Name: cfg.Name, Group: cfg.Group}.Normalized()
	jobKey := engine.JobKey{Name: cfg.JobName, Group: cfg.JobGroup}.Normalized()

	var parsed cronlib.Schedule
	if expr, ok := cfg.Schedule.(engine.ExpressionSchedule); ok {
		var err error
		parsed, err = cronParser.Parse(expr.Expression)
		if err != nil {
			return fmt.Errorf("lens/memory: parse expression %q: %w", expr.Expression, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.byJob[jobKey]; !ok {
		return engine.ErrJobNotFound
	}
	if _, exists := e.byTrig[key]; exists {
		return ErrTriggerExists
	}

	state := cfg.State
	if state == "" {
		state = engine.StateNormal
	}
	start := cfg.StartTime
	if start.IsZero() {
		start = e.now().UTC()
	}
	next := cfg.NextFireTime
	if next == nil && state == engine.StateNormal {
		next = e.deriveNextFire(cfg.Schedule, parsed, start)
	}

	rec := &triggerRecord{
		trigger: engine.Trigger{
			Key:              key,
			Schedule:         cfg.Schedule,
			StartTime:        start,
			PreviousFireTime: copyTime(cfg.PreviousFireTime),
			NextFireTime:     copyTime(next),
		},
		jobKey: jobKey,
		state:  state,
	}
	e.triggers = append(e.triggers, rec)
	e.byTrig[key] = rec
	return nil
}

// deriveNextFire computes an upcoming fire time for a freshly added
// trigger. A firing scheduler owns these values; this is the minimal
// bookkeeping an in-process engine needs for introspection to say
// something useful.
func (e *Engine) deriveNextFire(s engine.Schedule, parsed cronlib.Schedule, start time.Time) *time.Time {
	now := e.now().UTC()
	switch sc := s.(type) {
	case engine.ExpressionSchedule:
		next := parsed.Next(now)
		if next.IsZero() {
			return nil
		}
		return &next
	case engine.IntervalSchedule:
		if start.After(now) {
			t := start
			return &t
		}
		t := now.Add(sc.RepeatInterval)
		return &t
	default:
		return nil
	}
}

// SetTriggerState moves a trigger to the given live state.
func (e *Engine) SetTriggerState(key engine.TriggerKey, state engine.TriggerState) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.byTrig[key.Normalized()]
	if !ok {
		return ErrTriggerNotFound
	}
	rec.state = state
	return nil
}

// RemoveJob deletes a job and every trigger attached to it. Removing
// an unknown job is a no-op.
func (e *Engine) RemoveJob(key engine.JobKey) {
	key = key.Normalized()

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.byJob[key]; !ok {
		return
	}
	delete(e.byJob, key)

	jobs := make([]*jobRecord, 0, len(e.jobs))
	for _, r := range e.jobs {
		if r.detail.Key != key {
			jobs = append(jobs, r)
		}
	}
	e.jobs = jobs

	triggers := make([]*triggerRecord, 0, len(e.triggers))
	for _, r := range e.triggers {
		if r.jobKey == key {
			delete(e.byTrig, r.trigger.Key)
			continue
		}
		triggers = append(triggers, r)
	}
	e.triggers = triggers
}

// RemoveTrigger detaches one trigger. Removing an unknown trigger is a
// no-op.
func (e *Engine) RemoveTrigger(key engine.TriggerKey) {
	key = key.Normalized()

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.byTrig[key]; !ok {
		return
	}
	delete(e.byTrig, key)

	triggers := make([]*triggerRecord, 0, len(e.triggers))
	for _, r := range e.triggers {
		if r.trigger.Key != key {
			triggers = append(triggers, r)
		}
	}
	e.triggers = triggers
}

// ──────────────────────────────────────────────────
// engine.Engine
// ──────────────────────────────────────────────────

// JobKeys lists every job key in insertion order.
func (e *Engine) JobKeys(_ context.Context) ([]engine.JobKey, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := make([]engine.JobKey, 0, len(e.jobs))
	for _, r := range e.jobs {
		keys = append(keys, r.detail.Key)
	}
	return keys, nil
}

// JobGroupNames lists distinct job groups in first-seen order.
func (e *Engine) JobGroupNames(_ context.Context) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]struct{}, len(e.jobs))
	groups := make([]string, 0, len(e.jobs))
	for _, r := range e.jobs {
		g := r.detail.Key.Group
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		groups = append(groups, g)
	}
	return groups, nil
}

// TriggerGroupNames lists distinct trigger groups in first-seen order.
func (e *Engine) TriggerGroupNames(_ context.Context) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]struct{}, len(e.triggers))
	groups := make([]string, 0, len(e.triggers))
	for _, r := range e.triggers {
		g := r.trigger.Key.Group
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		groups = append(groups, g)
	}
	return groups, nil
}

// JobDetail returns a copy of the job's registration detail.
func (e *Engine) JobDetail(_ context.Context, key engine.JobKey) (*engine.JobDetail, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, ok := e.byJob[key.Normalized()]
	if !ok {
		return nil, engine.ErrJobNotFound
	}
	detail := rec.detail
	return &detail, nil
}

// TriggersOfJob returns copies of the job's triggers in insertion
// order.
func (e *Engine) TriggersOfJob(_ context.Context, key engine.JobKey) ([]engine.Trigger, error) {
	key = key.Normalized()

	e.mu.RLock()
	defer e.mu.RUnlock()

	triggers := make([]engine.Trigger, 0, 4)
	for _, r := range e.triggers {
		if r.jobKey == key {
			triggers = append(triggers, copyTrigger(r.trigger))
		}
	}
	return triggers, nil
}

// TriggerState reports a trigger's live state, StateNone for unknown
// keys.
func (e *Engine) TriggerState(_ context.Context, key engine.TriggerKey) (engine.TriggerState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, ok := e.byTrig[key.Normalized()]
	if !ok {
		return engine.StateNone, nil
	}
	return rec.state, nil
}

// JobData returns a copy of the job's data entries in insertion order.
func (e *Engine) JobData(_ context.Context, key engine.JobKey) ([]engine.DataEntry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, ok := e.byJob[key.Normalized()]
	if !ok {
		return nil, engine.ErrJobNotFound
	}
	return append([]engine.DataEntry(nil), rec.data...), nil
}

// Return copies so callers can't mutate engine state through shared
// pointers.
func copyTrigger(t engine.Trigger) engine.Trigger {
	t.PreviousFireTime = copyTime(t.PreviousFireTime)
	t.NextFireTime = copyTime(t.NextFireTime)
	return t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
