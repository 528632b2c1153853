package lens

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/lens/engine"
)

// Inspector answers read-only questions about a running scheduler. It
// holds no state between calls; every operation re-queries the engine,
// runs on the calling goroutine, and performs no locking of its own.
// Consistency under concurrent scheduler mutation is whatever the
// engine provides.
//
// Operations never fail from the caller's point of view: any engine
// error is logged as a warning and the operation returns an empty
// list. A failure while aggregating one job empties the whole ListJobs
// result, not just that job's entry, so the lists stay all-or-nothing.
type Inspector struct {
	engine engine.Engine
	logger *slog.Logger
}

// NewInspector returns an Inspector reading from the given engine.
func NewInspector(e engine.Engine, opts ...Option) (*Inspector, error) {
	if e == nil {
		return nil, ErrNoEngine
	}

	in := &Inspector{
		engine: e,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in, nil
}

// ListJobs enumerates every job known to the engine together with its
// aggregate status, in the engine's enumeration order.
func (in *Inspector) ListJobs(ctx context.Context) []JobDescriptor {
	jobs, err := in.collectJobs(ctx)
	if err != nil {
		in.logger.Warn("job listing failed", slog.String("error", err.Error()))
		return []JobDescriptor{}
	}
	return jobs
}

func (in *Inspector) collectJobs(ctx context.Context) ([]JobDescriptor, error) {
	keys, err := in.engine.JobKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("job keys: %w", err)
	}

	jobs := make([]JobDescriptor, 0, len(keys))
	for _, key := range keys {
		detail, err := in.engine.JobDetail(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("job detail %s: %w", key, err)
		}
		triggers, err := in.engine.TriggersOfJob(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("triggers of %s: %w", key, err)
		}
		status, err := AggregateStatus(ctx, triggers, in.engine.TriggerState)
		if err != nil {
			return nil, fmt.Errorf("status of %s: %w", key, err)
		}

		jobs = append(jobs, JobDescriptor{
			Name:               key.Name,
			Group:              key.Group,
			JobType:            detail.JobType,
			DisallowConcurrent: detail.DisallowConcurrent,
			Active:             status.Active,
			LastFireTime:       status.LastFireTime,
			NextFireTime:       status.NextFireTime,
		})
	}
	return jobs, nil
}

// ListJobParameters lists a job's data map entries with every value
// rendered as a string, in the map's own order. Nil values render as
// the empty string.
func (in *Inspector) ListJobParameters(ctx context.Context, key engine.JobKey) []JobParameter {
	entries, err := in.engine.JobData(ctx, key)
	if err != nil {
		in.logger.Warn("job parameter listing failed",
			slog.String("job", key.String()),
			slog.String("error", err.Error()),
		)
		return []JobParameter{}
	}

	params := make([]JobParameter, 0, len(entries))
	for _, e := range entries {
		params = append(params, JobParameter{Key: e.Key, Value: stringify(e.Value)})
	}
	return params
}

// ListJobTriggers lists a job's triggers as classified descriptors, in
// the engine's enumeration order.
func (in *Inspector) ListJobTriggers(ctx context.Context, key engine.JobKey) []TriggerDescriptor {
	triggers, err := in.engine.TriggersOfJob(ctx, key)
	if err != nil {
		in.logger.Warn("job trigger listing failed",
			slog.String("job", key.String()),
			slog.String("error", err.Error()),
		)
		return []TriggerDescriptor{}
	}

	descriptors := make([]TriggerDescriptor, 0, len(triggers))
	for _, t := range triggers {
		descriptors = append(descriptors, Classify(t))
	}
	return descriptors
}

// ListJobGroups lists the engine's job group names.
func (in *Inspector) ListJobGroups(ctx context.Context) []string {
	groups, err := in.engine.JobGroupNames(ctx)
	if err != nil {
		in.logger.Warn("job group listing failed", slog.String("error", err.Error()))
		return []string{}
	}
	if groups == nil {
		groups = []string{}
	}
	return groups
}

// ListTriggerGroups lists the engine's trigger group names.
func (in *Inspector) ListTriggerGroups(ctx context.Context) []string {
	groups, err := in.engine.TriggerGroupNames(ctx)
	if err != nil {
		in.logger.Warn("trigger group listing failed", slog.String("error", err.Error()))
		return []string{}
	}
	if groups == nil {
		groups = []string{}
	}
	return groups
}

// stringify renders one data map value the way listings show it.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
