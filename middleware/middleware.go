package middleware

import (
	"context"

	"github.com/xraph/lens/engine"
)

// Handler is the terminal function that performs the engine query.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic. It receives the
// current context, the query being made, and the next handler to call.
// Middleware MUST call next to continue the chain (unless
// short-circuiting on error).
type Middleware func(ctx context.Context, op Op, next Handler) error

// Op describes the engine query a middleware is wrapping.
type Op struct {
	// Name is the engine method being invoked, e.g. "JobKeys" or
	// "TriggerState".
	Name string

	// JobKey is set for job-addressed queries (JobDetail, TriggersOfJob,
	// JobData), nil otherwise.
	JobKey *engine.JobKey

	// TriggerKey is set for trigger-addressed queries (TriggerState),
	// nil otherwise.
	TriggerKey *engine.TriggerKey
}

// Target returns the key the query addresses in "group.name" form, or
// "" for collection-wide queries.
func (op Op) Target() string {
	switch {
	case op.JobKey != nil:
		return op.JobKey.String()
	case op.TriggerKey != nil:
		return op.TriggerKey.String()
	default:
		return ""
	}
}

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, tracing, rateLimit) executes as:
//
//	logging → tracing → rateLimit → query
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, op Op, next Handler) error {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, op, prev)
			}
		}
		return h(ctx)
	}
}

// Wrap decorates an engine so that every query runs through the given
// middleware chain. With no middleware the engine is returned unchanged.
func Wrap(e engine.Engine, mws ...Middleware) engine.Engine {
	if len(mws) == 0 {
		return e
	}
	return &wrapped{next: e, chain: Chain(mws...)}
}

type wrapped struct {
	next  engine.Engine
	chain Middleware
}

var _ engine.Engine = (*wrapped)(nil)

func (w *wrapped) JobKeys(ctx context.Context) ([]engine.JobKey, error) {
	var keys []engine.JobKey
	err := w.chain(ctx, Op{Name: "JobKeys"}, func(ctx context.Context) error {
		var err error
		keys, err = w.next.JobKeys(ctx)
		return err
	})
	return keys, err
}

func (w *wrapped) JobGroupNames(ctx context.Context) ([]string, error) {
	var groups []string
	err := w.chain(ctx, Op{Name: "JobGroupNames"}, func(ctx context.Context) error {
		var err error
		groups, err = w.next.JobGroupNames(ctx)
		return err
	})
	return groups, err
}

func (w *wrapped) TriggerGroupNames(ctx context.Context) ([]string, error) {
	var groups []string
	err := w.chain(ctx, Op{Name: "TriggerGroupNames"}, func(ctx context.Context) error {
		var err error
		groups, err = w.next.TriggerGroupNames(ctx)
		return err
	})
	return groups, err
}

func (w *wrapped) JobDetail(ctx context.Context, key engine.JobKey) (*engine.JobDetail, error) {
	var detail *engine.JobDetail
	err := w.chain(ctx, Op{Name: "JobDetail", JobKey: &key}, func(ctx context.Context) error {
		var err error
		detail, err = w.next.JobDetail(ctx, key)
		return err
	})
	return detail, err
}

func (w *wrapped) TriggersOfJob(ctx context.Context, key engine.JobKey) ([]engine.Trigger, error) {
	var triggers []engine.Trigger
	err := w.chain(ctx, Op{Name: "TriggersOfJob", JobKey: &key}, func(ctx context.Context) error {
		var err error
		triggers, err = w.next.TriggersOfJob(ctx, key)
		return err
	})
	return triggers, err
}

func (w *wrapped) TriggerState(ctx context.Context, key engine.TriggerKey) (engine.TriggerState, error) {
	var state engine.TriggerState
	err := w.chain(ctx, Op{Name: "TriggerState", TriggerKey: &key}, func(ctx context.Context) error {
		var err error
		state, err = w.next.TriggerState(ctx, key)
		return err
	})
	return state, err
}

func (w *wrapped) JobData(ctx context.Context, key engine.JobKey) ([]engine.DataEntry, error) {
	var entries []engine.DataEntry
	err := w.chain(ctx, Op{Name: "JobData", JobKey: &key}, func(ctx context.Context) error {
		var err error
		entries, err = w.next.JobData(ctx, key)
		return err
	})
	return entries, err
}
