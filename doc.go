// Package lens provides read-only introspection over a running job
// scheduler: it enumerates jobs, triggers, and groups, and reduces each
// job's set of triggers to a single human-consumable status (active or
// not, last fire time, next fire time).
//
// Lens is designed as a library, not a service. Point an Inspector at
// any implementation of engine.Engine and call its List operations;
// every call recomputes its answer from live scheduler state, and
// nothing lens does mutates that state.
//
// # Quick Start
//
//	eng := memory.New()
//	// seed eng, or use one of the storage-backed engines
//
//	in, err := lens.NewInspector(eng, lens.WithLogger(logger))
//	if err != nil {
//	    // only fails on a nil engine
//	}
//
//	for _, j := range in.ListJobs(ctx) {
//	    fmt.Println(j.Name, j.Active, j.NextFireTime)
//	}
//
// # Failure Policy
//
// Introspection is best-effort: List operations never return an error.
// Any engine failure is logged as a warning and the affected call
// returns an empty list. The tradeoff is deliberately coarse: a single
// failed trigger-state lookup empties the whole ListJobs result rather
// than dropping one job, so callers can rely on the lists being
// all-or-nothing.
//
// # Architecture
//
// Lens follows a composable engine pattern. The engine package defines
// the read-side contract a scheduler exposes, and one package per
// backend implements it (memory, redis, bun, postgres, mongo). The api
// package mounts the List operations on an HTTP router, and the
// middleware package decorates an engine with logging, tracing,
// metrics, rate limiting, or per-query timeouts.
package lens
