// Package engine defines the read-side contract between a running job
// scheduler and the lens introspection core.
//
// The Engine interface covers exactly the queries introspection needs:
// enumerating job keys and group names, fetching per-job detail and
// triggers, reading a trigger's live state, and reading a job's data
// map. Nothing in this package mutates scheduler state.
//
// Triggers carry a closed Schedule variant, classified once when the
// engine materializes them:
//
//	IntervalSchedule   -- fixed repeat count and interval
//	ExpressionSchedule -- calendar expression (cron-like)
//	nil                -- scheduling discipline the engine cannot express
//
// Backends implement Engine one package per store:
//
//	engine/memory   -- in-process engine, also the test double
//	engine/redis    -- go-redis over a documented key layout
//	engine/bun      -- bun ORM over the reference SQL schema
//	engine/postgres -- pgx over the same schema
//	engine/mongo    -- official MongoDB driver
//
// All backends share the same edge semantics: an unknown job yields
// ErrJobNotFound from JobDetail and JobData but an empty slice from
// TriggersOfJob, and an unknown trigger yields StateNone.
package engine
