// Package redis implements engine.Engine over scheduler state kept in
// Redis. The adapter is a read-only view: some external scheduler owns
// and maintains the keys, lens only queries them.
//
// The caller owns the Redis client lifecycle; the adapter never closes
// it. Pass the client through the constructor:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	eng := redisengine.New(client)
//	keys, err := eng.JobKeys(ctx)
//
// # Key Layout
//
// All keys share a prefix, "sched:" unless overridden with
// [WithKeyPrefix]. Lists keep the scheduler's registration order, which
// is the enumeration order this adapter reports.
//
//	sched:jobs                          List of job refs, JSON {"name","group"}
//	sched:job:{group}/{name}            Job document, JSON
//	sched:job:{group}/{name}:data       List of data entries, JSON {"key","value"}
//	sched:job:{group}/{name}:triggers   List of trigger refs, JSON {"name","group"}
//	sched:triggers                      List of every trigger ref
//	sched:trigger:{group}/{name}        Trigger document, JSON, carries live state
//
// Group and name are joined with "/" inside entity keys, so neither may
// contain that character. Trigger documents carry a "kind" field of
// "interval" or "expression" that selects the schedule variant; any
// other value maps to the unknown-schedule case.
package redis
