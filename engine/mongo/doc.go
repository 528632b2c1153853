// Package mongo implements engine.Engine over MongoDB using the official
// driver. Jobs live in the sched_jobs collection with their data entries
// embedded as an ordered array; triggers live in sched_triggers. A seq
// field on every document carries registration order, and listings sort
// on it.
//
// The adapter is a read-only view: it never inserts, updates or deletes
// documents. The scheduler that owns the collections is expected to keep
// them current.
//
// # Usage
//
//	eng, err := mongo.Connect(ctx, "mongodb://localhost:27017", "sched")
//	if err != nil {
//		return err
//	}
//	defer eng.Close(ctx)
//
//	insp := lens.New(eng)
//
// An existing database handle can be shared instead; the caller then owns
// the client lifecycle and Close becomes a no-op:
//
//	eng := mongo.New(client.Database("sched"))
//
// Document _id values join group and name with "/", so neither part may
// contain that character.
package mongo
