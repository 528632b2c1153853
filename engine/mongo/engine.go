package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/lens/engine"
)

// Collection name constants.
const (
	colJobs     = "sched_jobs"
	colTriggers = "sched_triggers"
)

var _ engine.Engine = (*Engine)(nil)

// Engine is a read-only MongoDB view over scheduler state.
type Engine struct {
	client     *mongod.Client
	db         *mongod.Database
	ownsClient bool
}

// New creates an Engine over an existing database handle. The caller owns
// the client lifecycle and Close becomes a no-op.
func New(db *mongod.Database) *Engine {
	return &Engine{client: db.Client(), db: db}
}

// Connect creates an Engine by connecting to uri and opening dbName. The
// initial round trip is forced with a ping so that a bad uri fails here
// rather than on the first query. Close disconnects the client created
// here.
func Connect(ctx context.Context, uri, dbName string) (*Engine, error) {
	client, err := mongod.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("lens/mongo: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("lens/mongo: ping: %w", err)
	}

	return &Engine{client: client, db: client.Database(dbName), ownsClient: true}, nil
}

// Database returns the underlying *mongo.Database for advanced usage.
func (e *Engine) Database() *mongod.Database {
	return e.db
}

// Ping checks database connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	return e.client.Ping(ctx, nil)
}

// Close disconnects the client when the Engine owns it. Clients passed in
// through New stay connected.
func (e *Engine) Close(ctx context.Context) error {
	if !e.ownsClient {
		return nil
	}
	if err := e.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("lens/mongo: disconnect: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes used by this adapter when they do not
// exist yet.
func (e *Engine) EnsureIndexes(ctx context.Context) error {
	jobIndexes := []mongod.IndexModel{
		// Listing order.
		{Keys: bson.D{{Key: "seq", Value: 1}}},
	}
	if _, err := e.db.Collection(colJobs).Indexes().CreateMany(ctx, jobIndexes); err != nil {
		return fmt.Errorf("lens/mongo: ensure %s indexes: %w", colJobs, err)
	}

	triggerIndexes := []mongod.IndexModel{
		// Listing order.
		{Keys: bson.D{{Key: "seq", Value: 1}}},
		// Triggers of one job.
		{Keys: bson.D{
			{Key: "job_name", Value: 1},
			{Key: "job_group", Value: 1},
		}},
	}
	if _, err := e.db.Collection(colTriggers).Indexes().CreateMany(ctx, triggerIndexes); err != nil {
		return fmt.Errorf("lens/mongo: ensure %s indexes: %w", colTriggers, err)
	}

	return nil
}

// JobKeys lists every job key in registration order.
func (e *Engine) JobKeys(ctx context.Context) ([]engine.JobKey, error) {
	docs, err := e.listJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("lens/mongo: job keys: %w", err)
	}

	keys := make([]engine.JobKey, 0, len(docs))
	for i := range docs {
		keys = append(keys, engine.JobKey{Name: docs[i].Name, Group: docs[i].Group})
	}
	return keys, nil
}

// JobGroupNames lists the distinct job groups, first registered first.
func (e *Engine) JobGroupNames(ctx context.Context) ([]string, error) {
	docs, err := e.listJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("lens/mongo: job group names: %w", err)
	}

	var groups []string
	seen := make(map[string]bool)
	for i := range docs {
		if g := docs[i].Group; !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// TriggerGroupNames lists the distinct trigger groups, first registered
// first.
func (e *Engine) TriggerGroupNames(ctx context.Context) ([]string, error) {
	docs, err := e.listTriggers(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("lens/mongo: trigger group names: %w", err)
	}

	var groups []string
	seen := make(map[string]bool)
	for i := range docs {
		if g := docs[i].Group; !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// JobDetail fetches a job's registration detail.
func (e *Engine) JobDetail(ctx context.Context, key engine.JobKey) (*engine.JobDetail, error) {
	key = key.Normalized()

	var d jobDocument
	err := e.db.Collection(colJobs).FindOne(ctx, bson.M{"_id": docID(key.Name, key.Group)}).Decode(&d)
	if err != nil {
		if isNoDocuments(err) {
			return nil, engine.ErrJobNotFound
		}
		return nil, fmt.Errorf("lens/mongo: job detail %s: %w", key, err)
	}
	return fromJobDocument(&d), nil
}

// TriggersOfJob fetches the triggers attached to a job in registration
// order. An unknown job yields an empty slice.
func (e *Engine) TriggersOfJob(ctx context.Context, key engine.JobKey) ([]engine.Trigger, error) {
	key = key.Normalized()

	docs, err := e.listTriggers(ctx, bson.M{"job_name": key.Name, "job_group": key.Group})
	if err != nil {
		return nil, fmt.Errorf("lens/mongo: triggers of %s: %w", key, err)
	}

	triggers := make([]engine.Trigger, 0, len(docs))
	for i := range docs {
		triggers = append(triggers, fromTriggerDocument(&docs[i]))
	}
	return triggers, nil
}

// TriggerState reports the live state of one trigger. An unknown trigger
// yields StateNone.
func (e *Engine) TriggerState(ctx context.Context, key engine.TriggerKey) (engine.TriggerState, error) {
	key = key.Normalized()

	var d triggerDocument
	err := e.db.Collection(colTriggers).FindOne(ctx, bson.M{"_id": docID(key.Name, key.Group)}).Decode(&d)
	if err != nil {
		if isNoDocuments(err) {
			return engine.StateNone, nil
		}
		return engine.StateNone, fmt.Errorf("lens/mongo: trigger state %s: %w", key, err)
	}
	if d.State == "" {
		// Document present but state never written: schedulable.
		return engine.StateNormal, nil
	}
	return engine.TriggerState(d.State), nil
}

// JobData fetches a job's data entries in their embedded order.
func (e *Engine) JobData(ctx context.Context, key engine.JobKey) ([]engine.DataEntry, error) {
	key = key.Normalized()

	var d jobDocument
	err := e.db.Collection(colJobs).FindOne(ctx, bson.M{"_id": docID(key.Name, key.Group)}).Decode(&d)
	if err != nil {
		if isNoDocuments(err) {
			return nil, engine.ErrJobNotFound
		}
		return nil, fmt.Errorf("lens/mongo: job data %s: %w", key, err)
	}

	entries := make([]engine.DataEntry, 0, len(d.Data))
	for _, item := range d.Data {
		entries = append(entries, engine.DataEntry{Key: item.Key, Value: item.Value})
	}
	return entries, nil
}

// ── helpers ──────────────────────────────────────────────────────

// listJobs returns every job document sorted by seq.
func (e *Engine) listJobs(ctx context.Context) ([]jobDocument, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := e.db.Collection(colJobs).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []jobDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// listTriggers returns the trigger documents matching filter, sorted by
// seq.
func (e *Engine) listTriggers(ctx context.Context, filter bson.M) ([]triggerDocument, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := e.db.Collection(colTriggers).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []triggerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// docID builds the document _id for a name and group.
func docID(name, group string) string {
	return group + "/" + name
}

// isNoDocuments returns true when err indicates no MongoDB documents found.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}
