package bunengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/xraph/lens/engine"
)

// Compile-time interface check.
var _ engine.Engine = (*Engine)(nil)

// Engine implements engine.Engine over the reference schema through
// Bun.
type Engine struct {
	db     *bun.DB
	ownsDB bool
}

// New wraps an existing *bun.DB. The caller owns the DB lifecycle;
// Close is a no-op.
func New(db *bun.DB) *Engine {
	return &Engine{db: db}
}

// NewFromDSN opens a PostgreSQL connection with pgdriver and wraps it
// in a bun.DB using the pg dialect. Unlike New, the engine owns this
// DB: release it with Close.
func NewFromDSN(dsn string) *Engine {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &Engine{db: db, ownsDB: true}
}

// DB returns the underlying *bun.DB for advanced usage.
func (e *Engine) DB() *bun.DB { return e.db }

// Ping checks database connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Close releases the DB when the engine opened it (NewFromDSN) and is
// a no-op otherwise.
func (e *Engine) Close() error {
	if !e.ownsDB {
		return nil
	}
	return e.db.Close()
}

// Migrate creates the reference schema tables and indexes when they do
// not exist.
func (e *Engine) Migrate(ctx context.Context) error {
	models := []any{
		(*jobModel)(nil),
		(*triggerModel)(nil),
		(*jobDataModel)(nil),
	}
	for _, m := range models {
		if _, err := e.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("lens/bun: create table: %w", err)
		}
	}

	if _, err := e.db.NewCreateIndex().
		Model((*triggerModel)(nil)).
		Index("sched_triggers_job_idx").
		Column("job_name", "job_group").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("lens/bun: create trigger index: %w", err)
	}

	if _, err := e.db.NewCreateIndex().
		Model((*jobDataModel)(nil)).
		Index("sched_job_data_job_idx").
		Column("job_name", "job_group").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("lens/bun: create job data index: %w", err)
	}

	return nil
}

// ── engine.Engine ──────────────────────────────────────────────────

// JobKeys lists every job key in registration order.
func (e *Engine) JobKeys(ctx context.Context) ([]engine.JobKey, error) {
	var models []jobModel
	err := e.db.NewSelect().Model(&models).
		Column("name", "job_group").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lens/bun: job keys: %w", err)
	}

	keys := make([]engine.JobKey, 0, len(models))
	for i := range models {
		keys = append(keys, engine.JobKey{Name: models[i].Name, Group: models[i].Group})
	}
	return keys, nil
}

// JobGroupNames lists distinct job groups in first-registered order.
func (e *Engine) JobGroupNames(ctx context.Context) ([]string, error) {
	var groups []string
	err := e.db.NewSelect().Model((*jobModel)(nil)).
		ColumnExpr("job_group").
		GroupExpr("job_group").
		OrderExpr("MIN(id)").
		Scan(ctx, &groups)
	if err != nil {
		return nil, fmt.Errorf("lens/bun: job group names: %w", err)
	}
	return groups, nil
}

// TriggerGroupNames lists distinct trigger groups in first-registered
// order.
func (e *Engine) TriggerGroupNames(ctx context.Context) ([]string, error) {
	var groups []string
	err := e.db.NewSelect().Model((*triggerModel)(nil)).
		ColumnExpr("trigger_group").
		GroupExpr("trigger_group").
		OrderExpr("MIN(id)").
		Scan(ctx, &groups)
	if err != nil {
		return nil, fmt.Errorf("lens/bun: trigger group names: %w", err)
	}
	return groups, nil
}

// JobDetail fetches one job row.
func (e *Engine) JobDetail(ctx context.Context, key engine.JobKey) (*engine.JobDetail, error) {
	key = key.Normalized()
	m := new(jobModel)
	err := e.db.NewSelect().Model(m).
		Where("name = ?", key.Name).
		Where("job_group = ?", key.Group).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, engine.ErrJobNotFound
		}
		return nil, fmt.Errorf("lens/bun: job detail %s: %w", key, err)
	}
	return fromJobModel(m), nil
}

// TriggersOfJob fetches the job's trigger rows in registration order.
// An unknown job matches no rows and yields an empty slice.
func (e *Engine) TriggersOfJob(ctx context.Context, key engine.JobKey) ([]engine.Trigger, error) {
	key = key.Normalized()
	var models []triggerModel
	err := e.db.NewSelect().Model(&models).
		Where("job_name = ?", key.Name).
		Where("job_group = ?", key.Group).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lens/bun: triggers of %s: %w", key, err)
	}

	triggers := make([]engine.Trigger, 0, len(models))
	for i := range models {
		triggers = append(triggers, fromTriggerModel(&models[i]))
	}
	return triggers, nil
}

// TriggerState reports the state column of one trigger row, StateNone
// for unknown keys.
func (e *Engine) TriggerState(ctx context.Context, key engine.TriggerKey) (engine.TriggerState, error) {
	key = key.Normalized()
	var state string
	err := e.db.NewSelect().Model((*triggerModel)(nil)).
		Column("state").
		Where("name = ?", key.Name).
		Where("trigger_group = ?", key.Group).
		Limit(1).
		Scan(ctx, &state)
	if err != nil {
		if isNoRows(err) {
			return engine.StateNone, nil
		}
		return engine.StateNone, fmt.Errorf("lens/bun: trigger state %s: %w", key, err)
	}
	if state == "" {
		return engine.StateNormal, nil
	}
	return engine.TriggerState(state), nil
}

// JobData fetches the job's data rows ordered by position.
func (e *Engine) JobData(ctx context.Context, key engine.JobKey) ([]engine.DataEntry, error) {
	key = key.Normalized()
	exists, err := e.db.NewSelect().Model((*jobModel)(nil)).
		Where("name = ?", key.Name).
		Where("job_group = ?", key.Group).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("lens/bun: job data %s: %w", key, err)
	}
	if !exists {
		return nil, engine.ErrJobNotFound
	}

	var models []jobDataModel
	err = e.db.NewSelect().Model(&models).
		Where("job_name = ?", key.Name).
		Where("job_group = ?", key.Group).
		Order("pos ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lens/bun: job data %s: %w", key, err)
	}

	entries := make([]engine.DataEntry, 0, len(models))
	for i := range models {
		entries = append(entries, fromJobDataModel(&models[i]))
	}
	return entries, nil
}

// isNoRows returns true when err indicates no rows were found.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
