package bunengine

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/xraph/lens/engine"
)

// ── Job model ─────────────────────────────────────────────────────

type jobModel struct {
	bun.BaseModel `bun:"table:sched_jobs"`

	ID                 int64  `bun:"id,pk,autoincrement"`
	Name               string `bun:"name,notnull,unique:sched_jobs_key"`
	Group              string `bun:"job_group,notnull,default:'DEFAULT',unique:sched_jobs_key"`
	JobType            string `bun:"job_type,notnull,default:''"`
	DisallowConcurrent bool   `bun:"disallow_concurrent,notnull,default:false"`
}

func fromJobModel(m *jobModel) *engine.JobDetail {
	return &engine.JobDetail{
		Key:                engine.JobKey{Name: m.Name, Group: m.Group},
		JobType:            m.JobType,
		DisallowConcurrent: m.DisallowConcurrent,
	}
}

// ── Trigger model ─────────────────────────────────────────────────

type triggerModel struct {
	bun.BaseModel `bun:"table:sched_triggers"`

	ID               int64      `bun:"id,pk,autoincrement"`
	Name             string     `bun:"name,notnull,unique:sched_triggers_key"`
	Group            string     `bun:"trigger_group,notnull,default:'DEFAULT',unique:sched_triggers_key"`
	JobName          string     `bun:"job_name,notnull"`
	JobGroup         string     `bun:"job_group,notnull"`
	Kind             string     `bun:"kind,notnull,default:''"`
	Expression       string     `bun:"expression,notnull,default:''"`
	RepeatCount      int        `bun:"repeat_count,notnull,default:0"`
	RepeatInterval   int64      `bun:"repeat_interval,notnull,default:0"` // nanoseconds
	StartTime        time.Time  `bun:"start_time,notnull,default:current_timestamp"`
	PreviousFireTime *time.Time `bun:"previous_fire_time"`
	NextFireTime     *time.Time `bun:"next_fire_time"`
	State            string     `bun:"state,notnull,default:'normal'"`
}

// fromTriggerModel classifies the stored kind into a schedule variant.
// Unknown kinds map to a nil schedule.
func fromTriggerModel(m *triggerModel) engine.Trigger {
	t := engine.Trigger{
		Key:              engine.TriggerKey{Name: m.Name, Group: m.Group},
		StartTime:        m.StartTime,
		PreviousFireTime: m.PreviousFireTime,
		NextFireTime:     m.NextFireTime,
	}
	switch m.Kind {
	case "interval":
		t.Schedule = engine.IntervalSchedule{
			RepeatCount:    m.RepeatCount,
			RepeatInterval: time.Duration(m.RepeatInterval),
		}
	case "expression":
		t.Schedule = engine.ExpressionSchedule{Expression: m.Expression}
	}
	return t
}

// ── Job data model ────────────────────────────────────────────────

type jobDataModel struct {
	bun.BaseModel `bun:"table:sched_job_data"`

	ID       int64   `bun:"id,pk,autoincrement"`
	JobName  string  `bun:"job_name,notnull"`
	JobGroup string  `bun:"job_group,notnull"`
	Pos      int     `bun:"pos,notnull,default:0"`
	Key      string  `bun:"data_key,notnull"`
	Value    *string `bun:"data_value"`
}

func fromJobDataModel(m *jobDataModel) engine.DataEntry {
	entry := engine.DataEntry{Key: m.Key}
	if m.Value != nil {
		entry.Value = *m.Value
	}
	return entry
}
