package mongo

import (
	"time"

	"github.com/xraph/lens/engine"
)

// ── Job document ──────────────────────────────────────────────────

type jobDocument struct {
	ID                 string              `bson:"_id"`
	Name               string              `bson:"name"`
	Group              string              `bson:"group"`
	JobType            string              `bson:"job_type"`
	DisallowConcurrent bool                `bson:"disallow_concurrent"`
	Data               []dataEntryDocument `bson:"data,omitempty"`
	Seq                int64               `bson:"seq"`
}

type dataEntryDocument struct {
	Key   string `bson:"key"`
	Value any    `bson:"value"`
}

func fromJobDocument(d *jobDocument) *engine.JobDetail {
	return &engine.JobDetail{
		Key:                engine.JobKey{Name: d.Name, Group: d.Group},
		JobType:            d.JobType,
		DisallowConcurrent: d.DisallowConcurrent,
	}
}

// ── Trigger document ──────────────────────────────────────────────

type triggerDocument struct {
	ID               string     `bson:"_id"`
	Name             string     `bson:"name"`
	Group            string     `bson:"group"`
	JobName          string     `bson:"job_name"`
	JobGroup         string     `bson:"job_group"`
	Kind             string     `bson:"kind"`
	Expression       string     `bson:"expression,omitempty"`
	RepeatCount      int        `bson:"repeat_count,omitempty"`
	RepeatInterval   int64      `bson:"repeat_interval,omitempty"` // nanoseconds
	StartTime        time.Time  `bson:"start_time"`
	PreviousFireTime *time.Time `bson:"previous_fire_time,omitempty"`
	NextFireTime     *time.Time `bson:"next_fire_time,omitempty"`
	State            string     `bson:"state"`
	Seq              int64      `bson:"seq"`
}

func fromTriggerDocument(d *triggerDocument) engine.Trigger {
	t := engine.Trigger{
		Key:              engine.TriggerKey{Name: d.Name, Group: d.Group},
		StartTime:        d.StartTime,
		PreviousFireTime: d.PreviousFireTime,
		NextFireTime:     d.NextFireTime,
	}

	switch d.Kind {
	case "interval":
		t.Schedule = engine.IntervalSchedule{
			RepeatCount:    d.RepeatCount,
			RepeatInterval: time.Duration(d.RepeatInterval),
		}
	case "expression":
		t.Schedule = engine.ExpressionSchedule{Expression: d.Expression}
	}
	return t
}
