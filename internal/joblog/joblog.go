// Package joblog keeps the print audit trail: one row per dispatcher request
// with the outcome and a masked snapshot of the payload. Recording is
// best-effort and never fails a print.
package joblog

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/madaris/daftar/internal/engine"
	"github.com/madaris/daftar/internal/engine/catalog"
	"github.com/madaris/daftar/internal/observability/logger"
	"github.com/madaris/daftar/internal/render"
)

// PrintJob is one audited preview or print request.
type PrintJob struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	Kind   string       `gorm:"type:text;not null;index" json:"kind"`
	Mode   string       `gorm:"type:text;not null" json:"mode"`
	Status string       `gorm:"type:text;not null" json:"status"`

	ErrorKind string `gorm:"type:text" json:"error_kind,omitempty"`
	ErrorKey  string `gorm:"type:text" json:"error_key,omitempty"`

	// Payload is the request snapshot with contact fields masked.
	Payload datatypes.JSONMap `gorm:"type:jsonb" json:"payload"`

	DurationMS int64     `gorm:"not null" json:"duration_ms"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

func (PrintJob) TableName() string { return "print_jobs" }

// Recorder writes PrintJob rows. It satisfies the dispatcher's Recorder
// contract.
type Recorder struct {
	db   *gorm.DB
	node *snowflake.Node
	log  *zap.Logger
}

func NewRecorder(db *gorm.DB, node *snowflake.Node, log *zap.Logger) (*Recorder, error) {
	if err := db.AutoMigrate(&PrintJob{}); err != nil {
		return nil, err
	}
	return &Recorder{db: db, node: node, log: log.Named("joblog")}, nil
}

// Record persists the request outcome. Failures are logged and swallowed.
func (r *Recorder) Record(ctx context.Context, kind catalog.Kind, mode engine.Mode, payload render.Payload, out engine.Outcome, took time.Duration) {
	job := PrintJob{
		ID:         r.node.Generate(),
		Kind:       string(kind),
		Mode:       string(mode),
		Status:     string(out.Status),
		Payload:    datatypes.JSONMap(logger.MaskPayload(map[string]any(payload))),
		DurationMS: took.Milliseconds(),
	}
	if out.Err != nil {
		job.ErrorKind = string(out.Err.Kind)
		job.ErrorKey = out.Err.Key
	}
	if err := r.db.WithContext(ctx).Create(&job).Error; err != nil {
		r.log.Warn("audit write failed", zap.Error(err))
	}
}

// ListQuery pages through the audit trail, newest first.
type ListQuery struct {
	Kind  string
	Limit int
}

// List returns recent jobs matching the query.
func (r *Recorder) List(ctx context.Context, q ListQuery) ([]PrintJob, error) {
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	tx := r.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if q.Kind != "" {
		tx = tx.Where("kind = ?", q.Kind)
	}
	var jobs []PrintJob
	if err := tx.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

var Module = fx.Module("joblog",
	fx.Provide(NewRecorder),
	fx.Provide(func(r *Recorder) engine.Recorder { return r }),
)
