package gormdb

import (
	"context"
	"errors"

	traceDomain "eva-framework/internal/domain/trace"

	"gorm.io/gorm"
)

// Migrate creates the audit table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&traceDomain.Record{})
}

type TraceRepository struct{ db *gorm.DB }

func NewTraceRepository(db *gorm.DB) *TraceRepository { return &TraceRepository{db: db} }

func (r *TraceRepository) Create(ctx context.Context, rec *traceDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *TraceRepository) GetByTraceID(ctx context.Context, traceID string) (*traceDomain.Record, error) {
	var out traceDomain.Record
	err := r.db.WithContext(ctx).Where("trace_id = ?", traceID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, traceDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// NopTraceRepository is used when the audit sink is disabled.
type NopTraceRepository struct{}

func (NopTraceRepository) Create(context.Context, *traceDomain.Record) error { return nil }

func (NopTraceRepository) GetByTraceID(context.Context, string) (*traceDomain.Record, error) {
	return nil, traceDomain.ErrStoreDisabled
}
