package trace

import "context"

type Repository interface {
	// Append-only
	Create(ctx context.Context, r *Record) error
	GetByTraceID(ctx context.Context, traceID string) (*Record, error)
}
