package tracemock

import (
	"context"

	domain "eva-framework/internal/domain/trace"
)

// Repo is a function-backed mock that satisfies trace.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, r *domain.Record) error
	GetByTraceIDFn func(ctx context.Context, traceID string) (*domain.Record, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Record) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByTraceID(ctx context.Context, traceID string) (*domain.Record, error) {
	if m.GetByTraceIDFn != nil {
		return m.GetByTraceIDFn(ctx, traceID)
	}
	return nil, domain.ErrNotFound
}

// Memory returns a Repo backed by a map, for round-trip tests.
func Memory() *Repo {
	store := map[string]*domain.Record{}
	return &Repo{
		CreateFn: func(_ context.Context, r *domain.Record) error {
			cp := *r
			store[r.TraceID] = &cp
			return nil
		},
		GetByTraceIDFn: func(_ context.Context, traceID string) (*domain.Record, error) {
			r, ok := store[traceID]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return r, nil
		},
	}
}
