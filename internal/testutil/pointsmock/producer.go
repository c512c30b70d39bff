package pointsmock

import (
	"context"

	"eva-framework/internal/domain/screening"
	uc "eva-framework/internal/usecase/screening"
)

// Producer is a function-backed mock that satisfies uc.DiscussionPointProducer.
// With no func set it returns a single fixed fallback point.
type Producer struct {
	ProduceFn func(ctx context.Context, in screening.ApplicantInput) uc.DiscussionPoints
	Calls     int
}

func (m *Producer) ProduceDiscussionPoints(ctx context.Context, in screening.ApplicantInput) uc.DiscussionPoints {
	m.Calls++
	if m.ProduceFn != nil {
		return m.ProduceFn(ctx, in)
	}
	return uc.DiscussionPoints{Items: []string{"返済計画について相談する"}, Source: uc.SourceFallback}
}
