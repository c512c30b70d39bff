package pointsmock

import (
	"context"
	"testing"

	"eva-framework/internal/domain/screening"
	uc "eva-framework/internal/usecase/screening"
)

func TestProducer_DefaultFallback(t *testing.T) {
	m := &Producer{}
	got := m.ProduceDiscussionPoints(context.Background(), screening.ApplicantInput{})
	if got.Source != uc.SourceFallback || len(got.Items) != 1 || m.Calls != 1 {
		t.Fatalf("unexpected default: %+v calls=%d", got, m.Calls)
	}
}

func TestProducer_Fn(t *testing.T) {
	m := &Producer{ProduceFn: func(ctx context.Context, in screening.ApplicantInput) uc.DiscussionPoints {
		return uc.DiscussionPoints{Items: []string{in.Job}, Source: uc.SourceLLM}
	}}
	got := m.ProduceDiscussionPoints(context.Background(), screening.ApplicantInput{Job: "employee"})
	if got.Source != uc.SourceLLM || got.Items[0] != "employee" {
		t.Fatalf("unexpected: %+v", got)
	}
}
