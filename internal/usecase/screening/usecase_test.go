package screening_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "eva-framework/internal/domain/screening"
	"eva-framework/internal/domain/trace"
	"eva-framework/internal/testutil/pointsmock"
	"eva-framework/internal/testutil/tracemock"
	uc "eva-framework/internal/usecase/screening"
)

type recordingObserver struct {
	decision   domain.Decision
	bottleneck domain.Bottleneck
	source     string
	calls      int
}

func (o *recordingObserver) ObserveEvaluation(d domain.Decision, b domain.Bottleneck, source string, _ time.Duration) {
	o.calls++
	o.decision, o.bottleneck, o.source = d, b, source
}

func fixedClock() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }

func TestEvaluate_ExampleScenario(t *testing.T) {
	points := &pointsmock.Producer{}
	obs := &recordingObserver{}
	var saved *trace.Record
	repo := &tracemock.Repo{
		CreateFn: func(ctx context.Context, r *trace.Record) error {
			saved = r
			return nil
		},
	}
	u := uc.NewUsecase(domain.DefaultPolicy(), points, repo, uc.WithObserver(obs), uc.WithClock(fixedClock))

	dto, err := u.Evaluate(context.Background(), domain.ApplicantInput{
		IncomeMan: 600, LoanRequestMan: 3000, AssetsMan: 300,
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if dto.Gate.Decision != domain.DecisionHold || dto.Gate.Bottleneck != domain.BottleneckDown {
		t.Fatalf("gate = %s/%s, want HOLD/DOWN", dto.Gate.Decision, dto.Gate.Bottleneck)
	}
	if len(dto.ID) != 32 {
		t.Fatalf("id = %q, want 32 hex chars", dto.ID)
	}
	if !dto.CreatedAt.Equal(fixedClock()) {
		t.Fatalf("createdAt = %v", dto.CreatedAt)
	}
	if points.Calls != 1 {
		t.Fatalf("producer calls = %d, want 1", points.Calls)
	}
	if dto.DiscussionSource != uc.SourceFallback || len(dto.DiscussionPoints) != 1 {
		t.Fatalf("discussion = %s %v", dto.DiscussionSource, dto.DiscussionPoints)
	}
	if len(dto.Plans) != 3 {
		t.Fatalf("plans = %d, want 3", len(dto.Plans))
	}
	if len(dto.AmortizationPreview) != 12 {
		t.Fatalf("preview = %d, want 12", len(dto.AmortizationPreview))
	}

	wantStages := []string{"input", "discussion", "metrics", "gate", "bottleneck", "remediation", "plans"}
	if len(dto.Trace.Log) != len(wantStages) {
		t.Fatalf("trace log = %d stages, want %d", len(dto.Trace.Log), len(wantStages))
	}
	for i, s := range wantStages {
		if dto.Trace.Log[i].Stage != s {
			t.Fatalf("stage[%d] = %s, want %s", i, dto.Trace.Log[i].Stage, s)
		}
	}
	if !strings.Contains(dto.Trace.Reason, "頭金比率が最低(10%)を下回る") {
		t.Fatalf("trace reason = %q", dto.Trace.Reason)
	}
	if len(dto.Trace.NextActions) == 0 {
		t.Fatalf("expected next actions")
	}

	if saved == nil || saved.TraceID != dto.ID || saved.Decision != "HOLD" || saved.Bottleneck != "DOWN" {
		t.Fatalf("unexpected saved record: %+v", saved)
	}
	if obs.calls != 1 || obs.decision != domain.DecisionHold || obs.source != uc.SourceFallback {
		t.Fatalf("observer = %+v", obs)
	}
}

func TestEvaluate_StoreFailureDoesNotFail(t *testing.T) {
	repo := &tracemock.Repo{
		CreateFn: func(ctx context.Context, r *trace.Record) error { return errors.New("db down") },
	}
	u := uc.NewUsecase(domain.DefaultPolicy(), &pointsmock.Producer{}, repo)

	dto, err := u.Evaluate(context.Background(), domain.ApplicantInput{IncomeMan: 800, LoanRequestMan: 3000, AssetsMan: 800})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if dto.Gate.Decision != domain.DecisionPass {
		t.Fatalf("decision = %s, want PASS", dto.Gate.Decision)
	}
}

func TestEvaluate_SparseInput(t *testing.T) {
	u := uc.NewUsecase(domain.DefaultPolicy(), &pointsmock.Producer{}, &tracemock.Repo{})

	dto, err := u.Evaluate(context.Background(), domain.ApplicantInput{})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if dto.Gate.Decision != domain.DecisionHold || dto.Gate.Bottleneck != domain.BottleneckNone {
		t.Fatalf("gate = %s/%q", dto.Gate.Decision, dto.Gate.Bottleneck)
	}
	if len(dto.AmortizationPreview) != 0 || dto.AmortizationPreview == nil {
		t.Fatalf("preview should be empty, non-nil: %v", dto.AmortizationPreview)
	}
	if !strings.HasPrefix(dto.Trace.Reason, "入力が不足しているため") {
		t.Fatalf("trace reason = %q", dto.Trace.Reason)
	}
}

func TestEvaluate_CancelledContext(t *testing.T) {
	points := &pointsmock.Producer{}
	u := uc.NewUsecase(domain.DefaultPolicy(), points, &tracemock.Repo{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := u.Evaluate(ctx, domain.ApplicantInput{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if points.Calls != 0 {
		t.Fatalf("producer should not be called")
	}
}

func TestGetTrace_RoundTrip(t *testing.T) {
	repo := tracemock.Memory()
	u := uc.NewUsecase(domain.DefaultPolicy(), &pointsmock.Producer{}, repo)

	dto, err := u.Evaluate(context.Background(), domain.ApplicantInput{IncomeMan: 300, LoanRequestMan: 4000, AssetsMan: 1000, OtherDebtMan: 300})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	got, err := u.GetTrace(context.Background(), dto.ID)
	if err != nil {
		t.Fatalf("GetTrace error: %v", err)
	}
	if got.ID != dto.ID || got.Gate.Bottleneck != domain.BottleneckDTI {
		t.Fatalf("unexpected trace: id=%s bottleneck=%s", got.ID, got.Gate.Bottleneck)
	}
	if got.Gate.Required != dto.Gate.Required {
		t.Fatalf("required mismatch: %+v vs %+v", got.Gate.Required, dto.Gate.Required)
	}

	if _, err := u.GetTrace(context.Background(), "missing"); !errors.Is(err, trace.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetTrace_CorruptPayload(t *testing.T) {
	repo := &tracemock.Repo{
		GetByTraceIDFn: func(ctx context.Context, id string) (*trace.Record, error) {
			return &trace.Record{TraceID: id, Payload: "{"}, nil
		},
	}
	u := uc.NewUsecase(domain.DefaultPolicy(), &pointsmock.Producer{}, repo)
	if _, err := u.GetTrace(context.Background(), "abc"); err == nil {
		t.Fatalf("expected decode error")
	}
}
