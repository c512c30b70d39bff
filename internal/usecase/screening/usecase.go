package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"eva-framework/internal/domain/screening"
	"eva-framework/internal/domain/trace"
	"eva-framework/pkg/id"
)

const previewMonths = 12

type Usecase struct {
	policy   screening.Policy
	points   DiscussionPointProducer
	traces   trace.Repository
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Usecase)

func WithObserver(o Observer) Option { return func(u *Usecase) { u.observer = o } }

func WithLogger(l *slog.Logger) Option { return func(u *Usecase) { u.logger = l } }

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

// NewUsecase wires the policy, the discussion-point producer and the trace
// sink. traces may be a no-op repository.
func NewUsecase(p screening.Policy, points DiscussionPointProducer, traces trace.Repository, opts ...Option) *Usecase {
	u := &Usecase{
		policy: p,
		points: points,
		traces: traces,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) Policy() screening.Policy { return u.policy }

func (u *Usecase) Evaluate(ctx context.Context, in screening.ApplicantInput) (*EvaluationDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := u.now()
	in = in.Normalized()

	pts := u.points.ProduceDiscussionPoints(ctx, in)
	result := screening.Evaluate(in, u.policy)
	plans := BuildPlans(result)

	preview := screening.AmortizationSchedule(in.LoanRequestMan, u.policy.AnnualRatePct, u.policy.Years, previewMonths)
	if preview == nil {
		preview = []screening.ScheduleEntry{}
	}

	dto := &EvaluationDTO{
		ID:                  id.NewID32(),
		CreatedAt:           started.UTC(),
		Input:               in,
		DiscussionPoints:    pts.Items,
		DiscussionSource:    pts.Source,
		Gate:                result,
		Plans:               plans,
		AmortizationPreview: preview,
		Trace:               buildTrace(in, pts, result, plans),
	}

	u.record(ctx, dto)

	if u.observer != nil {
		u.observer.ObserveEvaluation(result.Decision, result.Bottleneck, pts.Source, u.now().Sub(started))
	}
	u.logger.InfoContext(ctx, "evaluation complete",
		"trace_id", dto.ID,
		"decision", result.Decision,
		"bottleneck", bottleneckSummary(result.Bottleneck),
		"reasons", len(result.GateReasons),
		"discussion_source", pts.Source,
	)
	return dto, nil
}

// record appends the envelope to the audit sink. Failures are logged and do
// not affect the response.
func (u *Usecase) record(ctx context.Context, dto *EvaluationDTO) {
	payload, err := json.Marshal(dto)
	if err != nil {
		u.logger.ErrorContext(ctx, "marshal trace", "trace_id", dto.ID, "error", err)
		return
	}
	rec := &trace.Record{
		TraceID:    dto.ID,
		Decision:   string(dto.Gate.Decision),
		Bottleneck: string(dto.Gate.Bottleneck),
		Payload:    string(payload),
		CreatedAt:  dto.CreatedAt,
	}
	if err := u.traces.Create(ctx, rec); err != nil {
		u.logger.WarnContext(ctx, "trace store write failed", "trace_id", dto.ID, "error", err)
	}
}

func (u *Usecase) GetTrace(ctx context.Context, traceID string) (*EvaluationDTO, error) {
	rec, err := u.traces.GetByTraceID(ctx, traceID)
	if err != nil {
		return nil, err
	}
	var dto EvaluationDTO
	if err := json.Unmarshal([]byte(rec.Payload), &dto); err != nil {
		return nil, fmt.Errorf("decode trace %s: %w", traceID, err)
	}
	return &dto, nil
}
