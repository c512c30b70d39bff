package screening

import (
	"context"
	"time"

	"eva-framework/internal/domain/screening"
)

const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// DiscussionPoints are short, non-binding talking points for the applicant.
type DiscussionPoints struct {
	Items  []string
	Source string
}

// DiscussionPointProducer turns applicant input into at most four short
// discussion points. Implementations never fail; they fall back to fixed
// text instead.
type DiscussionPointProducer interface {
	ProduceDiscussionPoints(ctx context.Context, in screening.ApplicantInput) DiscussionPoints
}

// Observer receives one call per completed evaluation.
type Observer interface {
	ObserveEvaluation(decision screening.Decision, bottleneck screening.Bottleneck, source string, elapsed time.Duration)
}

type Plan struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Steps   []string `json:"steps"`
}

type StageLog struct {
	Stage   string `json:"stage"`
	Summary string `json:"summary"`
}

type Trace struct {
	Reason      string     `json:"reason"`
	NextActions []string   `json:"nextActions"`
	Log         []StageLog `json:"log"`
}

type EvaluationDTO struct {
	ID                  string                    `json:"id"`
	CreatedAt           time.Time                 `json:"createdAt"`
	Input               screening.ApplicantInput  `json:"input"`
	DiscussionPoints    []string                  `json:"discussionPoints"`
	DiscussionSource    string                    `json:"discussionSource"`
	Gate                screening.GateResult      `json:"gate"`
	Plans               []Plan                    `json:"plans"`
	AmortizationPreview []screening.ScheduleEntry `json:"amortizationPreview"`
	Trace               Trace                     `json:"trace"`
}
