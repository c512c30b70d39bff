package screening

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
)

var (
	ErrInvalidPolicy = errors.New("invalid policy")
)

type Decision string

const (
	DecisionPass Decision = "PASS"
	DecisionHold Decision = "HOLD"
)

// Bottleneck names the dominant ratio constraint. The zero value means none
// and is encoded as JSON null.
type Bottleneck string

const (
	BottleneckNone Bottleneck = ""
	BottleneckDTI  Bottleneck = "DTI"
	BottleneckDown Bottleneck = "DOWN"
	BottleneckLTI  Bottleneck = "LTI"
)

func (b Bottleneck) MarshalJSON() ([]byte, error) {
	if b == BottleneckNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(b))
}

// ApplicantInput holds the applicant figures. Money is in man-yen (10,000 JPY).
type ApplicantInput struct {
	Age            *int    `json:"age,omitempty"`
	Job            string  `json:"job,omitempty"`
	Family         string  `json:"family,omitempty"`
	IncomeMan      float64 `json:"incomeMan"`
	AssetsMan      float64 `json:"assetsMan"`
	OtherDebtMan   float64 `json:"otherDebtMan"`
	LoanRequestMan float64 `json:"loanRequestMan"`
}

// Normalized zeroes non-finite figures, drops non-positive ages and trims the
// free-text fields. Negative money stays negative so the gate can report it.
func (in ApplicantInput) Normalized() ApplicantInput {
	out := in
	out.Job = strings.TrimSpace(in.Job)
	out.Family = strings.TrimSpace(in.Family)
	out.IncomeMan = finiteOrZero(in.IncomeMan)
	out.AssetsMan = finiteOrZero(in.AssetsMan)
	out.OtherDebtMan = finiteOrZero(in.OtherDebtMan)
	out.LoanRequestMan = finiteOrZero(in.LoanRequestMan)
	if in.Age != nil && *in.Age <= 0 {
		out.Age = nil
	}
	return out
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Policy is the fixed affordability configuration. Build it with NewPolicy
// or DefaultPolicy; it is passed by value and never mutated.
type Policy struct {
	Bank                string  `json:"bank"                validate:"required"`
	DTIMaxPct           float64 `json:"dtiMaxPct"           validate:"gt=0,lte=100"`
	DownPaymentMinPct   float64 `json:"downPaymentMinPct"   validate:"gte=0,lt=100"`
	AnnualRatePct       float64 `json:"annualRatePct"       validate:"gte=0,lte=100"`
	Years               float64 `json:"years"               validate:"gt=0,lte=60"`
	LTIMax              float64 `json:"ltiMax"              validate:"gt=0"`
	OtherDebtMonthlyPct float64 `json:"otherDebtMonthlyPct" validate:"gte=0,lte=100"`
}

type Metrics struct {
	MonthlyIncomeMan   float64 `json:"monthlyIncomeMan"`
	PrincipalMan       float64 `json:"principalMan"`
	EstMortgagePayMan  float64 `json:"estMortgagePayMan"`
	EstOtherDebtPayMan float64 `json:"estOtherDebtPayMan"`
	DTIPct             float64 `json:"dtiPct"`
	DownPaymentPct     float64 `json:"downPaymentPct"`
	LTI                float64 `json:"lti"`
}

// Headroom is the signed distance of each ratio from its threshold.
// Positive is margin, negative is violation.
type Headroom struct {
	DTIPct         float64 `json:"dtiPct"`
	DownPaymentPct float64 `json:"downPaymentPct"`
	LTI            float64 `json:"lti"`
}

// Required is the minimum adjustment per constraint, in man-yen, never negative.
type Required struct {
	ReduceLoanForDTI             float64 `json:"reduceLoanForDTI"`
	ReduceOtherDebt              float64 `json:"reduceOtherDebt"`
	IncreaseAssetsForDownPayment float64 `json:"increaseAssetsForDownPayment"`
	ReduceLoanForLTI             float64 `json:"reduceLoanForLTI"`
}

type ReasonCode string

const (
	ReasonIncomeInvalid     ReasonCode = "INCOME_INVALID"
	ReasonLoanInvalid       ReasonCode = "LOAN_INVALID"
	ReasonAssetsNegative    ReasonCode = "ASSETS_NEGATIVE"
	ReasonOtherDebtNegative ReasonCode = "OTHER_DEBT_NEGATIVE"
	ReasonDTIOver           ReasonCode = "DTI_OVER"
	ReasonDownShort         ReasonCode = "DOWN_SHORT"
	ReasonLTIOver           ReasonCode = "LTI_OVER"
)

// ReasonDetail is the structured form of one gate reason.
type ReasonDetail struct {
	Code      ReasonCode `json:"code"`
	Message   string     `json:"message"`
	Threshold *float64   `json:"threshold,omitempty"`
	Observed  *float64   `json:"observed,omitempty"`
}

// InputInvalid reports whether the reason comes from the input-validity pass.
func (r ReasonDetail) InputInvalid() bool {
	switch r.Code {
	case ReasonIncomeInvalid, ReasonLoanInvalid, ReasonAssetsNegative, ReasonOtherDebtNegative:
		return true
	}
	return false
}

type SoftFlagCode string

const (
	FlagCompletionAge SoftFlagCode = "COMPLETION_AGE"
	FlagUnstableJob   SoftFlagCode = "UNSTABLE_JOB"
	FlagDependents    SoftFlagCode = "DEPENDENTS"
)

// SoftFlag is an advisory note. It never changes the decision.
type SoftFlag struct {
	Code    SoftFlagCode `json:"code"`
	Message string       `json:"message"`
}

type GateResult struct {
	Decision      Decision       `json:"decision"`
	GateReasons   []string       `json:"gateReasons"`
	ReasonDetails []ReasonDetail `json:"reasonDetails"`
	Bottleneck    Bottleneck     `json:"bottleneck"`
	Headroom      Headroom       `json:"headroom"`
	Required      Required       `json:"required"`
	SoftFlags     []SoftFlag     `json:"softFlags"`
	Metrics       Metrics        `json:"metrics"`
	Policy        Policy         `json:"policy"`
}
