package screening

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var policyValidator = validator.New()

// DefaultPolicy returns the demo bank's thresholds.
func DefaultPolicy() Policy {
	return Policy{
		Bank:                "EVΛƎ Demo Bank",
		DTIMaxPct:           35,
		DownPaymentMinPct:   10,
		AnnualRatePct:       1.5,
		Years:               35,
		LTIMax:              7,
		OtherDebtMonthlyPct: 2,
	}
}

// NewPolicy validates p and returns it unchanged on success.
func NewPolicy(p Policy) (Policy, error) {
	if err := policyValidator.Struct(p); err != nil {
		return Policy{}, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	return p, nil
}

// TermMonths is the amortization term, at least one month.
func (p Policy) TermMonths() int {
	return termMonths(p.Years)
}
