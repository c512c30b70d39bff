package screening

import "math"

// Round1 rounds half away from zero to one decimal place. Values too large
// to scale are already integral and come back unchanged.
func Round1(x float64) float64 {
	if math.IsInf(x*10, 0) {
		return x
	}
	return math.Round(x*10) / 10
}

// clampFinite maps NaN to 0 and ±Inf to ±MaxFloat64.
func clampFinite(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case math.IsInf(x, 1):
		return math.MaxFloat64
	case math.IsInf(x, -1):
		return -math.MaxFloat64
	}
	return x
}

// rawMetrics carries the unrounded figures. The remediation inversions run on
// these; the gate compares the rounded Metrics callers see.
type rawMetrics struct {
	monthlyIncome  float64
	principal      float64
	mortgagePay    float64
	otherDebtPay   float64
	dtiPct         float64
	downPaymentPct float64
	lti            float64
}

func computeRaw(in ApplicantInput, p Policy) rawMetrics {
	var m rawMetrics
	if in.IncomeMan > 0 {
		m.monthlyIncome = in.IncomeMan / 12
	}
	// The requested amount is the principal; assets are not offset.
	m.principal = in.LoanRequestMan
	m.mortgagePay = MonthlyPayment(m.principal, p.AnnualRatePct, p.Years)
	m.otherDebtPay = in.OtherDebtMan * (p.OtherDebtMonthlyPct / 100)

	if m.monthlyIncome > 0 {
		m.dtiPct = (m.mortgagePay + m.otherDebtPay) / m.monthlyIncome * 100
	}
	if denom := in.LoanRequestMan + in.AssetsMan; denom > 0 {
		m.downPaymentPct = in.AssetsMan / denom * 100
	}
	if in.IncomeMan > 0 {
		m.lti = in.LoanRequestMan / in.IncomeMan
	}
	return m.finite()
}

// finite keeps extreme but finite inputs from leaking Inf into the ratios.
func (m rawMetrics) finite() rawMetrics {
	return rawMetrics{
		monthlyIncome:  clampFinite(m.monthlyIncome),
		principal:      clampFinite(m.principal),
		mortgagePay:    clampFinite(m.mortgagePay),
		otherDebtPay:   clampFinite(m.otherDebtPay),
		dtiPct:         clampFinite(m.dtiPct),
		downPaymentPct: clampFinite(m.downPaymentPct),
		lti:            clampFinite(m.lti),
	}
}

func (m rawMetrics) rounded() Metrics {
	return Metrics{
		MonthlyIncomeMan:   Round1(m.monthlyIncome),
		PrincipalMan:       Round1(m.principal),
		EstMortgagePayMan:  Round1(m.mortgagePay),
		EstOtherDebtPayMan: Round1(m.otherDebtPay),
		DTIPct:             Round1(m.dtiPct),
		DownPaymentPct:     Round1(m.downPaymentPct),
		LTI:                Round1(m.lti),
	}
}

// ComputeMetrics derives the affordability ratios for in under p.
func ComputeMetrics(in ApplicantInput, p Policy) Metrics {
	return computeRaw(in, p).rounded()
}
