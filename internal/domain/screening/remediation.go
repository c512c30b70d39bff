package screening

import "math"

// SolveRemediation back-solves the smallest change that clears each
// constraint. Every figure is computed regardless of the bottleneck.
func SolveRemediation(in ApplicantInput, p Policy) Required {
	in = in.Normalized()
	return solveRemediation(in, computeRaw(in, p), p)
}

func solveRemediation(in ApplicantInput, m rawMetrics, p Policy) Required {
	var req Required

	maxTotalPay := m.monthlyIncome * p.DTIMaxPct / 100
	maxMortgagePay := maxTotalPay - m.otherDebtPay
	if maxMortgagePay > 0 {
		maxPrincipal := PrincipalFromPayment(maxMortgagePay, p.AnnualRatePct, p.Years)
		req.ReduceLoanForDTI = m.principal - maxPrincipal
	} else if coef := p.OtherDebtMonthlyPct / 100; coef > 0 {
		// Other debt alone uses up the DTI budget; the loan cannot fix it.
		req.ReduceOtherDebt = (m.otherDebtPay - maxTotalPay) / coef
	}

	if minPct := p.DownPaymentMinPct; minPct > 0 && minPct < 100 {
		requiredAssets := minPct / (100 - minPct) * in.LoanRequestMan
		req.IncreaseAssetsForDownPayment = requiredAssets - in.AssetsMan
	}

	req.ReduceLoanForLTI = in.LoanRequestMan - p.LTIMax*math.Max(in.IncomeMan, 0)

	req.ReduceLoanForDTI = floorRound(req.ReduceLoanForDTI)
	req.ReduceOtherDebt = floorRound(req.ReduceOtherDebt)
	req.IncreaseAssetsForDownPayment = floorRound(req.IncreaseAssetsForDownPayment)
	req.ReduceLoanForLTI = floorRound(req.ReduceLoanForLTI)
	return req
}

func floorRound(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return Round1(clampFinite(v))
}
