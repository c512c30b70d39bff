package screening

import (
	"fmt"
	"strconv"
)

// Evaluate runs the affordability gate for one applicant. It is a pure
// function of in and p.
//
// Input validity is checked first; when any input reason fires the ratio
// checks are skipped and no bottleneck is selected. Otherwise DTI,
// down-payment and LTI are checked in that order. The decision is HOLD iff at
// least one reason was recorded.
func Evaluate(in ApplicantInput, p Policy) GateResult {
	in = in.Normalized()
	raw := computeRaw(in, p)
	m := raw.rounded()

	details := checkInputs(in)
	inputsValid := len(details) == 0
	if inputsValid {
		details = checkRatios(m, p)
	}

	res := GateResult{
		Decision:      DecisionPass,
		GateReasons:   make([]string, 0, len(details)),
		ReasonDetails: details,
		Bottleneck:    BottleneckNone,
		Headroom:      computeHeadroom(m, p),
		Required:      solveRemediation(in, raw, p),
		SoftFlags:     SoftFlags(in, p),
		Metrics:       m,
		Policy:        p,
	}
	for _, d := range details {
		res.GateReasons = append(res.GateReasons, d.Message)
	}
	if len(res.GateReasons) > 0 {
		res.Decision = DecisionHold
		if inputsValid {
			res.Bottleneck = SelectBottleneck(m, p)
		}
	}
	return res
}

func checkInputs(in ApplicantInput) []ReasonDetail {
	out := make([]ReasonDetail, 0, 4)
	if in.IncomeMan <= 0 {
		out = append(out, ReasonDetail{Code: ReasonIncomeInvalid, Message: "年収が未入力または0以下"})
	}
	if in.LoanRequestMan <= 0 {
		out = append(out, ReasonDetail{Code: ReasonLoanInvalid, Message: "借入希望額が未入力または0以下"})
	}
	if in.AssetsMan < 0 {
		out = append(out, ReasonDetail{Code: ReasonAssetsNegative, Message: "自己資金がマイナス"})
	}
	if in.OtherDebtMan < 0 {
		out = append(out, ReasonDetail{Code: ReasonOtherDebtNegative, Message: "他の借入残高がマイナス"})
	}
	return out
}

func checkRatios(m Metrics, p Policy) []ReasonDetail {
	out := make([]ReasonDetail, 0, 3)
	if m.DTIPct > p.DTIMaxPct {
		out = append(out, ratioReason(ReasonDTIOver,
			fmt.Sprintf("返済負担率(DTI)が上限(%s%%)を超える", formatNum(p.DTIMaxPct)),
			p.DTIMaxPct, m.DTIPct))
	}
	if m.DownPaymentPct < p.DownPaymentMinPct {
		out = append(out, ratioReason(ReasonDownShort,
			fmt.Sprintf("頭金比率が最低(%s%%)を下回る", formatNum(p.DownPaymentMinPct)),
			p.DownPaymentMinPct, m.DownPaymentPct))
	}
	if m.LTI > p.LTIMax {
		out = append(out, ratioReason(ReasonLTIOver,
			fmt.Sprintf("年収倍率(LTI)が上限(%s倍)を超える", formatNum(p.LTIMax)),
			p.LTIMax, m.LTI))
	}
	return out
}

func ratioReason(code ReasonCode, msg string, threshold, observed float64) ReasonDetail {
	return ReasonDetail{Code: code, Message: msg, Threshold: &threshold, Observed: &observed}
}

func computeHeadroom(m Metrics, p Policy) Headroom {
	return Headroom{
		DTIPct:         Round1(p.DTIMaxPct - m.DTIPct),
		DownPaymentPct: Round1(m.DownPaymentPct - p.DownPaymentMinPct),
		LTI:            Round1(p.LTIMax - m.LTI),
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
