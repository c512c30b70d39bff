package screening

import (
	"fmt"
	"strconv"
	"strings"

	"eva-framework/internal/domain/screening"
)

var bottleneckLabels = map[screening.Bottleneck]string{
	screening.BottleneckDTI:  "返済負担率(DTI)",
	screening.BottleneckDown: "頭金比率",
	screening.BottleneckLTI:  "年収倍率(LTI)",
}

var bottleneckReason = map[screening.Bottleneck]screening.ReasonCode{
	screening.BottleneckDTI:  screening.ReasonDTIOver,
	screening.BottleneckDown: screening.ReasonDownShort,
	screening.BottleneckLTI:  screening.ReasonLTIOver,
}

func buildTrace(in screening.ApplicantInput, pts DiscussionPoints, r screening.GateResult, plans []Plan) Trace {
	var next []string
	for _, p := range plans {
		if p.ID == PlanRealistic {
			next = append(next, p.Steps...)
		}
	}
	if next == nil {
		next = []string{}
	}

	return Trace{
		Reason:      traceReason(r),
		NextActions: next,
		Log: []StageLog{
			{Stage: "input", Summary: inputSummary(in)},
			{Stage: "discussion", Summary: fmt.Sprintf("source=%s items=%d", pts.Source, len(pts.Items))},
			{Stage: "metrics", Summary: metricsSummary(r.Metrics)},
			{Stage: "gate", Summary: fmt.Sprintf("decision=%s reasons=%d softFlags=%d", r.Decision, len(r.GateReasons), len(r.SoftFlags))},
			{Stage: "bottleneck", Summary: bottleneckSummary(r.Bottleneck)},
			{Stage: "remediation", Summary: requiredSummary(r.Required)},
			{Stage: "plans", Summary: planSummary(plans)},
		},
	}
}

func traceReason(r screening.GateResult) string {
	if r.Decision == screening.DecisionPass {
		return fmt.Sprintf("全ての基準を満たしています(DTI余裕%spt・頭金余裕%spt・LTI余裕%s倍)",
			num(r.Headroom.DTIPct), num(r.Headroom.DownPaymentPct), num(r.Headroom.LTI))
	}
	if r.Bottleneck == screening.BottleneckNone {
		return "入力が不足しているため判定を保留しました: " + strings.Join(r.GateReasons, "、")
	}
	msg := ""
	for _, d := range r.ReasonDetails {
		if d.Code == bottleneckReason[r.Bottleneck] {
			msg = d.Message
			break
		}
	}
	return fmt.Sprintf("主なボトルネックは%sです: %s", bottleneckLabels[r.Bottleneck], msg)
}

func inputSummary(in screening.ApplicantInput) string {
	age := "-"
	if in.Age != nil {
		age = strconv.Itoa(*in.Age)
	}
	return fmt.Sprintf("income=%s assets=%s otherDebt=%s loan=%s age=%s job=%q family=%q",
		num(in.IncomeMan), num(in.AssetsMan), num(in.OtherDebtMan), num(in.LoanRequestMan), age, in.Job, in.Family)
}

func metricsSummary(m screening.Metrics) string {
	return fmt.Sprintf("monthlyIncome=%s mortgagePay=%s otherDebtPay=%s dti=%s%% down=%s%% lti=%s",
		num(m.MonthlyIncomeMan), num(m.EstMortgagePayMan), num(m.EstOtherDebtPayMan),
		num(m.DTIPct), num(m.DownPaymentPct), num(m.LTI))
}

func bottleneckSummary(b screening.Bottleneck) string {
	if b == screening.BottleneckNone {
		return "none"
	}
	return string(b)
}

func requiredSummary(q screening.Required) string {
	return fmt.Sprintf("reduceLoanForDTI=%s reduceOtherDebt=%s increaseAssetsForDownPayment=%s reduceLoanForLTI=%s",
		num(q.ReduceLoanForDTI), num(q.ReduceOtherDebt), num(q.IncreaseAssetsForDownPayment), num(q.ReduceLoanForLTI))
}

func planSummary(plans []Plan) string {
	ids := make([]string, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.ID)
	}
	return strings.Join(ids, ",")
}
