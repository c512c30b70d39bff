package screening

import (
	"fmt"
	"math"

	"eva-framework/internal/domain/screening"

	"github.com/shopspring/decimal"
)

const (
	PlanFastest      = "fastest"
	PlanRealistic    = "realistic"
	PlanConservative = "conservative"
)

// BuildPlans returns the fastest, realistic and conservative improvement
// plans for r, in that order.
func BuildPlans(r screening.GateResult) []Plan {
	switch r.Bottleneck {
	case screening.BottleneckDTI:
		return dtiPlans(r)
	case screening.BottleneckDown:
		return downPlans(r)
	case screening.BottleneckLTI:
		return ltiPlans(r)
	}
	if r.Decision == screening.DecisionPass {
		return marginPlans(r)
	}
	return inputPlans(r)
}

func dtiPlans(r screening.GateResult) []Plan {
	req, p := r.Required, r.Policy
	fastest := Plan{
		ID:      PlanFastest,
		Title:   "借入希望額を減額する",
		Summary: fmt.Sprintf("借入希望額を%s減らすと返済負担率が上限(%s%%)に収まる見込み", man(req.ReduceLoanForDTI), num(p.DTIMaxPct)),
		Steps: []string{
			fmt.Sprintf("借入希望額を%s以上減額する", man(req.ReduceLoanForDTI)),
			"減額後の物件価格帯を確認する",
		},
	}
	if req.ReduceOtherDebt > 0 {
		fastest = Plan{
			ID:      PlanFastest,
			Title:   "他の借入を先に返済する",
			Summary: fmt.Sprintf("他の借入の返済だけで返済負担率の上限(%s%%)を超えている", num(p.DTIMaxPct)),
			Steps: []string{
				fmt.Sprintf("他の借入残高を%s以上返済する", man(req.ReduceOtherDebt)),
				"完済証明を取得して再計算する",
			},
		}
	}
	return []Plan{
		fastest,
		{
			ID:      PlanRealistic,
			Title:   "借入額と他の借入を組み合わせて圧縮する",
			Summary: fmt.Sprintf("現在の返済負担率は%s%%(上限%s%%)", num(r.Metrics.DTIPct), num(p.DTIMaxPct)),
			Steps: []string{
				"カードローン・自動車ローン等の繰上返済を検討する",
				fmt.Sprintf("残りを借入希望額の減額で調整する(最大%s)", man(req.ReduceLoanForDTI)),
				"返済期間と金利タイプの組み合わせを比較する",
			},
		},
		{
			ID:      PlanConservative,
			Title:   "返済負担率に余裕を持たせる",
			Summary: "上限ぎりぎりを避け、5ポイント以上の余裕を確保する",
			Steps: []string{
				fmt.Sprintf("返済負担率%s%%以下を目標に借入額を設定する", num(p.DTIMaxPct-5)),
				"生活費・教育費を含めた家計の見直しを行う",
				"収入の増加見込みが確定してから再度相談する",
			},
		},
	}
}

func downPlans(r screening.GateResult) []Plan {
	req, p := r.Required, r.Policy
	return []Plan{
		{
			ID:      PlanFastest,
			Title:   "自己資金を上積みする",
			Summary: fmt.Sprintf("自己資金を%s増やすと頭金比率が最低(%s%%)に届く見込み", man(req.IncreaseAssetsForDownPayment), num(p.DownPaymentMinPct)),
			Steps: []string{
				fmt.Sprintf("頭金に充てる資金を%s以上用意する", man(req.IncreaseAssetsForDownPayment)),
				"預貯金以外に頭金へ回せる資産を確認する",
			},
		},
		{
			ID:      PlanRealistic,
			Title:   "積立と借入額の見直しを組み合わせる",
			Summary: fmt.Sprintf("現在の頭金比率は%s%%(最低%s%%)", num(r.Metrics.DownPaymentPct), num(p.DownPaymentMinPct)),
			Steps: []string{
				fmt.Sprintf("目標%sの頭金積立計画を立てる", man(req.IncreaseAssetsForDownPayment)),
				"親族からの資金援助の可否を確認する",
				"物件価格を抑えて借入希望額を下げる",
			},
		},
		{
			ID:      PlanConservative,
			Title:   "頭金比率に余裕を持たせる",
			Summary: "最低基準を上回る頭金を用意し、諸費用にも備える",
			Steps: []string{
				fmt.Sprintf("頭金比率%s%%以上を目標にする", num(p.DownPaymentMinPct+10)),
				"諸費用・引越費用を別枠で確保する",
				"積立期間を延ばして購入時期を見直す",
			},
		},
	}
}

func ltiPlans(r screening.GateResult) []Plan {
	req, p := r.Required, r.Policy
	return []Plan{
		{
			ID:      PlanFastest,
			Title:   "借入希望額を年収倍率の上限内に収める",
			Summary: fmt.Sprintf("借入希望額を%s減らすと年収倍率が上限(%s倍)に収まる見込み", man(req.ReduceLoanForLTI), num(p.LTIMax)),
			Steps: []string{
				fmt.Sprintf("借入希望額を%s以上減額する", man(req.ReduceLoanForLTI)),
				"減額後の物件価格帯を確認する",
			},
		},
		{
			ID:      PlanRealistic,
			Title:   "収入合算と借入額の見直しを組み合わせる",
			Summary: fmt.Sprintf("現在の年収倍率は%s倍(上限%s倍)", num(r.Metrics.LTI), num(p.LTIMax)),
			Steps: []string{
				"配偶者等との収入合算の可否を確認する",
				"自己資金を増やして借入希望額を下げる",
				fmt.Sprintf("不足分を借入額の減額で調整する(最大%s)", man(req.ReduceLoanForLTI)),
			},
		},
		{
			ID:      PlanConservative,
			Title:   "年収倍率に余裕を持たせる",
			Summary: "上限より1倍以上低い水準で借入額を設定する",
			Steps: []string{
				fmt.Sprintf("年収倍率%s倍以下を目標にする", num(p.LTIMax-1)),
				"購入時期を見直し収入の安定を待つ",
			},
		},
	}
}

func marginPlans(r screening.GateResult) []Plan {
	h := r.Headroom
	return []Plan{
		{
			ID:      PlanFastest,
			Title:   "現在の条件で事前審査に進む",
			Summary: "全ての基準を満たしている",
			Steps: []string{
				"源泉徴収票など必要書類を揃える",
				"金融機関の事前審査を申し込む",
			},
		},
		{
			ID:      PlanRealistic,
			Title:   "余裕を広げてから申し込む",
			Summary: fmt.Sprintf("返済負担率の余裕は%sポイント", num(h.DTIPct)),
			Steps: []string{
				"他の借入を整理して返済負担率を下げる",
				"頭金を上積みして借入額を抑える",
				"金利上昇時の返済額を試算する",
			},
		},
		{
			ID:      PlanConservative,
			Title:   "安全余裕を確保する",
			Summary: fmt.Sprintf("頭金比率の余裕は%sポイント、年収倍率の余裕は%s倍", num(h.DownPaymentPct), num(h.LTI)),
			Steps: []string{
				"生活防衛資金を手元に残す",
				"借入額を抑えて返済負担率をさらに下げる",
			},
		},
	}
}

func inputPlans(r screening.GateResult) []Plan {
	missing := make([]string, 0, len(r.GateReasons))
	for _, d := range r.ReasonDetails {
		missing = append(missing, d.Message+"を解消する")
	}
	return []Plan{
		{
			ID:      PlanFastest,
			Title:   "入力内容を補完する",
			Summary: "判定に必要な数値が不足している",
			Steps:   missing,
		},
		{
			ID:      PlanRealistic,
			Title:   "収入と借入希望額を確認する",
			Summary: "年収と借入希望額は判定の前提になる",
			Steps: []string{
				"源泉徴収票で年収を確認する",
				"希望物件の価格から借入希望額を決める",
			},
		},
		{
			ID:      PlanConservative,
			Title:   "家計の全体像を整理する",
			Summary: "自己資金と他の借入を正確に把握する",
			Steps: []string{
				"預貯金と頭金に回せる資金を整理する",
				"他の借入残高を一覧にする",
			},
		},
	}
}

// man formats a man-yen amount, e.g. 33.3万円.
func man(v float64) string {
	return num(v) + "万円"
}

// num formats to one decimal. Non-finite values print as 0.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return decimal.NewFromFloat(v).Round(1).String()
}
