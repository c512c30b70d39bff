package screening

type constraintGap struct {
	name Bottleneck
	gap  float64
}

// SelectBottleneck picks the most violated ratio constraint. Gaps are raw
// differences in each ratio's own unit (percentage points for DTI and
// down-payment, multiples of income for LTI). Only positive gaps count; ties
// go to the earlier of DTI, DOWN, LTI. Returns BottleneckNone when nothing is
// violated.
func SelectBottleneck(m Metrics, p Policy) Bottleneck {
	gaps := [...]constraintGap{
		{BottleneckDTI, m.DTIPct - p.DTIMaxPct},
		{BottleneckDown, p.DownPaymentMinPct - m.DownPaymentPct},
		{BottleneckLTI, m.LTI - p.LTIMax},
	}

	best := BottleneckNone
	bestGap := 0.0
	for _, g := range gaps {
		if g.gap > bestGap {
			best, bestGap = g.name, g.gap
		}
	}
	return best
}
