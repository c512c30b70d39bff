package screening

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBottleneck(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		name string
		m    Metrics
		want Bottleneck
	}{
		{"nothing violated", Metrics{DTIPct: 20, DownPaymentPct: 15, LTI: 5}, BottleneckNone},
		{"exactly at thresholds", Metrics{DTIPct: 35, DownPaymentPct: 10, LTI: 7}, BottleneckNone},
		{"dti only", Metrics{DTIPct: 40, DownPaymentPct: 15, LTI: 5}, BottleneckDTI},
		{"down only", Metrics{DTIPct: 20, DownPaymentPct: 4, LTI: 5}, BottleneckDown},
		{"lti only", Metrics{DTIPct: 20, DownPaymentPct: 15, LTI: 9}, BottleneckLTI},
		{"largest gap wins", Metrics{DTIPct: 37, DownPaymentPct: 2, LTI: 8}, BottleneckDown},
		{"tie dti over down", Metrics{DTIPct: 40, DownPaymentPct: 5, LTI: 5}, BottleneckDTI},
		{"tie down over lti", Metrics{DTIPct: 20, DownPaymentPct: 5, LTI: 12}, BottleneckDown},
		{"tie dti over lti", Metrics{DTIPct: 38, DownPaymentPct: 15, LTI: 10}, BottleneckDTI},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, SelectBottleneck(c.m, p))
		})
	}
}

func TestSoftFlags(t *testing.T) {
	p := DefaultPolicy()
	age := func(v int) *int { return &v }

	assert.Empty(t, SoftFlags(ApplicantInput{}, p))

	flags := SoftFlags(ApplicantInput{Age: age(46)}, p)
	if assert.Len(t, flags, 1) {
		assert.Equal(t, FlagCompletionAge, flags[0].Code)
		assert.Equal(t, "完済時年齢が80歳を超える(81歳)", flags[0].Message)
	}
	assert.Empty(t, SoftFlags(ApplicantInput{Age: age(45)}, p))

	for _, job := range []string{"self_employed", "Contract", " part_time ", "自営業", "契約社員"} {
		flags := SoftFlags(ApplicantInput{Job: job}, p)
		if assert.Len(t, flags, 1, job) {
			assert.Equal(t, FlagUnstableJob, flags[0].Code)
		}
	}
	assert.Empty(t, SoftFlags(ApplicantInput{Job: "employee"}, p))

	for _, fam := range []string{"with_children", "dependents", "夫婦+子1", "扶養2名"} {
		flags := SoftFlags(ApplicantInput{Family: fam}, p)
		if assert.Len(t, flags, 1, fam) {
			assert.Equal(t, FlagDependents, flags[0].Code)
		}
	}
	assert.Empty(t, SoftFlags(ApplicantInput{Family: "single"}, p))
}

func TestApplicantInput_Normalized(t *testing.T) {
	zero := 0
	in := ApplicantInput{Age: &zero, Job: "  employee ", IncomeMan: math.Inf(1), AssetsMan: -3}

	out := in.Normalized()
	assert.Nil(t, out.Age)
	assert.Equal(t, "employee", out.Job)
	assert.Zero(t, out.IncomeMan)
	assert.Equal(t, -3.0, out.AssetsMan)
}
