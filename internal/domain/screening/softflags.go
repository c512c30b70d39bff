package screening

import (
	"fmt"
	"math"
	"strings"
)

const maxCompletionAge = 80

var unstableJobs = map[string]struct{}{
	"self_employed": {},
	"contract":      {},
	"part_time":     {},
	"自営業":           {},
	"契約社員":          {},
	"派遣社員":          {},
	"パート・アルバイト":     {},
}

// SoftFlags returns advisory notes about the applicant. They are reported
// next to the decision and never feed into it.
func SoftFlags(in ApplicantInput, p Policy) []SoftFlag {
	out := make([]SoftFlag, 0, 3)

	if in.Age != nil && *in.Age > 0 {
		completion := *in.Age + int(math.Ceil(p.Years))
		if completion > maxCompletionAge {
			out = append(out, SoftFlag{
				Code:    FlagCompletionAge,
				Message: fmt.Sprintf("完済時年齢が%d歳を超える(%d歳)", maxCompletionAge, completion),
			})
		}
	}

	if _, ok := unstableJobs[strings.ToLower(strings.TrimSpace(in.Job))]; ok {
		out = append(out, SoftFlag{Code: FlagUnstableJob, Message: "雇用形態の安定性に確認が必要"})
	}

	if hasDependents(in.Family) {
		out = append(out, SoftFlag{Code: FlagDependents, Message: "扶養家族あり: 生活費の余力を確認"})
	}
	return out
}

func hasDependents(family string) bool {
	f := strings.ToLower(strings.TrimSpace(family))
	switch f {
	case "":
		return false
	case "with_children", "children", "dependents":
		return true
	}
	return strings.Contains(f, "子") || strings.Contains(f, "扶養")
}
