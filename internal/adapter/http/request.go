package http

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"eva-framework/internal/domain/screening"
)

// flexNumber accepts a JSON number or a numeric string. Anything else,
// including null, decodes to 0 without error.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	*f = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' {
		return nil
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		*f = flexNumber(v)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(v, ",", "")), 64)
		if err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
			*f = flexNumber(n)
		}
	}
	return nil
}

// flexAge is a flexNumber that remembers whether a usable age arrived.
type flexAge struct {
	v  int
	ok bool
}

func (a *flexAge) UnmarshalJSON(b []byte) error {
	var n flexNumber
	_ = n.UnmarshalJSON(b)
	if n > 0 && float64(n) < 200 {
		a.v, a.ok = int(math.Round(float64(n))), true
	}
	return nil
}

// flexString accepts any JSON string; other kinds decode to "".
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		*s = ""
		return nil
	}
	*s = flexString(v)
	return nil
}

type evaluateReq struct {
	Age            flexAge    `json:"age"`
	Job            flexString `json:"job"`
	Family         flexString `json:"family"`
	IncomeMan      flexNumber `json:"incomeMan"`
	AssetsMan      flexNumber `json:"assetsMan"`
	OtherDebtMan   flexNumber `json:"otherDebtMan"`
	LoanRequestMan flexNumber `json:"loanRequestMan"`
}

func (r evaluateReq) toInput() screening.ApplicantInput {
	in := screening.ApplicantInput{
		Job:            string(r.Job),
		Family:         string(r.Family),
		IncomeMan:      float64(r.IncomeMan),
		AssetsMan:      float64(r.AssetsMan),
		OtherDebtMan:   float64(r.OtherDebtMan),
		LoanRequestMan: float64(r.LoanRequestMan),
	}
	if r.Age.ok {
		age := r.Age.v
		in.Age = &age
	}
	return in
}
