package screening

import "math"

// ScheduleEntry is one period of a fixed-payment amortization schedule.
type ScheduleEntry struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

func monthlyRate(annualRatePct float64) float64 {
	return annualRatePct / 100 / 12
}

func termMonths(years float64) int {
	n := int(math.Round(years * 12))
	if n < 1 {
		return 1
	}
	return n
}

// MonthlyPayment returns the fixed monthly payment for principal over years
// at annualRatePct:
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// with r = annualRatePct/100/12 and n = round(years*12), n >= 1. A zero rate
// degenerates to straight-line P/n.
func MonthlyPayment(principal, annualRatePct, years float64) float64 {
	if principal <= 0 {
		return 0
	}
	r := monthlyRate(annualRatePct)
	n := float64(termMonths(years))
	if r == 0 {
		return principal / n
	}
	factor := math.Pow(1+r, n)
	// Ratio first so a huge principal does not overflow the product.
	return principal * (r * factor / (factor - 1))
}

// PrincipalFromPayment is the inverse of MonthlyPayment: the largest
// principal a given monthly payment amortizes over the same term.
func PrincipalFromPayment(payment, annualRatePct, years float64) float64 {
	if payment <= 0 {
		return 0
	}
	r := monthlyRate(annualRatePct)
	n := float64(termMonths(years))
	if r == 0 {
		return payment * n
	}
	factor := math.Pow(1+r, n)
	return payment * ((factor - 1) / (r * factor))
}

// AmortizationSchedule returns the first limit periods of the schedule
// (all periods when limit <= 0). The last period of the full term clears the
// balance exactly.
func AmortizationSchedule(principal, annualRatePct, years float64, limit int) []ScheduleEntry {
	if principal <= 0 {
		return nil
	}
	n := termMonths(years)
	if limit <= 0 || limit > n {
		limit = n
	}
	r := monthlyRate(annualRatePct)
	payment := MonthlyPayment(principal, annualRatePct, years)

	out := make([]ScheduleEntry, 0, limit)
	balance := principal
	for period := 1; period <= limit; period++ {
		interest := balance * r
		principalPart := payment - interest
		if period == n {
			principalPart = balance
		}
		balance -= principalPart
		if balance < 0 {
			balance = 0
		}
		out = append(out, ScheduleEntry{
			Period:    period,
			Payment:   Round1(principalPart + interest),
			Interest:  Round1(interest),
			Principal: Round1(principalPart),
			Balance:   Round1(balance),
		})
	}
	return out
}
