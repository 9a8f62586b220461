package output

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/ganancias/withholding-calculator/internal/domain"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// Summary holds the headline figures shown above the monthly detail.
type Summary struct {
	EffectiveRate      decimal.Decimal
	AverageWithholding money.Money
	PeakMonth          string
	PeakWithholding    money.Money
	ReimbursedMonths   []string
	TotalReimbursed    money.Money
	NetIncome          money.Money
}

// Summarize derives the headline figures of a completed schedule.
// Extracted from console logic for testability.
func Summarize(schedule *domain.Schedule) Summary {
	months := schedule.Months[:]
	s := Summary{
		EffectiveRate:      decimal.Zero,
		AverageWithholding: schedule.TotalWithheld.Monthly().Round(),
		TotalReimbursed:    money.Zero(),
		NetIncome:          money.Sum(lo.Map(months, func(m domain.MonthlyAccrual, _ int) money.Money { return m.Net() })...),
	}
	if schedule.AnnualGross.IsPositive() {
		s.EffectiveRate = schedule.AnnualTax.Decimal.Div(schedule.AnnualGross.Decimal).Round(4)
	}

	peak := lo.MaxBy(months, func(a, b domain.MonthlyAccrual) bool { return a.Withholding.GreaterThan(b.Withholding) })
	s.PeakMonth = peak.Name()
	s.PeakWithholding = peak.Withholding

	for _, m := range months {
		if m.Withholding.IsNegative() {
			s.ReimbursedMonths = append(s.ReimbursedMonths, m.Name())
			s.TotalReimbursed = s.TotalReimbursed.Add(m.Withholding.Abs())
		}
	}
	return s
}
