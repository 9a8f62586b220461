package calculation

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/ganancias/withholding-calculator/internal/domain"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// Aguinaldo (sueldo anual complementario) is paid per semester in the last
// month of each half year.
var bonusSemesters = []struct{ from, to, payMonth int }{
	{from: 0, to: 6, payMonth: 5},
	{from: 6, to: 12, payMonth: 11},
}

var monthsPerSemester = decimal.NewFromInt(6)

// AguinaldoSchedule returns the bonus paid in each month for the given base
// monthly gross amounts. Each half-year pays half of its highest monthly gross,
// prorated by the months actually worked (months with positive gross).
func AguinaldoSchedule(base [domain.MonthsPerYear]money.Money) [domain.MonthsPerYear]money.Money {
	var bonus [domain.MonthsPerYear]money.Money
	for i := range bonus {
		bonus[i] = money.Zero()
	}
	for _, s := range bonusSemesters {
		months := base[s.from:s.to]
		worked := lo.CountBy(months, func(g money.Money) bool { return g.IsPositive() })
		if worked == 0 {
			continue
		}
		highest := lo.MaxBy(months, func(a, b money.Money) bool { return a.GreaterThan(b) })
		amount := highest.Div(decimal.NewFromInt(2)).
			Mul(decimal.NewFromInt(int64(worked))).
			Div(monthsPerSemester)
		bonus[s.payMonth] = amount.Round()
	}
	return bonus
}
