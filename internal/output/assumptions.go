package output

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ganancias/withholding-calculator/internal/domain"
)

// CalculationNotes lists the rules applied to a schedule, rendered in
// detailed outputs.
func CalculationNotes(schedule *domain.Schedule) []string {
	p := schedule.Profile
	notes := []string{
		fmt.Sprintf("Fiscal year %d, %s worker, monthly salary %s", p.FiscalYear, p.Category, FormatAmount(p.MonthlySalary)),
		"Withholding is cumulative: each month withholds the year-to-date tax minus what was already withheld",
		"Deductions accrue in twelfths; year-to-date taxable income is annualised to pick the bracket",
		"Amounts are rounded half up to cents; negative withholding is a reimbursement",
	}
	if p.Bonus {
		notes = append(notes, "Aguinaldo: half of the semester's highest salary, paid in June and December, prorated by months worked")
	}
	if p.Category == domain.CategoryAutonomous {
		tier := p.AutonomousTier
		if tier == "" {
			tier = "default"
		}
		notes = append(notes, fmt.Sprintf("Autonomous contributions: flat monthly amounts of tier %s", tier))
	}
	if len(schedule.Elections) > 0 {
		counts := lo.CountValuesBy(schedule.Elections, func(e domain.Election) domain.DeductionKind { return e.Kind })
		kinds := lo.Uniq(lo.Map(schedule.Elections, func(e domain.Election, _ int) domain.DeductionKind { return e.Kind }))
		parts := lo.Map(kinds, func(k domain.DeductionKind, _ int) string { return fmt.Sprintf("%s x%d", k, counts[k]) })
		notes = append(notes, "Elected deductions: "+strings.Join(parts, ", "))
	}
	return notes
}
