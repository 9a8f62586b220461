package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ganancias/withholding-calculator/internal/domain"
)

// ConsoleVerboseFormatter renders every figure of every month, followed by the
// rules that produced them.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

func (c ConsoleVerboseFormatter) Format(schedule *domain.Schedule) ([]byte, error) {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 64)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "DETAILED INCOME TAX WITHHOLDING - FISCAL YEAR %d\n", schedule.Profile.FiscalYear)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "CALCULATION BASIS:")
	for _, n := range CalculationNotes(schedule) {
		fmt.Fprintf(&buf, "• %s\n", n)
	}
	fmt.Fprintln(&buf)

	for _, m := range schedule.Months {
		fmt.Fprintf(&buf, "%s\n", strings.ToUpper(m.Name()))
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		fmt.Fprintf(&buf, "  Gross:                 %14s\n", FormatAmount(m.Gross))
		if m.Bonus.IsPositive() {
			fmt.Fprintf(&buf, "    of which aguinaldo:  %14s\n", FormatAmount(m.Bonus))
		}
		for _, kind := range domain.ContributionKinds() {
			fmt.Fprintf(&buf, "  %-22s %14s\n", string(kind)+":", FormatAmount(m.Contributions.Get(kind)))
		}
		fmt.Fprintf(&buf, "  Net of contributions:  %14s\n", FormatAmount(m.NetOfContributions))
		fmt.Fprintf(&buf, "  Cumulative income:     %14s\n", FormatAmount(m.CumulativeTaxable))
		fmt.Fprintf(&buf, "  Deductions to date:    %14s\n", FormatAmount(m.DeductionsToDate))
		fmt.Fprintf(&buf, "  Taxable to date:       %14s\n", FormatAmount(m.TaxableToDate))
		fmt.Fprintf(&buf, "  Tax due to date:       %14s\n", FormatAmount(m.TaxDueToDate))
		if m.Withholding.IsNegative() {
			fmt.Fprintf(&buf, "  REIMBURSEMENT:         %14s\n", FormatAmount(m.Withholding.Abs()))
		} else {
			fmt.Fprintf(&buf, "  Withholding:           %14s\n", FormatAmount(m.Withholding))
		}
		fmt.Fprintf(&buf, "  Take-home:             %14s\n", FormatAmount(m.Net()))
		fmt.Fprintln(&buf)
	}

	summary := Summarize(schedule)
	fmt.Fprintln(&buf, "ANNUAL SUMMARY")
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "Gross income:          %14s\n", FormatAmount(schedule.AnnualGross))
	fmt.Fprintf(&buf, "Contributions:         %14s\n", FormatAmount(schedule.AnnualContributions))
	fmt.Fprintf(&buf, "Deductions:            %14s\n", FormatAmount(schedule.AnnualDeduction))
	fmt.Fprintf(&buf, "Taxable income:        %14s\n", FormatAmount(schedule.AnnualTaxable))
	fmt.Fprintf(&buf, "Annual tax:            %14s\n", FormatAmount(schedule.AnnualTax))
	fmt.Fprintf(&buf, "Total withheld:        %14s\n", FormatAmount(schedule.TotalWithheld))
	fmt.Fprintf(&buf, "Effective rate:        %14s\n", FormatPercentage(summary.EffectiveRate))
	fmt.Fprintf(&buf, "Peak month:            %14s (%s)\n", FormatAmount(summary.PeakWithholding), summary.PeakMonth)
	if len(summary.ReimbursedMonths) > 0 {
		fmt.Fprintf(&buf, "Reimbursed:            %14s (%s)\n", FormatAmount(summary.TotalReimbursed), strings.Join(summary.ReimbursedMonths, ", "))
	}
	fmt.Fprintf(&buf, "Take-home pay:         %14s\n", FormatAmount(summary.NetIncome))
	return buf.Bytes(), nil
}
