package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ganancias/withholding-calculator/internal/domain"
)

// ConsoleFormatter renders the monthly withholding table.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(schedule *domain.Schedule) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "INCOME TAX WITHHOLDING %d\n", schedule.Profile.FiscalYear)
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintf(&buf, "%-10s %12s %12s %12s %12s %12s\n", "Month", "Gross", "Contrib.", "Taxable YTD", "Tax YTD", "Withholding")
	fmt.Fprintln(&buf, strings.Repeat("-", 72))
	for _, m := range schedule.Months {
		fmt.Fprintf(&buf, "%-10s %12s %12s %12s %12s %12s\n",
			m.Name(),
			FormatAmount(m.Gross),
			FormatAmount(m.Contributions.Total()),
			FormatAmount(m.TaxableToDate),
			FormatAmount(m.TaxDueToDate),
			FormatAmount(m.Withholding),
		)
	}
	fmt.Fprintln(&buf, strings.Repeat("-", 72))
	fmt.Fprintf(&buf, "%-10s %12s %12s %12s %12s %12s\n", "Total",
		FormatAmount(schedule.AnnualGross),
		FormatAmount(schedule.AnnualContributions),
		FormatAmount(schedule.AnnualTaxable),
		FormatAmount(schedule.AnnualTax),
		FormatAmount(schedule.TotalWithheld),
	)
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Annual deduction: %s\n", FormatAmount(schedule.AnnualDeduction))
	fmt.Fprintf(&buf, "Annual tax:       %s\n", FormatAmount(schedule.AnnualTax))
	return buf.Bytes(), nil
}
