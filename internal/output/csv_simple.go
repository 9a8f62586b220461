package output

import (
	"bytes"
	"encoding/csv"

	"github.com/ganancias/withholding-calculator/internal/domain"
)

// CSVSummarizer implements the simple CSV output: one row per month and a total row.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(schedule *domain.Schedule) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Month", "Gross", "Contributions", "TaxableToDate", "TaxDueToDate", "Withholding"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, m := range schedule.Months {
		row := []string{
			intToString(m.Month + 1),
			FormatAmount(m.Gross),
			FormatAmount(m.Contributions.Total()),
			FormatAmount(m.TaxableToDate),
			FormatAmount(m.TaxDueToDate),
			FormatAmount(m.Withholding),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	total := []string{
		"Total",
		FormatAmount(schedule.AnnualGross),
		FormatAmount(schedule.AnnualContributions),
		FormatAmount(schedule.AnnualTaxable),
		FormatAmount(schedule.AnnualTax),
		FormatAmount(schedule.TotalWithheld),
	}
	if err := w.Write(total); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
