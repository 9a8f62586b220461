package output

import (
	"bytes"
	"encoding/csv"

	"github.com/samber/lo"

	"github.com/ganancias/withholding-calculator/internal/domain"
)

// CSVDetailedExporter provides every intermediate figure per month, one column
// per contribution kind.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(schedule *domain.Schedule) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	kinds := domain.ContributionKinds()

	header := []string{"Month", "Name", "Gross", "Bonus"}
	header = append(header, lo.Map(kinds, func(k domain.ContributionKind, _ int) string { return string(k) })...)
	header = append(header, "NetOfContributions", "CumulativeIncome", "DeductionsToDate", "TaxableToDate", "TaxDueToDate", "Withholding")
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, m := range schedule.Months {
		row := []string{intToString(m.Month + 1), m.Name(), FormatAmount(m.Gross), FormatAmount(m.Bonus)}
		for _, k := range kinds {
			row = append(row, FormatAmount(m.Contributions.Get(k)))
		}
		row = append(row,
			FormatAmount(m.NetOfContributions),
			FormatAmount(m.CumulativeTaxable),
			FormatAmount(m.DeductionsToDate),
			FormatAmount(m.TaxableToDate),
			FormatAmount(m.TaxDueToDate),
			FormatAmount(m.Withholding),
		)
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
