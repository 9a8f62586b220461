package output

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/ganancias/withholding-calculator/internal/domain"
)

// PDFFormatter renders the schedule as a one-page A4 landscape document.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Month", 32}, {"Gross", 34}, {"Contributions", 34}, {"Deductions YTD", 36},
	{"Taxable YTD", 36}, {"Tax YTD", 34}, {"Withholding", 34},
}

func (p PDFFormatter) Format(schedule *domain.Schedule) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Income tax withholding %d", schedule.Profile.FiscalYear), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Income tax withholding %d", schedule.Profile.FiscalYear))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	for _, n := range CalculationNotes(schedule) {
		pdf.Cell(0, 6, n)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, m := range schedule.Months {
		pdfRow(pdf, m.Name(), FormatAmount(m.Gross), FormatAmount(m.Contributions.Total()), FormatAmount(m.DeductionsToDate),
			FormatAmount(m.TaxableToDate), FormatAmount(m.TaxDueToDate), FormatAmount(m.Withholding))
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdfRow(pdf, "Total", FormatAmount(schedule.AnnualGross), FormatAmount(schedule.AnnualContributions), FormatAmount(schedule.AnnualDeduction),
		FormatAmount(schedule.AnnualTaxable), FormatAmount(schedule.AnnualTax), FormatAmount(schedule.TotalWithheld))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfRow(pdf *gofpdf.Fpdf, cells ...string) {
	for i, text := range cells {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(pdfColumns[i].width, 6, text, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}
