package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/ganancias/withholding-calculator/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"amount": FormatAmount,
	"pct":    FormatPercentage,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(schedule *domain.Schedule) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.Schedule
		Notes   []string
		Summary Summary
	}{schedule, CalculationNotes(schedule), Summarize(schedule)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
