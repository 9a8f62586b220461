package output

import (
	"github.com/ganancias/withholding-calculator/internal/domain"
)

// GenerateReport writes the schedule in the named format to filename, or to a
// timestamped file when filename is empty. The pseudo-format "all" writes the
// verbose console report and the detailed CSV side by side.
func GenerateReport(schedule *domain.Schedule, format, filename string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var written []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}} {
			name, err := WriteFormatted(f, schedule, "")
			if err != nil {
				return written, err
			}
			written = append(written, name)
		}
		return written, nil
	}

	f, err := LookupFormatter(format)
	if err != nil {
		return nil, err
	}
	name, err := WriteFormatted(f, schedule, filename)
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}
