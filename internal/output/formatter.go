package output

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ganancias/withholding-calculator/internal/domain"
)

// ErrUnsupportedFormat is returned for a format name with no registered formatter.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(schedule *domain.Schedule) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*domain.Schedule) ([]byte, error)
}

func (ff FormatterFunc) Format(s *domain.Schedule) ([]byte, error) { return ff.F(s) }
func (ff FormatterFunc) Name() string                              { return ff.ID }

// extensions maps formatter names to file extensions; unknown names use "txt".
var extensions = map[string]string{
	"csv":          "csv",
	"detailed-csv": "csv",
	"html":         "html",
	"json":         "json",
	"pdf":          "pdf",
}

// Extension returns the file extension for a formatter.
func Extension(f Formatter) string {
	if ext, ok := extensions[f.Name()]; ok {
		return ext
	}
	return "txt"
}

// DefaultFilename returns a timestamped report name for the schedule's year.
func DefaultFilename(f Formatter, schedule *domain.Schedule) string {
	return fmt.Sprintf("withholding_%d_%s.%s", schedule.Profile.FiscalYear, time.Now().Format("20060102_150405"), Extension(f))
}

// WriteFormatted runs a formatter and writes the output. An empty filename
// writes to a timestamped file in the working directory.
func WriteFormatted(f Formatter, schedule *domain.Schedule, filename string) (string, error) {
	data, err := f.Format(schedule)
	if err != nil {
		return "", err
	}
	if filename == "" {
		filename = DefaultFilename(f, schedule)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	ConsoleVerboseFormatter{},
	CSVSummarizer{},
	CSVDetailedExporter{},
	HTMLFormatter{},
	JSONFormatter{},
	PDFFormatter{},
}

// GetFormatterByName fetches a registered formatter, resolving aliases.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	f, ok := lo.Find(builtInFormatters, func(f Formatter) bool { return f.Name() == n })
	if !ok {
		return nil
	}
	return f
}

// LookupFormatter is GetFormatterByName with an error listing the choices.
func LookupFormatter(name string) (Formatter, error) {
	if f := GetFormatterByName(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, name,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":         "console",
	"table":        "console",
	"verbose":      "console-verbose",
	"detailed":     "console-verbose",
	"csv-detailed": "detailed-csv",
	"csv-summary":  "csv",
	"html-report":  "html",
	"json-pretty":  "json",
	"payslip":      "pdf",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := lo.Map(builtInFormatters, func(f Formatter, _ int) string { return f.Name() })
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := lo.Keys(aliasMap)
	sort.Strings(keys)
	return keys
}

// IsBinary reports whether the formatter output should not go to a terminal.
func IsBinary(f Formatter) bool {
	return f.Name() == "pdf"
}
