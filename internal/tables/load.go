package tables

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/ganancias/withholding-calculator/internal/domain"
)

//go:embed snapshots/*.yaml
var snapshots embed.FS

var registry struct {
	once   sync.Once
	tables map[int]*TaxTable
	err    error
}

// loadSnapshots parses every embedded snapshot once per process.
func loadSnapshots() (map[int]*TaxTable, error) {
	registry.once.Do(func() {
		entries, err := snapshots.ReadDir("snapshots")
		if err != nil {
			registry.err = fmt.Errorf("failed to list tax tables: %w", err)
			return
		}
		registry.tables = make(map[int]*TaxTable, len(entries))
		for _, entry := range entries {
			name := path.Join("snapshots", entry.Name())
			data, err := snapshots.ReadFile(name)
			if err != nil {
				registry.err = fmt.Errorf("failed to read %s: %w", name, err)
				return
			}
			t, err := Parse(data, entry.Name())
			if err != nil {
				registry.err = err
				return
			}
			if want := strings.TrimSuffix(entry.Name(), ".yaml"); want != strconv.Itoa(t.FiscalYear()) {
				registry.err = &domain.ConfigurationError{Table: t.Name(), Reason: fmt.Sprintf("file %s declares fiscal year %d", entry.Name(), t.FiscalYear())}
				return
			}
			registry.tables[t.FiscalYear()] = t
		}
	})
	return registry.tables, registry.err
}

// Load returns the embedded snapshot for a fiscal year.
func Load(fiscalYear int) (*TaxTable, error) {
	all, err := loadSnapshots()
	if err != nil {
		return nil, err
	}
	t, ok := all[fiscalYear]
	if !ok {
		return nil, fmt.Errorf("%w: no tax table for fiscal year %d (available: %v)", domain.ErrConfiguration, fiscalYear, Available())
	}
	return t, nil
}

// Available lists the fiscal years with an embedded snapshot.
func Available() []int {
	all, err := loadSnapshots()
	if err != nil {
		return nil
	}
	years := lo.Keys(all)
	sort.Ints(years)
	return years
}

// LoadFile parses a snapshot from disk, for tables not shipped with the binary.
func LoadFile(filename string) (*TaxTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return Parse(data, filename)
}

// Parse decodes and validates a YAML snapshot. Unknown fields are rejected so
// a misspelled key cannot silently zero a deduction.
func Parse(data []byte, source string) (*TaxTable, error) {
	var spec Spec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, &domain.ConfigurationError{Table: source, Reason: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	return New(spec)
}
