package calculation

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/ganancias/withholding-calculator/internal/domain"
	"github.com/ganancias/withholding-calculator/internal/tables"
)

// ResolveTable returns the table a configuration asks for: its custom table
// file when set, otherwise the embedded snapshot of the worker's fiscal year,
// or the latest snapshot when no year is given.
func ResolveTable(cfg *domain.Configuration) (*tables.TaxTable, error) {
	if cfg.TableFile != "" {
		return tables.LoadFile(cfg.TableFile)
	}
	year := cfg.Worker.FiscalYear
	if year == 0 {
		if years := tables.Available(); len(years) > 0 {
			year = lo.Max(years)
		}
	}
	return tables.Load(year)
}

// RunConfiguration builds an engine from a worker configuration, applies its
// month overrides and elections, and calculates the year. A nil table is
// resolved with ResolveTable.
func RunConfiguration(cfg *domain.Configuration, table *tables.TaxTable, opts ...Option) (*domain.Schedule, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is nil")
	}
	if table == nil {
		var err error
		if table, err = ResolveTable(cfg); err != nil {
			return nil, err
		}
	}

	engine, err := NewEngine(cfg.Worker, table, opts...)
	if err != nil {
		return nil, err
	}

	months := lo.Keys(cfg.MonthlyGross)
	sort.Ints(months)
	for _, month := range months {
		if err := engine.SetMonthGross(month, cfg.MonthlyGross[month]); err != nil {
			return nil, err
		}
	}

	for i, d := range cfg.Deductions {
		for n := 0; n < d.Times(); n++ {
			if d.Amount != nil {
				err = engine.AddDeductionAmount(d.Kind, *d.Amount)
			} else {
				err = engine.AddDeduction(d.Kind)
			}
			if err != nil {
				return nil, fmt.Errorf("deduction %d (%s): %w", i+1, d.Kind, err)
			}
		}
	}

	if err := engine.Calculate(); err != nil {
		return nil, err
	}
	return engine.Schedule()
}
