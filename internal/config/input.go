package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/ganancias/withholding-calculator/internal/domain"
	"github.com/ganancias/withholding-calculator/internal/tables"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// InputParser handles parsing of worker configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a worker configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes a worker configuration. Unknown fields are rejected so a
// misspelled deduction list does not silently vanish.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// ValidateConfiguration validates the loaded configuration. Category aliases
// are normalised in place.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	category, err := domain.ParseCategory(string(config.Worker.Category))
	if err != nil {
		return fmt.Errorf("worker: %w", err)
	}
	config.Worker.Category = category

	if err := config.Worker.Validate(); err != nil {
		return fmt.Errorf("worker: %w", err)
	}

	if config.TableFile == "" && config.Worker.FiscalYear != 0 && !lo.Contains(tables.Available(), config.Worker.FiscalYear) {
		return fmt.Errorf("%w: no tax table for fiscal year %d (available: %v)",
			domain.ErrConfiguration, config.Worker.FiscalYear, tables.Available())
	}

	for i, d := range config.Deductions {
		if err := ip.validateDeduction(d); err != nil {
			return fmt.Errorf("deduction %d: %w", i+1, err)
		}
	}

	months := lo.Keys(config.MonthlyGross)
	sort.Ints(months)
	for _, month := range months {
		if month < 1 || month > domain.MonthsPerYear {
			return fmt.Errorf("monthly_gross: %w: %d (want 1..12)", domain.ErrInvalidMonth, month)
		}
		if err := domain.CheckNonNegative(fmt.Sprintf("monthly_gross[%d]", month), config.MonthlyGross[month]); err != nil {
			return err
		}
	}

	return nil
}

// validateDeduction checks the shape of one election. Whether the kind exists
// and how often it may be elected depends on the tax table and is checked by
// the engine.
func (ip *InputParser) validateDeduction(d domain.DeductionElection) error {
	if d.Kind == "" {
		return fmt.Errorf("kind is required")
	}
	if d.Kind.IsMandatory() {
		return &domain.DeductionLimitError{Kind: d.Kind, Reason: "applied automatically"}
	}
	if d.Count < 0 {
		return fmt.Errorf("count must not be negative")
	}
	if d.Amount != nil {
		if err := domain.CheckNonNegative(string(d.Kind), *d.Amount); err != nil {
			return err
		}
	}
	return nil
}

// SaveConfiguration writes a configuration as YAML
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration: a dependent
// worker earning 8000 a month in 2010 with aguinaldo, supporting two parents.
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	lifeInsurance := money.MustMoney("850.00")
	return &domain.Configuration{
		Worker: domain.WorkerProfile{
			MonthlySalary: money.NewMoneyFromInt(8000),
			Category:      domain.CategoryDependent,
			Bonus:         true,
			FiscalYear:    2010,
		},
		Deductions: []domain.DeductionElection{
			{Kind: domain.DeductionParentsAndOthers, Count: 2},
			{Kind: domain.DeductionLifeInsurance, Amount: &lifeInsurance},
		},
	}
}
