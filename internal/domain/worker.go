package domain

import (
	"errors"

	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// WorkerProfile is the immutable input of one withholding simulation.
type WorkerProfile struct {
	MonthlySalary money.Money `yaml:"monthly_salary" json:"monthly_salary"`
	Category      Category    `yaml:"category" json:"category"`
	// Bonus enables the two aguinaldo disbursements (June and December).
	Bonus      bool `yaml:"bonus" json:"bonus"`
	FiscalYear int  `yaml:"fiscal_year" json:"fiscal_year"`
	// AutonomousTier selects the flat contribution scale of autonomous
	// workers. Empty means the table's default tier.
	AutonomousTier string `yaml:"autonomous_tier,omitempty" json:"autonomous_tier,omitempty"`
}

// Validate checks the profile before a simulation starts.
func (p WorkerProfile) Validate() error {
	if err := p.Category.Validate(); err != nil {
		return err
	}
	if err := CheckNonNegative("monthly salary", p.MonthlySalary); err != nil {
		return err
	}
	if p.MonthlySalary.IsZero() {
		return errors.New("monthly salary must be positive")
	}
	return nil
}

// DeductionElection is how a configuration file requests deductions.
// Count defaults to one; Amount is required for capped kinds only.
type DeductionElection struct {
	Kind   DeductionKind `yaml:"kind" json:"kind"`
	Count  int           `yaml:"count,omitempty" json:"count,omitempty"`
	Amount *money.Money  `yaml:"amount,omitempty" json:"amount,omitempty"`
}

// Times returns how many elections the entry stands for.
func (d DeductionElection) Times() int {
	if d.Count <= 0 {
		return 1
	}
	return d.Count
}

// Configuration is the worker file consumed by the CLI.
type Configuration struct {
	Worker     WorkerProfile       `yaml:"worker" json:"worker"`
	Deductions []DeductionElection `yaml:"deductions,omitempty" json:"deductions,omitempty"`
	// MonthlyGross overrides the base gross of individual months, keyed 1..12.
	// A zero override marks a month not worked.
	MonthlyGross map[int]money.Money `yaml:"monthly_gross,omitempty" json:"monthly_gross,omitempty"`
	// TableFile optionally points at a custom tax-table snapshot.
	TableFile string `yaml:"table_file,omitempty" json:"table_file,omitempty"`
}
