package tables

import (
	"github.com/shopspring/decimal"

	"github.com/ganancias/withholding-calculator/internal/domain"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// Spec is the serialized form of a tax-table snapshot. It is only a transport
// shape; New validates it and produces the immutable TaxTable.
type Spec struct {
	Name          string                                     `yaml:"name"`
	FiscalYear    int                                        `yaml:"fiscal_year"`
	EffectiveFrom string                                     `yaml:"effective_from"`
	Brackets      []Bracket                                  `yaml:"brackets"`
	Deductions    map[domain.DeductionKind]DeductionRuleSpec `yaml:"deductions"`
	Contributions ContributionSpec                           `yaml:"contributions"`
}

// DeductionRuleSpec configures one deduction kind.
type DeductionRuleSpec struct {
	// Amount is the flat annual amount of one election.
	Amount money.Money `yaml:"amount"`
	// Maximum marks a declared-amount kind and caps its annual total.
	Maximum money.Money `yaml:"maximum"`
	// MaxCount limits how many times the kind may be elected; 0 is unlimited.
	MaxCount   int               `yaml:"max_count"`
	Mandatory  bool              `yaml:"mandatory"`
	Categories []domain.Category `yaml:"categories"`
}

// ContributionSpec holds both contribution regimes.
type ContributionSpec struct {
	Dependent  DependentContributionSpec  `yaml:"dependent"`
	Autonomous AutonomousContributionSpec `yaml:"autonomous"`
}

// DependentContributionSpec is the percentage-of-salary regime.
type DependentContributionSpec struct {
	BaseCap money.Money                                 `yaml:"base_cap"`
	Rates   map[domain.ContributionKind]decimal.Decimal `yaml:"rates"`
}

// AutonomousContributionSpec is the flat-scale regime, one schedule per tier.
type AutonomousContributionSpec struct {
	DefaultTier string                                             `yaml:"default_tier"`
	Tiers       map[string]map[domain.ContributionKind]money.Money `yaml:"tiers"`
}
