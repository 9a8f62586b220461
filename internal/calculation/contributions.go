package calculation

import (
	"github.com/ganancias/withholding-calculator/internal/domain"
	"github.com/ganancias/withholding-calculator/internal/tables"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// ContributionCalculator computes the mandatory monthly contributions (aportes).
// It holds no mutable state and may be shared between simulations.
type ContributionCalculator struct {
	table *tables.TaxTable
	tier  string
}

// NewContributionCalculator binds a calculator to a tax table. tier selects
// the autonomous flat scale; empty uses the table default.
func NewContributionCalculator(table *tables.TaxTable, tier string) *ContributionCalculator {
	return &ContributionCalculator{table: table, tier: tier}
}

// Compute returns the contribution of each kind for one month's gross.
//
// Dependent workers pay a percentage of gross (capped at the table's base
// cap), rounded half up to cents. Autonomous workers pay the flat amounts of
// their tier whenever they had income that month. Either way the total never
// exceeds gross.
func (cc *ContributionCalculator) Compute(gross money.Money, category domain.Category) (domain.Contributions, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := domain.CheckNonNegative("monthly gross", gross); err != nil {
		return nil, err
	}

	var (
		contributions domain.Contributions
		err           error
	)
	switch category {
	case domain.CategoryDependent:
		contributions, err = cc.dependent(gross)
	case domain.CategoryAutonomous:
		contributions, err = cc.autonomous(gross)
	}
	if err != nil {
		return nil, err
	}
	return clampToGross(contributions, gross), nil
}

func (cc *ContributionCalculator) dependent(gross money.Money) (domain.Contributions, error) {
	base := gross
	if limit := cc.table.ContributionBaseCap(); limit.IsPositive() {
		base = money.Min(base, limit)
	}
	contributions := make(domain.Contributions, len(domain.ContributionKinds()))
	for _, kind := range domain.ContributionKinds() {
		rate, err := cc.table.ContributionRate(kind, domain.CategoryDependent)
		if err != nil {
			return nil, err
		}
		contributions[kind] = base.ApplyRate(rate)
	}
	return contributions, nil
}

func (cc *ContributionCalculator) autonomous(gross money.Money) (domain.Contributions, error) {
	schedule, err := cc.table.AutonomousSchedule(cc.tier)
	if err != nil {
		return nil, err
	}
	contributions := make(domain.Contributions, len(domain.ContributionKinds()))
	for _, kind := range domain.ContributionKinds() {
		if gross.IsPositive() {
			contributions[kind] = schedule.Get(kind).Round()
		} else {
			contributions[kind] = money.Zero()
		}
	}
	return contributions, nil
}

// clampToGross trims contributions in payslip order so their total stays
// within gross.
func clampToGross(contributions domain.Contributions, gross money.Money) domain.Contributions {
	remaining := gross
	for _, kind := range domain.ContributionKinds() {
		amount := money.Min(contributions.Get(kind), remaining)
		contributions[kind] = amount
		remaining = remaining.Sub(amount)
	}
	return contributions
}
