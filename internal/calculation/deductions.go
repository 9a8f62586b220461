package calculation

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ganancias/withholding-calculator/internal/domain"
	"github.com/ganancias/withholding-calculator/internal/tables"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// DeductionLedger accumulates a worker's deduction elections. Deductions are
// flat annual amounts; the ledger always adds the non-taxable minimum and the
// special deduction of the worker's category on top of the elections.
//
// A ledger belongs to a single engine and is not safe for concurrent use.
type DeductionLedger struct {
	table     *tables.TaxTable
	category  domain.Category
	mandatory money.Money
	elections []domain.Election
}

// NewDeductionLedger creates an empty ledger for a worker category.
func NewDeductionLedger(table *tables.TaxTable, category domain.Category) (*DeductionLedger, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	mandatory := money.Zero()
	for _, kind := range domain.MandatoryDeductions(category) {
		amount, err := table.DeductionAmount(kind)
		if err != nil {
			return nil, &domain.ConfigurationError{Table: table.Name(), Reason: err.Error()}
		}
		mandatory = mandatory.Add(amount)
	}
	return &DeductionLedger{table: table, category: category, mandatory: mandatory}, nil
}

// Add records one election of a flat-amount kind. On error the ledger is left
// unchanged.
func (l *DeductionLedger) Add(kind domain.DeductionKind) error {
	rule, err := l.admit(kind)
	if err != nil {
		return err
	}
	if rule.Declared() {
		return fmt.Errorf("deduction %q requires a declared amount", kind)
	}
	l.elections = append(l.elections, domain.Election{Kind: kind, Amount: rule.Amount})
	return nil
}

// AddAmount records a declared amount for a capped kind (mortgage interest,
// insurance premiums...). The yearly total of a kind is capped at the table
// maximum when the ledger is totalled.
func (l *DeductionLedger) AddAmount(kind domain.DeductionKind, amount money.Money) error {
	rule, err := l.admit(kind)
	if err != nil {
		return err
	}
	if !rule.Declared() {
		return fmt.Errorf("deduction %q has a fixed amount of %s", kind, rule.Amount)
	}
	if err := domain.CheckNonNegative(fmt.Sprintf("%s deduction", kind), amount); err != nil {
		return err
	}
	l.elections = append(l.elections, domain.Election{Kind: kind, Amount: amount})
	return nil
}

// admit checks that one more election of kind is allowed.
func (l *DeductionLedger) admit(kind domain.DeductionKind) (tables.DeductionRule, error) {
	rule, err := l.table.DeductionRule(kind)
	if err != nil {
		return tables.DeductionRule{}, err
	}
	if rule.Mandatory {
		return rule, &domain.DeductionLimitError{Kind: kind, Reason: "applied automatically"}
	}
	if !rule.AppliesTo(l.category) {
		return rule, &domain.DeductionLimitError{Kind: kind, Reason: fmt.Sprintf("not available to %s workers", l.category)}
	}
	if rule.MaxCount > 0 && l.Count(kind) >= rule.MaxCount {
		return rule, &domain.DeductionLimitError{Kind: kind, Limit: rule.MaxCount}
	}
	return rule, nil
}

// Remove drops the most recent election of kind.
func (l *DeductionLedger) Remove(kind domain.DeductionKind) error {
	if _, err := l.table.DeductionRule(kind); err != nil {
		return err
	}
	_, idx, ok := lo.FindLastIndexOf(l.elections, func(e domain.Election) bool { return e.Kind == kind })
	if !ok {
		return fmt.Errorf("deduction %q is not elected", kind)
	}
	l.elections = append(l.elections[:idx:idx], l.elections[idx+1:]...)
	return nil
}

// Count returns how many times kind is elected.
func (l *DeductionLedger) Count(kind domain.DeductionKind) int {
	return lo.CountBy(l.elections, func(e domain.Election) bool { return e.Kind == kind })
}

// Elections returns a copy of the elections, ordered by kind.
func (l *DeductionLedger) Elections() []domain.Election {
	out := append([]domain.Election(nil), l.elections...)
	domain.SortElections(out)
	return out
}

// Mandatory returns the part of the annual total that is never elected.
func (l *DeductionLedger) Mandatory() money.Money {
	return l.mandatory
}

// AnnualTotal sums the elections (declared kinds capped at their maximum)
// plus the mandatory deductions.
func (l *DeductionLedger) AnnualTotal() money.Money {
	byKind := lo.GroupBy(l.elections, func(e domain.Election) domain.DeductionKind { return e.Kind })
	total := l.mandatory
	for kind, elections := range byKind {
		subtotal := money.Sum(lo.Map(elections, func(e domain.Election, _ int) money.Money { return e.Amount })...)
		// Elections were validated on entry, the rule exists.
		if rule, err := l.table.DeductionRule(kind); err == nil && rule.Declared() {
			subtotal = money.Min(subtotal, rule.Maximum)
		}
		total = total.Add(subtotal)
	}
	return total
}
