package domain

import (
	"sort"

	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// DeductionKind identifies an art. 23 personal deduction or one of the
// amount-bearing general deductions.
type DeductionKind string

const (
	// Family allowances, flat annual amounts elected once per dependent.
	DeductionSpouse           DeductionKind = "spouse"
	DeductionChild            DeductionKind = "child"
	DeductionParentsAndOthers DeductionKind = "parents_and_others"

	// General deductions carrying a declared amount, capped per year.
	DeductionMortgageInterest           DeductionKind = "mortgage_interest"
	DeductionLifeInsurance              DeductionKind = "life_insurance"
	DeductionFuneralExpenses            DeductionKind = "funeral_expenses"
	DeductionPrivateRetirementInsurance DeductionKind = "private_retirement_insurance"
	DeductionDomesticWorker             DeductionKind = "domestic_worker"

	// Always applied, never elected.
	DeductionNonTaxableMinimum DeductionKind = "non_taxable_minimum"
	DeductionSpecialDependent  DeductionKind = "special_dependent"
	DeductionSpecialAutonomous DeductionKind = "special_autonomous"
)

// MandatoryDeductions returns the kinds every worker of the category receives.
func MandatoryDeductions(c Category) []DeductionKind {
	if c == CategoryAutonomous {
		return []DeductionKind{DeductionNonTaxableMinimum, DeductionSpecialAutonomous}
	}
	return []DeductionKind{DeductionNonTaxableMinimum, DeductionSpecialDependent}
}

// IsMandatory reports whether the kind is applied automatically.
func (k DeductionKind) IsMandatory() bool {
	switch k {
	case DeductionNonTaxableMinimum, DeductionSpecialDependent, DeductionSpecialAutonomous:
		return true
	}
	return false
}

// Election is one entry of the deduction ledger. Amount is the statutory flat
// amount for family allowances, or the declared (capped) amount otherwise.
type Election struct {
	Kind   DeductionKind `yaml:"kind" json:"kind"`
	Amount money.Money   `yaml:"amount" json:"amount"`
}

// SortElections orders elections by kind, keeping insertion order within a kind.
func SortElections(elections []Election) {
	sort.SliceStable(elections, func(i, j int) bool { return elections[i].Kind < elections[j].Kind })
}
