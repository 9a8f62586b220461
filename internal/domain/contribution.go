package domain

import (
	"github.com/samber/lo"

	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// ContributionKind is a mandatory worker-side withholding (aporte).
type ContributionKind string

const (
	ContributionPension         ContributionKind = "pension"          // jubilación (SIPA)
	ContributionHealthInstitute ContributionKind = "health_institute" // INSSJP
	ContributionUnionMedical    ContributionKind = "union_medical"    // obra social
)

// ContributionKinds lists the kinds in payslip order.
func ContributionKinds() []ContributionKind {
	return []ContributionKind{ContributionPension, ContributionHealthInstitute, ContributionUnionMedical}
}

// Contributions maps each kind to the amount withheld in a month.
type Contributions map[ContributionKind]money.Money

// Total sums all contribution amounts.
func (c Contributions) Total() money.Money {
	return money.Sum(lo.Values(map[ContributionKind]money.Money(c))...)
}

// Get returns the amount for kind, zero when absent.
func (c Contributions) Get(kind ContributionKind) money.Money {
	if v, ok := c[kind]; ok {
		return v
	}
	return money.Zero()
}

// Clone returns an independent copy.
func (c Contributions) Clone() Contributions {
	return lo.Assign(Contributions{}, c)
}
