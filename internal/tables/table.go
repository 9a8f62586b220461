package tables

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/ganancias/withholding-calculator/internal/domain"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// Bracket is one row of the progressive scale. Upper is nil for the last,
// unbounded bracket. A bracket covers [Lower, Upper).
type Bracket struct {
	Lower      money.Money     `yaml:"lower" json:"lower"`
	Upper      *money.Money    `yaml:"upper,omitempty" json:"upper,omitempty"`
	Rate       decimal.Decimal `yaml:"rate" json:"rate"`
	FixedBelow money.Money     `yaml:"fixed_below" json:"fixed_below"`
}

// Unbounded reports whether the bracket extends to infinity.
func (b Bracket) Unbounded() bool {
	return b.Upper == nil
}

// Contains reports whether x falls in [Lower, Upper).
func (b Bracket) Contains(x money.Money) bool {
	if x.LessThan(b.Lower) {
		return false
	}
	return b.Unbounded() || x.LessThan(*b.Upper)
}

// TaxOn applies the bracket formula without rounding. x must be inside the bracket.
func (b Bracket) TaxOn(x money.Money) money.Money {
	return b.FixedBelow.Add(x.Sub(b.Lower).Mul(b.Rate))
}

// DeductionRule is the validated form of DeductionRuleSpec.
type DeductionRule struct {
	Kind       domain.DeductionKind
	Amount     money.Money
	Maximum    money.Money
	MaxCount   int
	Mandatory  bool
	Categories []domain.Category
}

// Declared reports whether elections of this kind carry their own amount.
func (r DeductionRule) Declared() bool {
	return r.Maximum.IsPositive()
}

// AppliesTo reports whether a worker of category c may receive the deduction.
func (r DeductionRule) AppliesTo(c domain.Category) bool {
	return len(r.Categories) == 0 || lo.Contains(r.Categories, c)
}

// TaxTable is an immutable snapshot of the brackets, deduction amounts and
// contribution schedules in force for a fiscal year. It is safe to share
// between goroutines.
type TaxTable struct {
	name          string
	fiscalYear    int
	effectiveFrom time.Time
	brackets      []Bracket
	deductions    map[domain.DeductionKind]DeductionRule

	baseCap     money.Money
	rates       map[domain.ContributionKind]decimal.Decimal
	defaultTier string
	tiers       map[string]domain.Contributions
}

// New validates a snapshot and builds the table. Every invariant violation is
// reported as a ConfigurationError.
func New(spec Spec) (*TaxTable, error) {
	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("%d", spec.FiscalYear)
	}
	fail := func(format string, args ...any) error {
		return &domain.ConfigurationError{Table: name, Reason: fmt.Sprintf(format, args...)}
	}

	if spec.FiscalYear <= 0 {
		return nil, fail("fiscal year is required")
	}
	t := &TaxTable{
		name:        name,
		fiscalYear:  spec.FiscalYear,
		deductions:  make(map[domain.DeductionKind]DeductionRule, len(spec.Deductions)),
		rates:       make(map[domain.ContributionKind]decimal.Decimal, len(spec.Contributions.Dependent.Rates)),
		tiers:       make(map[string]domain.Contributions, len(spec.Contributions.Autonomous.Tiers)),
		baseCap:     spec.Contributions.Dependent.BaseCap,
		defaultTier: spec.Contributions.Autonomous.DefaultTier,
	}
	if spec.EffectiveFrom != "" {
		at, err := time.Parse("2006-01-02", spec.EffectiveFrom)
		if err != nil {
			return nil, fail("effective_from %q: %v", spec.EffectiveFrom, err)
		}
		t.effectiveFrom = at
	} else {
		t.effectiveFrom = time.Date(spec.FiscalYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	if err := validateBrackets(spec.Brackets); err != nil {
		return nil, fail("%s", err)
	}
	t.brackets = lo.Map(spec.Brackets, func(b Bracket, _ int) Bracket {
		if b.Upper != nil {
			upper := *b.Upper
			b.Upper = &upper
		}
		return b
	})

	for kind, rs := range spec.Deductions {
		if rs.Amount.IsNegative() || rs.Maximum.IsNegative() {
			return nil, fail("deduction %q has a negative amount", kind)
		}
		if rs.MaxCount < 0 {
			return nil, fail("deduction %q has a negative max_count", kind)
		}
		for _, c := range rs.Categories {
			if err := c.Validate(); err != nil {
				return nil, fail("deduction %q: %v", kind, err)
			}
		}
		if rs.Mandatory != kind.IsMandatory() {
			return nil, fail("deduction %q: mandatory flag must be %t", kind, kind.IsMandatory())
		}
		t.deductions[kind] = DeductionRule{
			Kind:       kind,
			Amount:     rs.Amount,
			Maximum:    rs.Maximum,
			MaxCount:   rs.MaxCount,
			Mandatory:  rs.Mandatory,
			Categories: append([]domain.Category(nil), rs.Categories...),
		}
	}
	for _, c := range []domain.Category{domain.CategoryAutonomous, domain.CategoryDependent} {
		for _, kind := range domain.MandatoryDeductions(c) {
			if _, ok := t.deductions[kind]; !ok {
				return nil, fail("mandatory deduction %q is missing", kind)
			}
		}
	}

	if t.baseCap.IsNegative() {
		return nil, fail("dependent contribution base cap is negative")
	}
	for _, kind := range domain.ContributionKinds() {
		rate, ok := spec.Contributions.Dependent.Rates[kind]
		if !ok {
			return nil, fail("dependent contribution rate %q is missing", kind)
		}
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fail("dependent contribution rate %q must be within [0, 1]", kind)
		}
		t.rates[kind] = rate
	}
	if len(spec.Contributions.Dependent.Rates) != len(t.rates) {
		return nil, fail("dependent contributions contain an unknown kind")
	}
	totalRate := lo.Reduce(lo.Values(t.rates), func(acc decimal.Decimal, r decimal.Decimal, _ int) decimal.Decimal {
		return acc.Add(r)
	}, decimal.Zero)
	if totalRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fail("dependent contribution rates add up to %s, above 100%%", totalRate)
	}

	for tier, schedule := range spec.Contributions.Autonomous.Tiers {
		contributions := domain.Contributions{}
		for kind, amount := range schedule {
			if !lo.Contains(domain.ContributionKinds(), kind) {
				return nil, fail("autonomous tier %q has unknown contribution %q", tier, kind)
			}
			if amount.IsNegative() {
				return nil, fail("autonomous tier %q contribution %q is negative", tier, kind)
			}
			contributions[kind] = amount
		}
		t.tiers[tier] = contributions
	}
	if _, ok := t.tiers[t.defaultTier]; !ok {
		return nil, fail("autonomous default tier %q is not defined", t.defaultTier)
	}

	return t, nil
}

// validateBrackets checks that the scale covers [0, ∞) without gaps or
// overlaps and that each fixed amount equals the tax at its lower bound.
func validateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("no brackets defined")
	}
	if !brackets[0].Lower.IsZero() {
		return fmt.Errorf("first bracket must start at 0, starts at %s", brackets[0].Lower)
	}
	if !brackets[0].FixedBelow.IsZero() {
		return fmt.Errorf("first bracket fixed amount must be 0")
	}
	for i, b := range brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket %d rate %s must be within [0, 1]", i, b.Rate)
		}
		last := i == len(brackets)-1
		if last {
			if !b.Unbounded() {
				return fmt.Errorf("last bracket must be unbounded, ends at %s", b.Upper)
			}
			continue
		}
		if b.Unbounded() {
			return fmt.Errorf("bracket %d is unbounded but is not the last one", i)
		}
		if !b.Upper.GreaterThan(b.Lower) {
			return fmt.Errorf("bracket %d bounds are not increasing (%s..%s)", i, b.Lower, b.Upper)
		}
		next := brackets[i+1]
		if !next.Lower.Equal(*b.Upper) {
			return fmt.Errorf("bracket %d ends at %s but bracket %d starts at %s", i, b.Upper, i+1, next.Lower)
		}
		if want := b.TaxOn(*b.Upper); !next.FixedBelow.Equal(want) {
			return fmt.Errorf("bracket %d fixed amount %s, want %s", i+1, next.FixedBelow, want)
		}
	}
	return nil
}

// Name returns the snapshot label, e.g. "Enero 2010".
func (t *TaxTable) Name() string { return t.name }

// FiscalYear returns the year the snapshot applies to.
func (t *TaxTable) FiscalYear() int { return t.fiscalYear }

// EffectiveFrom returns the date the values took effect.
func (t *TaxTable) EffectiveFrom() time.Time { return t.effectiveFrom }

// Brackets returns a copy of the progressive scale.
func (t *TaxTable) Brackets() []Bracket {
	return append([]Bracket(nil), t.brackets...)
}

// BracketFor returns the bracket whose [Lower, Upper) contains the annual
// taxable income. A value equal to a boundary belongs to the upper bracket.
func (t *TaxTable) BracketFor(annualTaxable money.Money) (Bracket, error) {
	idx := sort.Search(len(t.brackets), func(i int) bool {
		b := t.brackets[i]
		return b.Unbounded() || annualTaxable.LessThan(*b.Upper)
	})
	if idx == len(t.brackets) || !t.brackets[idx].Contains(annualTaxable) {
		return Bracket{}, &domain.ConfigurationError{
			Table:  t.name,
			Reason: fmt.Sprintf("no bracket contains %s", annualTaxable),
		}
	}
	return t.brackets[idx], nil
}

// TaxOn computes the unrounded annual tax for an annual taxable income.
// Income at or below zero owes nothing.
func (t *TaxTable) TaxOn(annualTaxable money.Money) (money.Money, error) {
	if !annualTaxable.IsPositive() {
		return money.Zero(), nil
	}
	b, err := t.BracketFor(annualTaxable)
	if err != nil {
		return money.Zero(), err
	}
	return b.TaxOn(annualTaxable), nil
}

// DeductionRule returns the configuration of a deduction kind.
func (t *TaxTable) DeductionRule(kind domain.DeductionKind) (DeductionRule, error) {
	r, ok := t.deductions[kind]
	if !ok {
		return DeductionRule{}, domain.UnknownDeductionKindError(kind)
	}
	return r, nil
}

// DeductionAmount returns the fixed annual amount of one election of kind.
// For declared-amount kinds this is the annual maximum.
func (t *TaxTable) DeductionAmount(kind domain.DeductionKind) (money.Money, error) {
	r, err := t.DeductionRule(kind)
	if err != nil {
		return money.Zero(), err
	}
	if r.Declared() {
		return r.Maximum, nil
	}
	return r.Amount, nil
}

// DeductionKinds lists the configured kinds in lexical order.
func (t *TaxTable) DeductionKinds() []domain.DeductionKind {
	kinds := lo.Keys(t.deductions)
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ContributionRate returns the percentage of gross withheld for kind. Only
// dependent workers contribute a percentage; autonomous workers use
// AutonomousSchedule.
func (t *TaxTable) ContributionRate(kind domain.ContributionKind, category domain.Category) (decimal.Decimal, error) {
	if err := category.Validate(); err != nil {
		return decimal.Zero, err
	}
	if category != domain.CategoryDependent {
		return decimal.Zero, fmt.Errorf("%w: %s workers contribute a flat scale, not a rate", domain.ErrInvalidCategory, category)
	}
	rate, ok := t.rates[kind]
	if !ok {
		return decimal.Zero, &domain.ConfigurationError{Table: t.name, Reason: fmt.Sprintf("no contribution rate for %q", kind)}
	}
	return rate, nil
}

// ContributionBaseCap returns the monthly ceiling of the dependent
// contribution base; zero means uncapped.
func (t *TaxTable) ContributionBaseCap() money.Money {
	return t.baseCap
}

// AutonomousSchedule returns the flat monthly contributions of a tier. An
// empty tier selects the default one.
func (t *TaxTable) AutonomousSchedule(tier string) (domain.Contributions, error) {
	if tier == "" {
		tier = t.defaultTier
	}
	schedule, ok := t.tiers[tier]
	if !ok {
		return nil, &domain.ConfigurationError{Table: t.name, Reason: fmt.Sprintf("unknown autonomous tier %q", tier)}
	}
	return schedule.Clone(), nil
}

// AutonomousTiers lists the configured tiers in lexical order.
func (t *TaxTable) AutonomousTiers() []string {
	tiers := lo.Keys(t.tiers)
	sort.Strings(tiers)
	return tiers
}
