package calculation

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/ganancias/withholding-calculator/internal/domain"
	"github.com/ganancias/withholding-calculator/internal/tables"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// GananciasEngine simulates one worker's fiscal year and produces the monthly
// income-tax withholding schedule.
//
// Usage follows a fixed lifecycle: build the engine, adjust months and elect
// deductions, then Calculate once. Calculating again, or mutating inputs after
// calculation, fails with ErrAlreadyCalculated until Reset is called.
//
// An engine is owned by one caller and is not safe for concurrent use. Many
// engines may run in parallel over the same TaxTable.
type GananciasEngine struct {
	profile       domain.WorkerProfile
	table         *tables.TaxTable
	contributions *ContributionCalculator
	ledger        *DeductionLedger
	base          [domain.MonthsPerYear]money.Money

	schedule *domain.Schedule
	Logger   Logger
}

// Option configures a GananciasEngine.
type Option func(*GananciasEngine)

// WithLogger sets the engine logger.
func WithLogger(l Logger) Option {
	return func(e *GananciasEngine) { e.SetLogger(l) }
}

// NewEngine validates the profile against the table and seeds twelve months
// at the profile's monthly salary. A zero fiscal year adopts the table's.
func NewEngine(profile domain.WorkerProfile, table *tables.TaxTable, opts ...Option) (*GananciasEngine, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: no tax table", domain.ErrConfiguration)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid worker profile: %w", err)
	}
	if profile.FiscalYear == 0 {
		profile.FiscalYear = table.FiscalYear()
	}
	if profile.FiscalYear != table.FiscalYear() {
		return nil, &domain.ConfigurationError{
			Table:  table.Name(),
			Reason: fmt.Sprintf("table is for fiscal year %d, worker profile is for %d", table.FiscalYear(), profile.FiscalYear),
		}
	}
	if profile.Category == domain.CategoryAutonomous {
		if _, err := table.AutonomousSchedule(profile.AutonomousTier); err != nil {
			return nil, err
		}
	}

	ledger, err := NewDeductionLedger(table, profile.Category)
	if err != nil {
		return nil, err
	}

	e := &GananciasEngine{
		profile:       profile,
		table:         table,
		contributions: NewContributionCalculator(table, profile.AutonomousTier),
		ledger:        ledger,
		Logger:        NopLogger{},
	}
	for i := range e.base {
		e.base[i] = profile.MonthlySalary
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewEngineForYear loads the embedded table for the profile's fiscal year.
func NewEngineForYear(profile domain.WorkerProfile, opts ...Option) (*GananciasEngine, error) {
	table, err := tables.Load(profile.FiscalYear)
	if err != nil {
		return nil, err
	}
	return NewEngine(profile, table, opts...)
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *GananciasEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Profile returns the worker profile the engine was built with.
func (e *GananciasEngine) Profile() domain.WorkerProfile { return e.profile }

// Table returns the tax table bound to the engine.
func (e *GananciasEngine) Table() *tables.TaxTable { return e.table }

// SetMonthGross overrides the base gross of month (1 = January). A zero gross
// marks a month not worked, which also reduces that semester's aguinaldo.
func (e *GananciasEngine) SetMonthGross(month int, gross money.Money) error {
	if err := e.mutable(); err != nil {
		return err
	}
	if month < 1 || month > domain.MonthsPerYear {
		return fmt.Errorf("%w: %d (want 1..12)", domain.ErrInvalidMonth, month)
	}
	if err := domain.CheckNonNegative(fmt.Sprintf("gross for month %d", month), gross); err != nil {
		return err
	}
	e.base[month-1] = gross
	return nil
}

// AddDeduction elects one deduction of a flat-amount kind.
func (e *GananciasEngine) AddDeduction(kind domain.DeductionKind) error {
	if err := e.mutable(); err != nil {
		return err
	}
	return e.ledger.Add(kind)
}

// AddDeductionAmount elects a declared amount of a capped kind.
func (e *GananciasEngine) AddDeductionAmount(kind domain.DeductionKind, amount money.Money) error {
	if err := e.mutable(); err != nil {
		return err
	}
	return e.ledger.AddAmount(kind, amount)
}

// RemoveDeduction withdraws the most recent election of kind.
func (e *GananciasEngine) RemoveDeduction(kind domain.DeductionKind) error {
	if err := e.mutable(); err != nil {
		return err
	}
	return e.ledger.Remove(kind)
}

// Elections returns the current elections.
func (e *GananciasEngine) Elections() []domain.Election {
	return e.ledger.Elections()
}

// AnnualDeduction returns the total annual deduction, mandatory part included.
func (e *GananciasEngine) AnnualDeduction() money.Money {
	return e.ledger.AnnualTotal()
}

func (e *GananciasEngine) mutable() error {
	if e.schedule != nil {
		return domain.ErrAlreadyCalculated
	}
	return nil
}

// bonus returns the aguinaldo per month, zero everywhere when disabled.
func (e *GananciasEngine) bonus() [domain.MonthsPerYear]money.Money {
	if e.profile.Bonus {
		return AguinaldoSchedule(e.base)
	}
	var none [domain.MonthsPerYear]money.Money
	for i := range none {
		none[i] = money.Zero()
	}
	return none
}

// MonthlyGross returns each month's gross including aguinaldo.
func (e *GananciasEngine) MonthlyGross() [domain.MonthsPerYear]money.Money {
	bonus := e.bonus()
	var gross [domain.MonthsPerYear]money.Money
	for i := range gross {
		gross[i] = e.base[i].Add(bonus[i])
	}
	return gross
}

// AnnualGross sums the twelve monthly gross amounts, aguinaldo included. It
// is available before Calculate.
func (e *GananciasEngine) AnnualGross() money.Money {
	gross := e.MonthlyGross()
	return money.Sum(gross[:]...)
}

// Calculate runs the twelve-month simulation.
//
// Each month the year-to-date income net of contributions is compared with
// the year-to-date share of the annual deduction. The difference is projected
// onto a full year to pick the bracket, the annual tax is brought back to the
// months elapsed, and the month withholds whatever that figure exceeds the
// tax already withheld. December's year-to-date tax is the annual tax on the
// whole year's income, so the twelve withholdings add up to it exactly.
//
// Any failure aborts the whole year; no partial months are kept.
func (e *GananciasEngine) Calculate() error {
	if e.schedule != nil {
		return domain.ErrAlreadyCalculated
	}

	bonus := e.bonus()
	annualDeduction := e.ledger.AnnualTotal()

	var months [domain.MonthsPerYear]domain.MonthlyAccrual
	cumulative := money.Zero()
	withheld := money.Zero()

	for m := 0; m < domain.MonthsPerYear; m++ {
		elapsed := m + 1
		gross := e.base[m].Add(bonus[m])

		contributions, err := e.contributions.Compute(gross, e.profile.Category)
		if err != nil {
			return fmt.Errorf("month %d contributions: %w", elapsed, err)
		}
		net := gross.Sub(contributions.Total())
		cumulative = cumulative.Add(net)

		deductionsToDate := annualDeduction.ToDate(elapsed)
		taxableToDate := money.Max(cumulative.Sub(deductionsToDate), money.Zero())

		annualTax, err := e.table.TaxOn(taxableToDate.Annualize(elapsed))
		if err != nil {
			return fmt.Errorf("month %d tax: %w", elapsed, err)
		}
		dueToDate := annualTax.ToDate(elapsed).Round()
		withholding := dueToDate.Sub(withheld)
		withheld = dueToDate

		months[m] = domain.MonthlyAccrual{
			Month:              m,
			Gross:              gross,
			Bonus:              bonus[m],
			Contributions:      contributions,
			NetOfContributions: net,
			CumulativeTaxable:  cumulative,
			DeductionsToDate:   deductionsToDate,
			TaxableToDate:      taxableToDate,
			TaxDueToDate:       dueToDate,
			Withholding:        withholding,
		}
		e.Logger.Debugf("month %2d gross=%s contributions=%s cumulative=%s taxable=%s due=%s withholding=%s",
			elapsed, gross, contributions.Total(), cumulative, taxableToDate, dueToDate, withholding)
		if withholding.IsNegative() {
			e.Logger.Infof("month %d reimburses %s of tax withheld earlier", elapsed, withholding.Abs())
		}
	}

	december := months[domain.MonthsPerYear-1]
	schedule := &domain.Schedule{
		Profile:         e.profile,
		Elections:       e.ledger.Elections(),
		Months:          months,
		AnnualGross:     money.Sum(lo.Map(months[:], func(m domain.MonthlyAccrual, _ int) money.Money { return m.Gross })...),
		AnnualDeduction: annualDeduction,
		AnnualTaxable:   december.TaxableToDate,
		AnnualTax:       december.TaxDueToDate,
		TotalWithheld:   money.Sum(lo.Map(months[:], func(m domain.MonthlyAccrual, _ int) money.Money { return m.Withholding })...),
	}
	schedule.AnnualContributions = money.Sum(lo.Map(months[:], func(m domain.MonthlyAccrual, _ int) money.Money {
		return m.Contributions.Total()
	})...)
	if !schedule.TotalWithheld.Equal(schedule.AnnualTax) {
		// Cannot happen with the cumulative scheme; guard against regressions.
		return fmt.Errorf("withholding does not reconcile: withheld %s, annual tax %s", schedule.TotalWithheld, schedule.AnnualTax)
	}

	e.schedule = schedule
	e.Logger.Infof("fiscal year %d: gross=%s deductions=%s taxable=%s tax=%s",
		e.profile.FiscalYear, schedule.AnnualGross, annualDeduction, schedule.AnnualTaxable, schedule.AnnualTax)
	return nil
}

// Calculated reports whether Calculate has completed since the last Reset.
func (e *GananciasEngine) Calculated() bool {
	return e.schedule != nil
}

// Reset discards the results so months and elections can change again.
// Elections and month overrides are kept.
func (e *GananciasEngine) Reset() {
	e.schedule = nil
}

// Months returns the twelve computed months, January first.
func (e *GananciasEngine) Months() ([]domain.MonthlyAccrual, error) {
	if e.schedule == nil {
		return nil, domain.ErrNotCalculated
	}
	return lo.Map(e.schedule.Months[:], func(m domain.MonthlyAccrual, _ int) domain.MonthlyAccrual {
		m.Contributions = m.Contributions.Clone()
		return m
	}), nil
}

// Month returns one computed month by zero-based index (January = 0).
func (e *GananciasEngine) Month(index int) (domain.MonthlyAccrual, error) {
	if index < 0 || index >= domain.MonthsPerYear {
		return domain.MonthlyAccrual{}, fmt.Errorf("%w: index %d (want 0..11)", domain.ErrInvalidMonth, index)
	}
	months, err := e.Months()
	if err != nil {
		return domain.MonthlyAccrual{}, err
	}
	return months[index], nil
}

// Schedule returns a copy of the completed year.
func (e *GananciasEngine) Schedule() (*domain.Schedule, error) {
	if e.schedule == nil {
		return nil, domain.ErrNotCalculated
	}
	out := *e.schedule
	out.Elections = append([]domain.Election(nil), e.schedule.Elections...)
	for i := range out.Months {
		out.Months[i].Contributions = out.Months[i].Contributions.Clone()
	}
	return &out, nil
}

// AnnualTax returns the tax for the year once calculated.
func (e *GananciasEngine) AnnualTax() (money.Money, error) {
	if e.schedule == nil {
		return money.Zero(), domain.ErrNotCalculated
	}
	return e.schedule.AnnualTax, nil
}

// IsInputError reports whether err was caused by caller input rather than a
// broken tax table.
func IsInputError(err error) bool {
	return errors.Is(err, domain.ErrInvalidCategory) ||
		errors.Is(err, domain.ErrNegativeAmount) ||
		errors.Is(err, domain.ErrUnknownDeductionKind) ||
		errors.Is(err, domain.ErrDeductionLimitExceeded) ||
		errors.Is(err, domain.ErrInvalidMonth)
}
