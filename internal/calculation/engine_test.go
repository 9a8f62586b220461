package calculation

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganancias/withholding-calculator/internal/domain"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

func scenarioProfile() domain.WorkerProfile {
	return domain.WorkerProfile{
		MonthlySalary: money.NewMoneyFromInt(8000),
		Category:      domain.CategoryDependent,
		Bonus:         true,
		FiscalYear:    2010,
	}
}

func newScenarioEngine(t *testing.T) *GananciasEngine {
	t.Helper()
	engine, err := NewEngine(scenarioProfile(), loadTable(t, 2010))
	require.NoError(t, err)
	require.NoError(t, engine.AddDeduction(domain.DeductionParentsAndOthers))
	require.NoError(t, engine.AddDeduction(domain.DeductionParentsAndOthers))
	return engine
}

func sumWithholdings(months []domain.MonthlyAccrual) money.Money {
	total := money.Zero()
	for _, m := range months {
		total = total.Add(m.Withholding)
	}
	return total
}

// TestScenarioDependentWithBonus checks the reference year: 8000 per month,
// dependent, aguinaldo, two parents_and_others elections under the 2010 table.
func TestScenarioDependentWithBonus(t *testing.T) {
	engine := newScenarioEngine(t)
	assert.True(t, engine.AnnualGross().Equal(money.NewMoneyFromInt(104000)), "annual gross is available before Calculate")
	assert.True(t, engine.AnnualDeduction().Equal(money.NewMoneyFromInt(59700)))

	require.NoError(t, engine.Calculate())

	months, err := engine.Months()
	require.NoError(t, err)
	require.Len(t, months, 12)

	jan := months[0]
	assert.True(t, jan.Gross.Equal(money.NewMoneyFromInt(8000)))
	assert.True(t, jan.Contributions.Get(domain.ContributionPension).Equal(money.NewMoneyFromInt(880)))
	assert.True(t, jan.Contributions.Get(domain.ContributionHealthInstitute).Equal(money.NewMoneyFromInt(240)))
	assert.True(t, jan.Contributions.Get(domain.ContributionUnionMedical).Equal(money.NewMoneyFromInt(240)))
	assert.True(t, jan.Withholding.Equal(money.MustMoney("191.43")), "january withholding %s", jan.Withholding)

	jun := months[5]
	assert.True(t, jun.Bonus.Equal(money.NewMoneyFromInt(4000)))
	assert.True(t, jun.Gross.Equal(money.NewMoneyFromInt(12000)))
	assert.True(t, jun.Withholding.Equal(money.MustMoney("821.73")), "june withholding %s", jun.Withholding)

	want := []string{"191.43", "191.44", "191.43", "191.43", "191.44", "821.73",
		"191.35", "191.35", "191.35", "191.35", "191.35", "822.15"}
	for i, m := range months {
		assert.True(t, m.Withholding.Equal(money.MustMoney(want[i])), "%s: got %s want %s", m.Name(), m.Withholding, want[i])
	}

	tax, err := engine.AnnualTax()
	require.NoError(t, err)
	assert.True(t, tax.Equal(money.MustMoney("3557.80")), "annual tax %s", tax)
	assert.True(t, sumWithholdings(months).Equal(tax))

	schedule, err := engine.Schedule()
	require.NoError(t, err)
	assert.True(t, schedule.AnnualGross.Equal(money.NewMoneyFromInt(104000)))
	assert.True(t, schedule.AnnualContributions.Equal(money.NewMoneyFromInt(17680)))
	assert.True(t, schedule.AnnualTaxable.Equal(money.NewMoneyFromInt(26620)))
	assert.True(t, schedule.TotalWithheld.Equal(tax))
	assert.Len(t, schedule.Elections, 2)
}

func TestConstantSalaryWithoutBonus(t *testing.T) {
	profile := scenarioProfile()
	profile.Bonus = false
	engine, err := NewEngine(profile, loadTable(t, 2010))
	require.NoError(t, err)
	require.NoError(t, engine.Calculate())

	months, err := engine.Months()
	require.NoError(t, err)
	for _, m := range months {
		assert.True(t, m.Bonus.IsZero())
		assert.True(t, m.Withholding.Equal(money.MustMoney("310.10")), "%s: %s", m.Name(), m.Withholding)
	}
	tax, err := engine.AnnualTax()
	require.NoError(t, err)
	assert.True(t, tax.Equal(money.MustMoney("3721.20")))
}

func TestIncomeBelowDeductionsOwesNothing(t *testing.T) {
	profile := scenarioProfile()
	profile.MonthlySalary = money.NewMoneyFromInt(4000)
	engine, err := NewEngine(profile, loadTable(t, 2010))
	require.NoError(t, err)
	require.NoError(t, engine.Calculate())

	months, err := engine.Months()
	require.NoError(t, err)
	for _, m := range months {
		assert.True(t, m.TaxableToDate.IsZero(), "%s taxable %s", m.Name(), m.TaxableToDate)
		assert.True(t, m.Withholding.IsZero(), "%s withholding %s", m.Name(), m.Withholding)
	}
	tax, err := engine.AnnualTax()
	require.NoError(t, err)
	assert.True(t, tax.IsZero())
}

func TestReimbursementAfterIncomeStops(t *testing.T) {
	profile := scenarioProfile()
	profile.MonthlySalary = money.NewMoneyFromInt(20000)
	profile.Bonus = false
	engine, err := NewEngine(profile, loadTable(t, 2010))
	require.NoError(t, err)
	for month := 7; month <= 12; month++ {
		require.NoError(t, engine.SetMonthGross(month, money.Zero()))
	}
	require.NoError(t, engine.Calculate())

	months, err := engine.Months()
	require.NoError(t, err)
	assert.True(t, months[5].Withholding.Equal(money.MustMoney("3162.50")))
	assert.True(t, months[6].Withholding.Equal(money.MustMoney("-2613.50")), "july reimburses: %s", months[6].Withholding)
	assert.True(t, months[6].Contributions.Total().IsZero())

	tax, err := engine.AnnualTax()
	require.NoError(t, err)
	assert.True(t, tax.Equal(money.MustMoney("8202")))
	assert.True(t, sumWithholdings(months).Equal(tax))
}

func TestAutonomousWorker(t *testing.T) {
	profile := scenarioProfile()
	profile.Category = domain.CategoryAutonomous
	engine, err := NewEngine(profile, loadTable(t, 2010))
	require.NoError(t, err)
	assert.True(t, engine.AnnualDeduction().Equal(money.NewMoneyFromInt(18000)))
	require.NoError(t, engine.Calculate())

	months, err := engine.Months()
	require.NoError(t, err)
	assert.True(t, months[0].Contributions.Total().Equal(money.NewMoneyFromInt(292)))
	assert.True(t, months[5].Contributions.Total().Equal(money.NewMoneyFromInt(292)), "flat amounts ignore the aguinaldo")
	assert.True(t, months[0].Withholding.Equal(money.MustMoney("1251.16")))

	tax, err := engine.AnnualTax()
	require.NoError(t, err)
	assert.True(t, tax.Equal(money.MustMoney("17173.92")))
}

func TestWithholdingsReconcileWithAnnualTax(t *testing.T) {
	elections := [][]domain.DeductionKind{
		nil,
		{domain.DeductionSpouse},
		{domain.DeductionSpouse, domain.DeductionChild, domain.DeductionChild},
		{domain.DeductionParentsAndOthers, domain.DeductionParentsAndOthers, domain.DeductionChild},
	}
	for _, year := range []int{2010, 2011} {
		table := loadTable(t, year)
		for _, category := range []domain.Category{domain.CategoryDependent, domain.CategoryAutonomous} {
			for _, salary := range []string{"3000", "7777.77", "8000", "12345.67", "25000", "61000.01"} {
				for _, bonus := range []bool{false, true} {
					for i, kinds := range elections {
						name := fmt.Sprintf("%d/%s/%s/bonus=%t/e%d", year, category, salary, bonus, i)
						t.Run(name, func(t *testing.T) {
							engine, err := NewEngine(domain.WorkerProfile{
								MonthlySalary: money.MustMoney(salary),
								Category:      category,
								Bonus:         bonus,
								FiscalYear:    year,
							}, table)
							require.NoError(t, err)
							for _, k := range kinds {
								require.NoError(t, engine.AddDeduction(k))
							}
							require.NoError(t, engine.Calculate())

							months, err := engine.Months()
							require.NoError(t, err)
							tax, err := engine.AnnualTax()
							require.NoError(t, err)
							assert.True(t, sumWithholdings(months).Equal(tax), "withheld %s, tax %s", sumWithholdings(months), tax)
							assert.False(t, tax.IsNegative())
							for _, m := range months {
								assert.True(t, m.Contributions.Total().LessThanOrEqual(m.Gross))
								assert.True(t, m.Withholding.Equal(m.Withholding.Round()), "withholding %s is not in whole cents", m.Withholding)
							}
						})
					}
				}
			}
		}
	}
}

func TestAnnualTaxMonotonicInSalary(t *testing.T) {
	table := loadTable(t, 2010)
	previous := money.Zero()
	for salary := int64(1000); salary <= 40000; salary += 750 {
		profile := scenarioProfile()
		profile.MonthlySalary = money.NewMoneyFromInt(salary)
		engine, err := NewEngine(profile, table)
		require.NoError(t, err)
		require.NoError(t, engine.AddDeduction(domain.DeductionSpouse))
		require.NoError(t, engine.Calculate())

		tax, err := engine.AnnualTax()
		require.NoError(t, err)
		assert.True(t, tax.GreaterThanOrEqual(previous), "salary %d: tax %s < %s", salary, tax, previous)
		previous = tax
	}
}

func TestMoreDeductionsNeverRaiseTax(t *testing.T) {
	table := loadTable(t, 2011)
	profile := scenarioProfile()
	profile.FiscalYear = 2011
	profile.MonthlySalary = money.NewMoneyFromInt(15000)

	previous := money.Zero()
	for children := 0; children <= 6; children++ {
		engine, err := NewEngine(profile, table)
		require.NoError(t, err)
		for i := 0; i < children; i++ {
			require.NoError(t, engine.AddDeduction(domain.DeductionChild))
		}
		require.NoError(t, engine.Calculate())
		tax, err := engine.AnnualTax()
		require.NoError(t, err)
		if children > 0 {
			assert.True(t, tax.LessThanOrEqual(previous), "%d children: %s > %s", children, tax, previous)
		}
		previous = tax
	}
}

func TestNewEngineValidation(t *testing.T) {
	table := loadTable(t, 2010)

	tests := []struct {
		name   string
		mutate func(*domain.WorkerProfile)
		want   error
	}{
		{"invalid category", func(p *domain.WorkerProfile) { p.Category = "contractor" }, domain.ErrInvalidCategory},
		{"negative salary", func(p *domain.WorkerProfile) { p.MonthlySalary = money.NewMoneyFromInt(-1) }, domain.ErrNegativeAmount},
		{"fiscal year mismatch", func(p *domain.WorkerProfile) { p.FiscalYear = 2011 }, domain.ErrConfiguration},
		{"unknown autonomous tier", func(p *domain.WorkerProfile) {
			p.Category = domain.CategoryAutonomous
			p.AutonomousTier = "IX"
		}, domain.ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := scenarioProfile()
			tt.mutate(&profile)
			_, err := NewEngine(profile, table)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	zero := scenarioProfile()
	zero.MonthlySalary = money.Zero()
	_, err := NewEngine(zero, table)
	assert.Error(t, err)

	_, err = NewEngine(scenarioProfile(), nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	adopt := scenarioProfile()
	adopt.FiscalYear = 0
	engine, err := NewEngine(adopt, table)
	require.NoError(t, err)
	assert.Equal(t, 2010, engine.Profile().FiscalYear)

	engine, err = NewEngineForYear(scenarioProfile())
	require.NoError(t, err)
	assert.Same(t, table, engine.Table())

	missing := scenarioProfile()
	missing.FiscalYear = 1999
	_, err = NewEngineForYear(missing)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestSetMonthGross(t *testing.T) {
	engine := newScenarioEngine(t)

	assert.ErrorIs(t, engine.SetMonthGross(0, money.NewMoneyFromInt(1)), domain.ErrInvalidMonth)
	assert.ErrorIs(t, engine.SetMonthGross(13, money.NewMoneyFromInt(1)), domain.ErrInvalidMonth)
	assert.ErrorIs(t, engine.SetMonthGross(3, money.NewMoneyFromInt(-1)), domain.ErrNegativeAmount)

	require.NoError(t, engine.SetMonthGross(3, money.NewMoneyFromInt(10000)))
	gross := engine.MonthlyGross()
	assert.True(t, gross[2].Equal(money.NewMoneyFromInt(10000)))
	assert.True(t, gross[5].Equal(money.NewMoneyFromInt(13000)), "aguinaldo follows the highest month")
}

func TestCalculateLifecycle(t *testing.T) {
	engine := newScenarioEngine(t)

	_, err := engine.Months()
	assert.ErrorIs(t, err, domain.ErrNotCalculated)
	_, err = engine.Schedule()
	assert.ErrorIs(t, err, domain.ErrNotCalculated)
	_, err = engine.AnnualTax()
	assert.ErrorIs(t, err, domain.ErrNotCalculated)
	assert.False(t, engine.Calculated())

	require.NoError(t, engine.Calculate())
	assert.True(t, engine.Calculated())
	first, err := engine.Schedule()
	require.NoError(t, err)

	assert.ErrorIs(t, engine.Calculate(), domain.ErrAlreadyCalculated)
	assert.ErrorIs(t, engine.AddDeduction(domain.DeductionChild), domain.ErrAlreadyCalculated)
	assert.ErrorIs(t, engine.AddDeductionAmount(domain.DeductionLifeInsurance, money.NewMoneyFromInt(1)), domain.ErrAlreadyCalculated)
	assert.ErrorIs(t, engine.RemoveDeduction(domain.DeductionParentsAndOthers), domain.ErrAlreadyCalculated)
	assert.ErrorIs(t, engine.SetMonthGross(1, money.NewMoneyFromInt(1)), domain.ErrAlreadyCalculated)

	engine.Reset()
	assert.False(t, engine.Calculated())
	assert.Len(t, engine.Elections(), 2, "reset keeps elections")
	require.NoError(t, engine.Calculate())
	second, err := engine.Schedule()
	require.NoError(t, err)
	assert.True(t, first.AnnualTax.Equal(second.AnnualTax), "recalculation is deterministic")

	engine.Reset()
	require.NoError(t, engine.RemoveDeduction(domain.DeductionParentsAndOthers))
	require.NoError(t, engine.Calculate())
	third, err := engine.AnnualTax()
	require.NoError(t, err)
	assert.True(t, third.GreaterThan(first.AnnualTax))
}

func TestResultsAreCopies(t *testing.T) {
	engine := newScenarioEngine(t)
	require.NoError(t, engine.Calculate())

	months, err := engine.Months()
	require.NoError(t, err)
	months[0].Contributions[domain.ContributionPension] = money.Zero()
	months[0].Withholding = money.Zero()

	jan, err := engine.Month(0)
	require.NoError(t, err)
	assert.True(t, jan.Contributions.Get(domain.ContributionPension).Equal(money.NewMoneyFromInt(880)))
	assert.True(t, jan.Withholding.Equal(money.MustMoney("191.43")))

	_, err = engine.Month(12)
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}

func TestEnginesShareTableConcurrently(t *testing.T) {
	table := loadTable(t, 2010)
	var wg sync.WaitGroup
	results := make([]money.Money, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			engine, err := NewEngine(scenarioProfile(), table)
			if err != nil {
				errs[i] = err
				return
			}
			_ = engine.AddDeduction(domain.DeductionParentsAndOthers)
			_ = engine.AddDeduction(domain.DeductionParentsAndOthers)
			if err := engine.Calculate(); err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = engine.AnnualTax()
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.True(t, results[i].Equal(money.MustMoney("3557.80")))
	}
}

func TestEngineLogsThroughLogrus(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	engine, err := NewEngine(scenarioProfile(), loadTable(t, 2010),
		WithLogger(NewLogrusLogger(logger.WithField("module", "calculation"))))
	require.NoError(t, err)
	require.NoError(t, engine.Calculate())

	out := buf.String()
	assert.Contains(t, out, "module=calculation")
	assert.Contains(t, out, "withholding=310.10")
	assert.Contains(t, out, "tax=5147.60")

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}
