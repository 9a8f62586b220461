package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganancias/withholding-calculator/internal/domain"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

func TestRunConfiguration(t *testing.T) {
	lifeInsurance := money.NewMoneyFromInt(500)
	cfg := &domain.Configuration{
		Worker: scenarioProfile(),
		Deductions: []domain.DeductionElection{
			{Kind: domain.DeductionParentsAndOthers, Count: 2},
		},
	}

	schedule, err := RunConfiguration(cfg, nil)
	require.NoError(t, err)
	assert.True(t, schedule.AnnualTax.Equal(money.MustMoney("3557.80")))
	assert.True(t, schedule.Months[5].Withholding.Equal(money.MustMoney("821.73")))

	cfg.Deductions = append(cfg.Deductions, domain.DeductionElection{Kind: domain.DeductionLifeInsurance, Amount: &lifeInsurance})
	cfg.MonthlyGross = map[int]money.Money{12: money.Zero(), 11: money.Zero()}
	withOverrides, err := RunConfiguration(cfg, loadTable(t, 2010))
	require.NoError(t, err)
	assert.True(t, withOverrides.AnnualDeduction.Equal(money.NewMoneyFromInt(60200)))
	assert.True(t, withOverrides.Months[10].Gross.IsZero())
	assert.True(t, withOverrides.AnnualTax.LessThan(schedule.AnnualTax))
}

func TestRunConfigurationErrors(t *testing.T) {
	_, err := RunConfiguration(nil, nil)
	assert.Error(t, err)

	tests := []struct {
		name string
		cfg  domain.Configuration
		want error
	}{
		{"too many spouses", domain.Configuration{
			Worker:     scenarioProfile(),
			Deductions: []domain.DeductionElection{{Kind: domain.DeductionSpouse, Count: 2}},
		}, domain.ErrDeductionLimitExceeded},
		{"unknown deduction", domain.Configuration{
			Worker:     scenarioProfile(),
			Deductions: []domain.DeductionElection{{Kind: "boat"}},
		}, domain.ErrUnknownDeductionKind},
		{"bad month", domain.Configuration{
			Worker:       scenarioProfile(),
			MonthlyGross: map[int]money.Money{13: money.NewMoneyFromInt(1)},
		}, domain.ErrInvalidMonth},
		{"no table for year", domain.Configuration{
			Worker: domain.WorkerProfile{MonthlySalary: money.NewMoneyFromInt(1), Category: domain.CategoryDependent, FiscalYear: 2031},
		}, domain.ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			_, err := RunConfiguration(&cfg, nil)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsInputError(err) != (tt.want == domain.ErrConfiguration))
		})
	}
}

func TestResolveTableDefaultsToLatest(t *testing.T) {
	table, err := ResolveTable(&domain.Configuration{})
	require.NoError(t, err)
	assert.Equal(t, 2011, table.FiscalYear())
}
