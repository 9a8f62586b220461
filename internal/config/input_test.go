package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganancias/withholding-calculator/internal/domain"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_Success(t *testing.T) {
	path := writeConfig(t, `worker:
  monthly_salary: 8000
  category: relacion_de_dependencia
  bonus: true
  fiscal_year: 2010
deductions:
  - kind: parents_and_others
    count: 2
  - kind: life_insurance
    amount: 450.50
monthly_gross:
  3: 9500
  12: 0
`)

	cfg, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryDependent, cfg.Worker.Category, "category alias is normalised")
	assert.True(t, cfg.Worker.MonthlySalary.Equal(money.NewMoneyFromInt(8000)))
	assert.True(t, cfg.Worker.Bonus)
	assert.Equal(t, 2010, cfg.Worker.FiscalYear)

	require.Len(t, cfg.Deductions, 2)
	assert.Equal(t, domain.DeductionParentsAndOthers, cfg.Deductions[0].Kind)
	assert.Equal(t, 2, cfg.Deductions[0].Times())
	assert.Nil(t, cfg.Deductions[0].Amount)
	require.NotNil(t, cfg.Deductions[1].Amount)
	assert.True(t, cfg.Deductions[1].Amount.Equal(money.MustMoney("450.50")))
	assert.Equal(t, 1, cfg.Deductions[1].Times())

	assert.True(t, cfg.MonthlyGross[3].Equal(money.NewMoneyFromInt(9500)))
	assert.True(t, cfg.MonthlyGross[12].IsZero())
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "worker: [unclosed\n")
	_, err := NewInputParser().LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadFromFile_UnknownField(t *testing.T) {
	path := writeConfig(t, "worker:\n  monthly_salary: 8000\n  category: dependent\ndeductons: []\n")
	_, err := NewInputParser().LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deductons")
}

func validConfig() *domain.Configuration {
	return &domain.Configuration{
		Worker: domain.WorkerProfile{
			MonthlySalary: money.NewMoneyFromInt(8000),
			Category:      domain.CategoryDependent,
			FiscalYear:    2011,
		},
	}
}

func TestValidateConfiguration(t *testing.T) {
	negative := money.NewMoneyFromInt(-10)

	tests := []struct {
		name   string
		mutate func(*domain.Configuration)
		want   error
		errMsg string
	}{
		{name: "valid"},
		{name: "unknown category", mutate: func(c *domain.Configuration) { c.Worker.Category = "monotributista" }, want: domain.ErrInvalidCategory},
		{name: "negative salary", mutate: func(c *domain.Configuration) { c.Worker.MonthlySalary = negative }, want: domain.ErrNegativeAmount},
		{name: "zero salary", mutate: func(c *domain.Configuration) { c.Worker.MonthlySalary = money.Zero() }, errMsg: "must be positive"},
		{name: "no table for year", mutate: func(c *domain.Configuration) { c.Worker.FiscalYear = 2024 }, want: domain.ErrConfiguration},
		{name: "custom table skips year check", mutate: func(c *domain.Configuration) {
			c.Worker.FiscalYear = 2024
			c.TableFile = "tables/2024.yaml"
		}},
		{name: "missing kind", mutate: func(c *domain.Configuration) {
			c.Deductions = []domain.DeductionElection{{Count: 1}}
		}, errMsg: "kind is required"},
		{name: "mandatory kind", mutate: func(c *domain.Configuration) {
			c.Deductions = []domain.DeductionElection{{Kind: domain.DeductionNonTaxableMinimum}}
		}, want: domain.ErrDeductionLimitExceeded},
		{name: "negative count", mutate: func(c *domain.Configuration) {
			c.Deductions = []domain.DeductionElection{{Kind: domain.DeductionChild, Count: -1}}
		}, errMsg: "count must not be negative"},
		{name: "negative amount", mutate: func(c *domain.Configuration) {
			c.Deductions = []domain.DeductionElection{{Kind: domain.DeductionLifeInsurance, Amount: &negative}}
		}, want: domain.ErrNegativeAmount},
		{name: "month out of range", mutate: func(c *domain.Configuration) {
			c.MonthlyGross = map[int]money.Money{0: money.NewMoneyFromInt(1)}
		}, want: domain.ErrInvalidMonth},
		{name: "negative month gross", mutate: func(c *domain.Configuration) {
			c.MonthlyGross = map[int]money.Money{4: negative}
		}, want: domain.ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := NewInputParser().ValidateConfiguration(cfg)
			switch {
			case tt.want != nil:
				assert.ErrorIs(t, err, tt.want)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateExampleConfiguration(t *testing.T) {
	parser := NewInputParser()
	cfg := parser.CreateExampleConfiguration()
	require.NoError(t, parser.ValidateConfiguration(cfg))
	assert.Equal(t, 2010, cfg.Worker.FiscalYear)
	assert.True(t, cfg.Worker.Bonus)
}

func TestSaveConfigurationRoundTrip(t *testing.T) {
	parser := NewInputParser()
	cfg := parser.CreateExampleConfiguration()
	cfg.MonthlyGross = map[int]money.Money{7: money.MustMoney("8500.25")}

	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, parser.SaveConfiguration(cfg, path))

	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Worker.Category, loaded.Worker.Category)
	assert.True(t, cfg.Worker.MonthlySalary.Equal(loaded.Worker.MonthlySalary))
	require.Len(t, loaded.Deductions, len(cfg.Deductions))
	assert.True(t, cfg.Deductions[1].Amount.Equal(*loaded.Deductions[1].Amount))
	assert.True(t, loaded.MonthlyGross[7].Equal(money.MustMoney("8500.25")))
}
