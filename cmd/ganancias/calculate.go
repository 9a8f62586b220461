package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ganancias/withholding-calculator/internal/calculation"
	"github.com/ganancias/withholding-calculator/internal/config"
	"github.com/ganancias/withholding-calculator/internal/domain"
	"github.com/ganancias/withholding-calculator/internal/output"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

type calculateOptions struct {
	configFile string
	salary     string
	category   string
	bonus      bool
	year       int
	tier       string
	tableFile  string
	deductions []string
	months     []string
	format     string
	output     string
}

func newCalculateCmd() *cobra.Command {
	opts := &calculateOptions{}
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate the monthly withholding schedule for one fiscal year",
		Example: `  ganancias calculate --config worker.yaml
  ganancias calculate --salary 8000 --category dependent --bonus --year 2010 --deduction parents_and_others=2
  ganancias calculate --config worker.yaml --format pdf --output withholding.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "worker configuration file (YAML)")
	f.StringVar(&opts.salary, "salary", "", "monthly gross salary")
	f.StringVar(&opts.category, "category", "", "employment category: dependent or autonomous")
	f.BoolVar(&opts.bonus, "bonus", false, "include the aguinaldo in June and December")
	f.IntVar(&opts.year, "year", 0, "fiscal year (defaults to the latest table)")
	f.StringVar(&opts.tier, "tier", "", "autonomous contribution tier")
	f.StringVar(&opts.tableFile, "table", "", "custom tax table file (YAML)")
	f.StringArrayVarP(&opts.deductions, "deduction", "d", nil, "elect a deduction: kind, kind=count or kind:amount (repeatable)")
	f.StringArrayVar(&opts.months, "month", nil, "override one month's gross: month=amount, month 1..12 (repeatable)")
	f.StringVarP(&opts.format, "format", "f", "console", "output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	f.StringVarP(&opts.output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func runCalculate(cmd *cobra.Command, opts *calculateOptions) error {
	formatter, err := output.LookupFormatter(opts.format)
	if err != nil {
		return err
	}

	cfg, err := buildConfiguration(cmd, opts)
	if err != nil {
		return err
	}

	schedule, err := calculation.RunConfiguration(cfg, nil,
		calculation.WithLogger(calculation.NewLogrusLogger(nil)))
	if err != nil {
		return err
	}
	log.Infof("fiscal year %d: annual tax %s", schedule.Profile.FiscalYear, output.FormatAmount(schedule.AnnualTax))

	if opts.output != "" || output.IsBinary(formatter) {
		name, err := output.WriteFormatted(formatter, schedule, opts.output)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", name)
		return nil
	}

	data, err := formatter.Format(schedule)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// buildConfiguration loads --config when given and applies the command-line
// overrides on top of it.
func buildConfiguration(cmd *cobra.Command, opts *calculateOptions) (*domain.Configuration, error) {
	parser := config.NewInputParser()
	cfg := &domain.Configuration{Worker: domain.WorkerProfile{Category: domain.CategoryDependent}}
	if opts.configFile != "" {
		loaded, err := parser.LoadFromFile(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if opts.salary == "" {
		return nil, fmt.Errorf("either --config or --salary is required")
	}

	flags := cmd.Flags()
	if flags.Changed("salary") {
		salary, err := money.NewMoneyFromString(opts.salary)
		if err != nil {
			return nil, fmt.Errorf("invalid --salary %q: %w", opts.salary, err)
		}
		cfg.Worker.MonthlySalary = salary
	}
	if flags.Changed("category") {
		cfg.Worker.Category = domain.Category(opts.category)
	}
	if flags.Changed("bonus") {
		cfg.Worker.Bonus = opts.bonus
	}
	if flags.Changed("year") {
		cfg.Worker.FiscalYear = opts.year
	}
	if flags.Changed("tier") {
		cfg.Worker.AutonomousTier = opts.tier
	}
	if flags.Changed("table") {
		cfg.TableFile = opts.tableFile
	}

	for _, raw := range opts.deductions {
		d, err := parseDeduction(raw)
		if err != nil {
			return nil, err
		}
		cfg.Deductions = append(cfg.Deductions, d)
	}
	for _, raw := range opts.months {
		month, gross, err := parseMonth(raw)
		if err != nil {
			return nil, err
		}
		if cfg.MonthlyGross == nil {
			cfg.MonthlyGross = make(map[int]money.Money)
		}
		cfg.MonthlyGross[month] = gross
	}

	if err := parser.ValidateConfiguration(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDeduction accepts "kind", "kind=count" and "kind:amount".
func parseDeduction(raw string) (domain.DeductionElection, error) {
	raw = strings.TrimSpace(raw)
	if kind, amount, ok := strings.Cut(raw, ":"); ok {
		m, err := money.NewMoneyFromString(amount)
		if err != nil {
			return domain.DeductionElection{}, fmt.Errorf("invalid deduction amount in %q: %w", raw, err)
		}
		return domain.DeductionElection{Kind: domain.DeductionKind(kind), Amount: &m}, nil
	}
	if kind, count, ok := strings.Cut(raw, "="); ok {
		n, err := strconv.Atoi(count)
		if err != nil || n < 1 {
			return domain.DeductionElection{}, fmt.Errorf("invalid deduction count in %q", raw)
		}
		return domain.DeductionElection{Kind: domain.DeductionKind(kind), Count: n}, nil
	}
	return domain.DeductionElection{Kind: domain.DeductionKind(raw)}, nil
}

// parseMonth accepts "month=amount".
func parseMonth(raw string) (int, money.Money, error) {
	month, amount, ok := strings.Cut(strings.TrimSpace(raw), "=")
	if !ok {
		return 0, money.Money{}, fmt.Errorf("invalid --month %q, want month=amount", raw)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return 0, money.Money{}, fmt.Errorf("invalid month in %q: %w", raw, err)
	}
	gross, err := money.NewMoneyFromString(amount)
	if err != nil {
		return 0, money.Money{}, fmt.Errorf("invalid amount in %q: %w", raw, err)
	}
	return m, gross, nil
}
