package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ganancias/withholding-calculator/internal/output"
	"github.com/ganancias/withholding-calculator/internal/tables"
)

func newTablesCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "tables [year]",
		Short: "List the embedded tax tables or show one of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if file == "" && len(args) == 0 {
				for _, year := range tables.Available() {
					t, err := tables.Load(year)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%d\t%s (effective %s)\n", year, t.Name(), t.EffectiveFrom().Format("2006-01-02"))
				}
				return nil
			}

			var (
				table *tables.TaxTable
				err   error
			)
			if file != "" {
				table, err = tables.LoadFile(file)
			} else {
				year, convErr := strconv.Atoi(args[0])
				if convErr != nil {
					return fmt.Errorf("invalid year %q", args[0])
				}
				table, err = tables.Load(year)
			}
			if err != nil {
				return err
			}
			return printTable(cmd, table)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "validate and show a custom tax table file")
	return cmd
}

func printTable(cmd *cobra.Command, table *tables.TaxTable) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\tfiscal year %d\t\n\n", table.Name(), table.FiscalYear())

	fmt.Fprintln(w, "From\tTo\tRate\tFixed\t")
	for _, b := range table.Brackets() {
		upper := "-"
		if !b.Unbounded() {
			upper = output.FormatAmount(*b.Upper)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", output.FormatAmount(b.Lower), upper, output.FormatPercentage(b.Rate), output.FormatAmount(b.FixedBelow))
	}

	fmt.Fprintln(w, "\t\t\t\t")
	fmt.Fprintln(w, "Deduction\tAmount\tMax count\tMandatory\t")
	for _, kind := range table.DeductionKinds() {
		rule, err := table.DeductionRule(kind)
		if err != nil {
			return err
		}
		amount := output.FormatAmount(rule.Amount)
		if rule.Declared() {
			amount = "up to " + output.FormatAmount(rule.Maximum)
		}
		limit := "-"
		if rule.MaxCount > 0 {
			limit = strconv.Itoa(rule.MaxCount)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t\n", kind, amount, limit, rule.Mandatory)
	}
	return w.Flush()
}
