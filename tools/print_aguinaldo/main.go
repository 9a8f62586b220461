package main

import (
	"fmt"
	"log"

	"github.com/ganancias/withholding-calculator/internal/calculation"
	"github.com/ganancias/withholding-calculator/internal/domain"
	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// Prints the aguinaldo and withholding of a worker hired in March, for
// checking proration by hand.
func main() {
	engine, err := calculation.NewEngineForYear(domain.WorkerProfile{
		MonthlySalary: money.NewMoneyFromInt(8000),
		Category:      domain.CategoryDependent,
		Bonus:         true,
		FiscalYear:    2010,
	})
	if err != nil {
		log.Fatal(err)
	}
	for month := 1; month <= 2; month++ {
		if err := engine.SetMonthGross(month, money.Zero()); err != nil {
			log.Fatal(err)
		}
	}
	if err := engine.Calculate(); err != nil {
		log.Fatal(err)
	}

	months, err := engine.Months()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%-10s %10s %10s %10s\n", "Month", "Gross", "Aguinaldo", "Withheld")
	for _, m := range months {
		fmt.Printf("%-10s %10s %10s %10s\n", m.Name(), m.Gross.StringFixed(2), m.Bonus.StringFixed(2), m.Withholding.StringFixed(2))
	}
	tax, _ := engine.AnnualTax()
	fmt.Printf("Annual tax: %s\n", tax.StringFixed(2))
}
