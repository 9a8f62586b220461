package domain

import (
	"time"

	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// MonthsPerYear is the length of the simulated fiscal year.
const MonthsPerYear = 12

// MonthlyAccrual is one calendar month of the withholding schedule. Month is
// zero based (January = 0).
type MonthlyAccrual struct {
	Month int `json:"month"`
	// Gross includes Bonus when the month pays aguinaldo.
	Gross              money.Money   `json:"gross"`
	Bonus              money.Money   `json:"bonus"`
	Contributions      Contributions `json:"contributions"`
	NetOfContributions money.Money   `json:"net_of_contributions"`
	// CumulativeTaxable is the year-to-date income net of contributions.
	CumulativeTaxable money.Money `json:"cumulative_taxable"`
	// DeductionsToDate is the share of the annual deduction accrued so far.
	DeductionsToDate money.Money `json:"deductions_to_date"`
	// TaxableToDate is CumulativeTaxable minus DeductionsToDate, floored at zero.
	TaxableToDate money.Money `json:"taxable_to_date"`
	// TaxDueToDate is the tax owed for January through this month.
	TaxDueToDate money.Money `json:"tax_due_to_date"`
	// Withholding is the amount withheld this month. A negative value is a
	// reimbursement of tax withheld in earlier months.
	Withholding money.Money `json:"withholding"`
}

// Name returns the English month name.
func (m MonthlyAccrual) Name() string {
	return time.Month(m.Month + 1).String()
}

// Net is the take-home pay after contributions and withholding.
func (m MonthlyAccrual) Net() money.Money {
	return m.NetOfContributions.Sub(m.Withholding)
}

// Schedule is the completed year.
type Schedule struct {
	Profile             WorkerProfile                 `json:"profile"`
	Elections           []Election                    `json:"elections"`
	Months              [MonthsPerYear]MonthlyAccrual `json:"months"`
	AnnualGross         money.Money                   `json:"annual_gross"`
	AnnualContributions money.Money                   `json:"annual_contributions"`
	AnnualDeduction     money.Money                   `json:"annual_deduction"`
	AnnualTaxable       money.Money                   `json:"annual_taxable"`
	AnnualTax           money.Money                   `json:"annual_tax"`
	TotalWithheld       money.Money                   `json:"total_withheld"`
}
