package output

import (
	"strconv"

	"github.com/shopspring/decimal"

	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// FormatAmount formats an amount with exactly two decimals and no locale
// grouping or currency symbol.
func FormatAmount(amount money.Money) string { return amount.StringFixed(2) }

// FormatPercentage formats a fraction (0.1234) as a percentage with 2 decimals.
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Mul(decimalHundred).StringFixed(2) + "%"
}

var decimalHundred = decimal.NewFromInt(100)

func intToString(i int) string { return strconv.Itoa(i) }
