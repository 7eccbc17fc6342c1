// Package render turns derived invoices into printable and shareable forms.
// Rounding happens here only; invoices keep full precision.
package render

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "2006-01-02"

// Amount formats a currency value rounded half away from zero to two places
// with digit grouping, e.g. 10024.585 -> "10,024.59".
func Amount(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f", Round2(v))
}

// Round2 rounds v to two decimal places on its shortest decimal representation.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
