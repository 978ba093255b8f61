package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders an amount for display, rounded to two decimals with the
// currency symbol, e.g. "$1,250.00". Unknown codes fall back to "XYZ 1,250.00".
func Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	value := amount.Round(2).InexactFloat64()
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + printer.Sprintf("%.2f", value)
	}
	return printer.Sprint(currency.Symbol(unit)) + printer.Sprintf("%.2f", value)
}

// DefaultCurrency applies when an invoice or expense omits its currency.
const DefaultCurrency = "USD"
