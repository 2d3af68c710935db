package cli

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Amounts are rendered with French digit grouping, the convention of the
// bank's home market.
var printer = message.NewPrinter(language.French)

// Money renders an amount with its currency code. Fractions only show when
// present; XAF amounts are whole in practice.
func Money(amount float64, currency string) string {
	if currency == "" {
		currency = "XAF"
	}
	return printer.Sprintf("%v %s", number.Decimal(amount, number.MaxFractionDigits(2)), currency)
}
