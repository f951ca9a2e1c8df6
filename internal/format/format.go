// Package format renders amounts and dates the way German business documents
// print them: "1.234,56 €" and "31.12.2026".
package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var german = message.NewPrinter(language.German)

// currency symbols for the codes the app actually bills in; anything else
// falls back to the ISO code itself.
var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CHF": "CHF",
}

// Money formats an amount with German digit grouping and two decimal places,
// followed by the currency symbol ("1.234,56 €"). The zero value of
// decimal.Decimal formats as "0,00 €".
func Money(amount decimal.Decimal, currencyCode string) string {
	sym, ok := symbols[currencyCode]
	if !ok {
		sym = currencyCode
	}
	f, _ := amount.Round(2).Float64()
	return german.Sprintf("%.2f", f) + " " + sym
}

// MoneyString formats a user-supplied amount string fail-soft: anything that
// does not parse formats as zero rather than erroring.
func MoneyString(amount, currencyCode string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		d = decimal.Zero
	}
	return Money(d, currencyCode)
}

// Date renders t as DD.MM.YYYY; the zero time renders empty.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}

// Percent renders a decimal fraction as a German percentage ("19 %").
func Percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + " %"
}
