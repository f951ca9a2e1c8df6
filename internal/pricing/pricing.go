package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountType selects how a line discount value is interpreted.
type DiscountType string

const (
	DiscountNone       DiscountType = ""
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// TaxMode selects how document tax is derived from the lines.
type TaxMode int

const (
	// TaxModeFlat applies one document-level rate to the subtotal.
	TaxModeFlat TaxMode = iota
	// TaxModePerLine sums each line's total multiplied by its own rate.
	TaxModePerLine
)

// Units accepted on a line item. Display-only, no computation impact.
var Units = []string{"piece", "hour", "day", "month", "year", "m", "m²", "m³", "kg", "l", "package"}

// German standard VAT rates as decimal fractions.
var (
	TaxRateZero     = decimal.Zero
	TaxRateReduced  = decimal.RequireFromString("0.07")
	TaxRateStandard = decimal.RequireFromString("0.19")
)

var hundred = decimal.NewFromInt(100)

// ValidUnit reports whether u is one of the accepted unit labels.
func ValidUnit(u string) bool {
	for _, v := range Units {
		if v == u {
			return true
		}
	}
	return false
}

// ValidTaxRate reports whether r is one of the German standard rates (0, 7%, 19%).
func ValidTaxRate(r decimal.Decimal) bool {
	return r.Equal(TaxRateZero) || r.Equal(TaxRateReduced) || r.Equal(TaxRateStandard)
}

// LineInput is everything a single line contributes to pricing.
type LineInput struct {
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	TaxRate       decimal.Decimal
}

// LineResult carries the derived amounts of one line.
type LineResult struct {
	Base           decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	TaxRate        decimal.Decimal
}

// ComputeLine derives discount amount and line total from a line's raw fields.
//
// base = quantity × unitPrice. Percentage discounts are clamped to [0,100] so a
// line total can never go negative; fixed discounts are capped at the base
// amount for the same reason. Pure and total: no input produces an error.
func ComputeLine(in LineInput) LineResult {
	base := in.Quantity.Mul(in.UnitPrice)
	var discount decimal.Decimal
	switch in.DiscountType {
	case DiscountPercentage:
		pct := in.DiscountValue
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		discount = base.Mul(pct).Div(hundred)
	case DiscountFixed:
		discount = in.DiscountValue
		if discount.IsNegative() {
			discount = decimal.Zero
		}
		if discount.GreaterThan(base) {
			discount = base
		}
	default:
		discount = decimal.Zero
	}
	return LineResult{
		Base:           base,
		DiscountAmount: discount,
		Total:          base.Sub(discount),
		TaxRate:        in.TaxRate,
	}
}

// Totals is the document-level aggregate shown next to every item list.
type Totals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
}

// ComputeTotals reduces computed lines into document totals. In TaxModeFlat the
// documentTaxRate applies to the whole subtotal; in TaxModePerLine each line's
// own rate applies to its total and documentTaxRate is ignored. An empty line
// list yields all-zero totals.
func ComputeTotals(lines []LineResult, mode TaxMode, documentTaxRate decimal.Decimal) Totals {
	t := Totals{Subtotal: decimal.Zero, TotalDiscount: decimal.Zero, TaxAmount: decimal.Zero, Total: decimal.Zero}
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.Total)
		t.TotalDiscount = t.TotalDiscount.Add(l.DiscountAmount)
		if mode == TaxModePerLine {
			t.TaxAmount = t.TaxAmount.Add(l.Total.Mul(l.TaxRate))
		}
	}
	if mode == TaxModeFlat {
		t.TaxAmount = t.Subtotal.Mul(documentTaxRate)
	}
	t.Total = t.Subtotal.Add(t.TaxAmount)
	return t
}

// ParseAmount converts a user-formatted amount string into a decimal, failing
// soft: anything unparseable yields zero so a bad keystroke never breaks a
// draft. Accepts German comma decimals ("1.234,56"), plain dots, and strings
// with a currency token ("€ 20", "EUR 20").
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	// German format uses '.' as thousands separator and ',' as decimal mark.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	var b strings.Builder
	b.Grow(len(s) + 1)
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return decimal.Zero
	}
	if neg {
		clean = "-" + clean
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}
