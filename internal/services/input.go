package services

import (
	"strconv"
	"time"

	"github.com/kontor-app/kontor/internal/models"
	"github.com/kontor-app/kontor/internal/pricing"
	"github.com/kontor-app/kontor/internal/validation"

	"github.com/shopspring/decimal"
)

// ItemInput is one line of a document draft as submitted by the client.
// Numeric fields arrive as JSON numbers or strings; decimal.Decimal accepts
// both. A missing tax_rate falls back to the document default.
type ItemInput struct {
	Description   string           `json:"description" validate:"required"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	Unit          string           `json:"unit"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
}

// DocumentInput is the shared submit body of offer and invoice forms.
type DocumentInput struct {
	CustomerID      uint        `json:"customer_id" validate:"required"`
	IssueDate       string      `json:"issue_date"`
	ValidUntil      string      `json:"valid_until"` // offers only
	DueDate         string      `json:"due_date"`    // invoices only
	Notes           string      `json:"notes"`
	TermsConditions string      `json:"terms_conditions"`
	LayoutID        uint        `json:"layout_id"`
	Items           []ItemInput `json:"items" validate:"required,min=1"`
}

const dateLayout = "2006-01-02"

// validateInput performs the structural checks plus the decimal checks the
// validator tags cannot express. Returned paths follow the items.N.field form.
func validateInput(in DocumentInput) validation.Violations {
	v := validation.Struct(in)
	for i, it := range in.Items {
		iv := validation.Violations{}
		if !it.Quantity.IsPositive() {
			iv.Add("quantity", "must_be_positive")
		}
		if it.UnitPrice.IsNegative() {
			iv.Add("unit_price", "must_be_positive")
		}
		if it.Unit != "" && !pricing.ValidUnit(it.Unit) {
			iv.Add("unit", "invalid_unit")
		}
		if it.TaxRate != nil && !pricing.ValidTaxRate(*it.TaxRate) {
			iv.Add("tax_rate", "invalid_tax_rate")
		}
		switch pricing.DiscountType(it.DiscountType) {
		case pricing.DiscountNone:
		case pricing.DiscountPercentage, pricing.DiscountFixed:
			if it.DiscountValue.IsNegative() {
				iv.Add("discount_value", "invalid_discount")
			}
		default:
			iv.Add("discount_type", "invalid_discount")
		}
		v.Merge("items."+strconv.Itoa(i), iv)
	}
	if in.IssueDate != "" {
		if _, err := time.Parse(dateLayout, in.IssueDate); err != nil {
			v.Add("issue_date", "invalid_date")
		}
	}
	if in.ValidUntil != "" {
		if _, err := time.Parse(dateLayout, in.ValidUntil); err != nil {
			v.Add("valid_until", "invalid_date")
		}
	}
	if in.DueDate != "" {
		if _, err := time.Parse(dateLayout, in.DueDate); err != nil {
			v.Add("due_date", "invalid_date")
		}
	}
	return v
}

func parseDate(s string, def time.Time) time.Time {
	if s == "" {
		return def
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return def
	}
	return t
}

// computeLines runs every submitted item through the pricing core, filling in
// the document default tax rate where a line has none.
func computeLines(items []ItemInput, defaultRate decimal.Decimal) []pricing.LineResult {
	lines := make([]pricing.LineResult, 0, len(items))
	for _, it := range items {
		rate := defaultRate
		if it.TaxRate != nil {
			rate = *it.TaxRate
		}
		lines = append(lines, pricing.ComputeLine(pricing.LineInput{
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			DiscountType:  pricing.DiscountType(it.DiscountType),
			DiscountValue: it.DiscountValue,
			TaxRate:       rate,
		}))
	}
	return lines
}

func unitOrDefault(u string) string {
	if u == "" {
		return "piece"
	}
	return u
}

// documentTotals aggregates computed lines under the document's tax mode.
func documentTotals(lines []pricing.LineResult, taxMode string, docRate decimal.Decimal) pricing.Totals {
	mode := pricing.TaxModePerLine
	if taxMode == models.TaxFlat {
		mode = pricing.TaxModeFlat
	}
	return pricing.ComputeTotals(lines, mode, docRate)
}
