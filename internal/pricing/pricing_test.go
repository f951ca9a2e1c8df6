package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeLineBaseAmount(t *testing.T) {
	cases := []struct{ qty, price, base string }{
		{"0", "0", "0"},
		{"1", "50", "50"},
		{"2.5", "19.99", "49.975"},
		{"3", "0", "0"},
		{"0.001", "1000", "1"},
	}
	for _, c := range cases {
		res := ComputeLine(LineInput{Quantity: dec(c.qty), UnitPrice: dec(c.price)})
		if !res.Base.Equal(dec(c.base)) {
			t.Fatalf("base for %s x %s: expected %s got %s", c.qty, c.price, c.base, res.Base)
		}
		if !res.Total.Equal(res.Base) {
			t.Fatalf("no discount: total %s should equal base %s", res.Total, res.Base)
		}
		if !res.DiscountAmount.IsZero() {
			t.Fatalf("no discount: expected zero discount got %s", res.DiscountAmount)
		}
	}
}

func TestComputeLinePercentageDiscount(t *testing.T) {
	res := ComputeLine(LineInput{Quantity: dec("2"), UnitPrice: dec("50"), DiscountType: DiscountPercentage, DiscountValue: dec("10")})
	if !res.Base.Equal(dec("100")) {
		t.Fatalf("expected base 100 got %s", res.Base)
	}
	if !res.DiscountAmount.Equal(dec("10")) {
		t.Fatalf("expected discount 10 got %s", res.DiscountAmount)
	}
	if !res.Total.Equal(dec("90")) {
		t.Fatalf("expected total 90 got %s", res.Total)
	}
}

func TestComputeLinePercentageClamped(t *testing.T) {
	// values above 100% may not drive the total negative
	res := ComputeLine(LineInput{Quantity: dec("1"), UnitPrice: dec("80"), DiscountType: DiscountPercentage, DiscountValue: dec("150")})
	if !res.DiscountAmount.Equal(dec("80")) {
		t.Fatalf("expected clamped discount 80 got %s", res.DiscountAmount)
	}
	if !res.Total.IsZero() {
		t.Fatalf("expected total 0 got %s", res.Total)
	}
	// negative percentages are treated as no discount
	res = ComputeLine(LineInput{Quantity: dec("1"), UnitPrice: dec("80"), DiscountType: DiscountPercentage, DiscountValue: dec("-5")})
	if !res.Total.Equal(dec("80")) {
		t.Fatalf("expected total 80 got %s", res.Total)
	}
}

func TestComputeLineFixedDiscountClamp(t *testing.T) {
	res := ComputeLine(LineInput{Quantity: dec("1"), UnitPrice: dec("50"), DiscountType: DiscountFixed, DiscountValue: dec("999")})
	if !res.DiscountAmount.Equal(dec("50")) {
		t.Fatalf("expected discount capped at 50 got %s", res.DiscountAmount)
	}
	if !res.Total.IsZero() {
		t.Fatalf("total must never go negative, got %s", res.Total)
	}
}

func TestComputeLineNoDiscountIdentity(t *testing.T) {
	inputs := []LineInput{
		{Quantity: dec("4"), UnitPrice: dec("12.34")},
		{Quantity: dec("0"), UnitPrice: dec("99")},
		{Quantity: dec("7.7"), UnitPrice: dec("0.07"), DiscountType: DiscountNone},
	}
	for _, in := range inputs {
		res := ComputeLine(in)
		if !res.Total.Equal(res.Base) {
			t.Fatalf("identity violated: base %s total %s", res.Base, res.Total)
		}
	}
}

func sampleLines() []LineResult {
	return []LineResult{
		ComputeLine(LineInput{Quantity: dec("2"), UnitPrice: dec("50"), DiscountType: DiscountPercentage, DiscountValue: dec("10"), TaxRate: TaxRateStandard}),
		ComputeLine(LineInput{Quantity: dec("1"), UnitPrice: dec("200"), DiscountType: DiscountFixed, DiscountValue: dec("20"), TaxRate: TaxRateReduced}),
		ComputeLine(LineInput{Quantity: dec("3"), UnitPrice: dec("9.99"), TaxRate: TaxRateZero}),
	}
}

func TestComputeTotalsAdditivity(t *testing.T) {
	lines := sampleLines()
	totals := ComputeTotals(lines, TaxModePerLine, decimal.Zero)

	var wantSub, wantDisc decimal.Decimal
	for _, l := range lines {
		wantSub = wantSub.Add(l.Total)
		wantDisc = wantDisc.Add(l.DiscountAmount)
	}
	if !totals.Subtotal.Equal(wantSub) {
		t.Fatalf("subtotal %s != sum of line totals %s", totals.Subtotal, wantSub)
	}
	if !totals.TotalDiscount.Equal(wantDisc) {
		t.Fatalf("discount %s != sum of line discounts %s", totals.TotalDiscount, wantDisc)
	}

	// order independence
	reversed := []LineResult{lines[2], lines[1], lines[0]}
	again := ComputeTotals(reversed, TaxModePerLine, decimal.Zero)
	if !again.Subtotal.Equal(totals.Subtotal) || !again.Total.Equal(totals.Total) {
		t.Fatalf("totals depend on line order: %+v vs %+v", totals, again)
	}
}

func TestComputeTotalsFlatEqualsPerLineWhenUniform(t *testing.T) {
	lines := []LineResult{
		ComputeLine(LineInput{Quantity: dec("2"), UnitPrice: dec("50"), TaxRate: TaxRateStandard}),
		ComputeLine(LineInput{Quantity: dec("5"), UnitPrice: dec("13.13"), TaxRate: TaxRateStandard}),
		ComputeLine(LineInput{Quantity: dec("1"), UnitPrice: dec("0.01"), TaxRate: TaxRateStandard}),
	}
	flat := ComputeTotals(lines, TaxModeFlat, TaxRateStandard)
	perLine := ComputeTotals(lines, TaxModePerLine, decimal.Zero)
	if !flat.TaxAmount.Equal(perLine.TaxAmount) {
		t.Fatalf("uniform rate: flat tax %s != per-line tax %s", flat.TaxAmount, perLine.TaxAmount)
	}
	if !flat.Total.Equal(perLine.Total) {
		t.Fatalf("uniform rate: flat total %s != per-line total %s", flat.Total, perLine.Total)
	}
}

func TestComputeTotalsEmptyDocument(t *testing.T) {
	totals := ComputeTotals(nil, TaxModeFlat, TaxRateStandard)
	if !totals.Subtotal.IsZero() || !totals.TotalDiscount.IsZero() || !totals.TaxAmount.IsZero() || !totals.Total.IsZero() {
		t.Fatalf("empty document must yield zero totals, got %+v", totals)
	}
}

func TestComputeTotalsIdempotent(t *testing.T) {
	lines := sampleLines()
	a := ComputeTotals(lines, TaxModePerLine, decimal.Zero)
	b := ComputeTotals(lines, TaxModePerLine, decimal.Zero)
	if !a.Subtotal.Equal(b.Subtotal) || !a.TotalDiscount.Equal(b.TotalDiscount) || !a.TaxAmount.Equal(b.TaxAmount) || !a.Total.Equal(b.Total) {
		t.Fatalf("recompute on unchanged lines differs: %+v vs %+v", a, b)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "0"},
		{"abc", "0"},
		{"12.5", "12.5"},
		{"1.234,56", "1234.56"},
		{"1234,5", "1234.5"},
		{"€ 20", "20"},
		{"EUR 19,99", "19.99"},
		{"-3,50", "-3.5"},
		{"  42  ", "42"},
	}
	for _, c := range cases {
		got := ParseAmount(c.in)
		if !got.Equal(dec(c.want)) {
			t.Fatalf("ParseAmount(%q): expected %s got %s", c.in, c.want, got)
		}
	}
}

func TestValidUnitAndTaxRate(t *testing.T) {
	for _, u := range []string{"piece", "hour", "m²", "package"} {
		if !ValidUnit(u) {
			t.Fatalf("expected %q to be a valid unit", u)
		}
	}
	if ValidUnit("dozen") {
		t.Fatalf("unexpected unit accepted")
	}
	if !ValidTaxRate(dec("0.19")) || !ValidTaxRate(dec("0.07")) || !ValidTaxRate(dec("0")) {
		t.Fatalf("standard rates must validate")
	}
	if ValidTaxRate(dec("0.2")) {
		t.Fatalf("0.2 is not a German standard rate")
	}
}
