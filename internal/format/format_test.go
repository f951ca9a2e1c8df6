package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMoneyGermanLocale(t *testing.T) {
	cases := []struct {
		amount   string
		currency string
		want     string
	}{
		{"0", "EUR", "0,00 €"},
		{"1234.56", "EUR", "1.234,56 €"},
		{"-99.9", "EUR", "-99,90 €"},
		{"1000000", "USD", "1.000.000,00 $"},
		{"12.5", "SEK", "12,50 SEK"},
	}
	for _, c := range cases {
		got := Money(decimal.RequireFromString(c.amount), c.currency)
		if got != c.want {
			t.Fatalf("Money(%s, %s): expected %q got %q", c.amount, c.currency, c.want, got)
		}
	}
}

func TestMoneyStringFailSoft(t *testing.T) {
	if got := MoneyString("garbage", "EUR"); got != "0,00 €" {
		t.Fatalf("expected zero-equivalent for garbage input, got %q", got)
	}
	if got := MoneyString("19.99", "EUR"); got != "19,99 €" {
		t.Fatalf("expected 19,99 € got %q", got)
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	if got := Date(d); got != "28.08.2026" {
		t.Fatalf("expected 28.08.2026 got %q", got)
	}
	if got := Date(time.Time{}); got != "" {
		t.Fatalf("zero time should format empty, got %q", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(decimal.RequireFromString("0.19")); got != "19 %" {
		t.Fatalf("expected 19 %% got %q", got)
	}
	if got := Percent(decimal.Zero); got != "0 %" {
		t.Fatalf("expected 0 %% got %q", got)
	}
}
