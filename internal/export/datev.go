package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/kontor-app/kontor/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// Encoding of the produced DATEV file. Classic DATEV tooling expects Latin-1;
// newer consumers accept UTF-8 with BOM.
type Encoding string

const (
	EncodingLatin1  Encoding = "latin1"
	EncodingUTF8BOM Encoding = "utf8"
)

// SKR03 revenue accounts per German VAT rate; receivables go against the
// collective debtor account.
var revenueAccounts = map[string]string{
	"0.19": "8400",
	"0.07": "8300",
	"0":    "8100",
}

const debtorAccount = "10000"

// DATEVBatch writes a Buchungsstapel covering all non-draft invoices issued in
// [from, to]. One booking row is produced per invoice and tax rate, on gross
// amounts, Belegfeld 1 carrying the invoice number.
func DATEVBatch(w io.Writer, invoices []models.Invoice, from, to time.Time, enc Encoding) error {
	switch enc {
	case EncodingLatin1:
		w = charmap.ISO8859_1.NewEncoder().Writer(w)
	default:
		if _, err := w.Write(utf8BOM); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := []string{
		"EXTF", "510", "21", "Buchungsstapel", "7",
		time.Now().Format("20060102150405"),
		from.Format("20060102"), to.Format("20060102"),
		"Kontor", "EUR",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	columns := []string{"Umsatz (ohne Soll/Haben-Kz)", "Soll/Haben-Kennzeichen", "Konto", "Gegenkonto (ohne BU-Schlüssel)", "Belegdatum", "Belegfeld 1", "Buchungstext"}
	if err := cw.Write(columns); err != nil {
		return err
	}

	for _, inv := range invoices {
		byRate := grossByRate(inv)
		rates := make([]string, 0, len(byRate))
		for rate := range byRate {
			rates = append(rates, rate)
		}
		sort.Strings(rates)
		for _, rate := range rates {
			gross := byRate[rate]
			account, ok := revenueAccounts[rate]
			if !ok {
				account = revenueAccounts["0.19"]
			}
			row := []string{
				germanAmount(gross),
				"S",
				debtorAccount,
				account,
				inv.IssueDate.Format("0201"), // DDMM
				inv.Number,
				inv.Customer.Name,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// grossByRate sums each invoice's line totals plus tax, grouped by tax rate.
func grossByRate(inv models.Invoice) map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{}
	for _, it := range inv.Items {
		gross := it.Total.Add(it.Total.Mul(it.TaxRate))
		key := it.TaxRate.String()
		out[key] = out[key].Add(gross)
	}
	return out
}

// germanAmount renders a decimal with a comma mark, as DATEV expects.
func germanAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// DATEVFilename names the download, e.g. EXTF_Buchungsstapel_202608.csv.
func DATEVFilename(from time.Time) string {
	return fmt.Sprintf("EXTF_Buchungsstapel_%s.csv", from.Format("200601"))
}
