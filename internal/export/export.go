// Package export produces the download files the document lists offer:
// semicolon-delimited CSV, XLSX workbooks, and DATEV booking batches.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/kontor-app/kontor/internal/format"
	"github.com/kontor-app/kontor/internal/models"
)

// utf8BOM is prepended to UTF-8 CSV files so spreadsheet software on Windows
// detects the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var offerHeader = []string{"Nummer", "Status", "Kunde", "Datum", "Gültig bis", "Netto", "Rabatt", "Steuer", "Brutto", "Währung"}

func offerRow(o models.Offer) []string {
	return []string{
		o.Number,
		o.Status,
		o.Customer.Name,
		format.Date(o.IssueDate),
		format.Date(o.ValidUntil),
		o.Subtotal.StringFixed(2),
		o.TotalDiscount.StringFixed(2),
		o.TaxAmount.StringFixed(2),
		o.Total.StringFixed(2),
		o.Currency,
	}
}

// OffersCSV writes the offer list as semicolon-delimited, UTF-8-with-BOM CSV.
func OffersCSV(w io.Writer, offers []models.Offer) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(offerHeader); err != nil {
		return err
	}
	for _, o := range offers {
		if err := cw.Write(offerRow(o)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// OffersFilename names the download, e.g. angebote-2026-08-28.csv.
func OffersFilename(ext string, date string) string {
	return fmt.Sprintf("angebote-%s.%s", date, ext)
}
