package export

import (
	"io"
	"strconv"

	"github.com/kontor-app/kontor/internal/models"

	"github.com/xuri/excelize/v2"
)

// OffersXLSX writes the offer list as an Excel workbook.
func OffersXLSX(w io.Writer, offers []models.Offer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Angebote"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for col, h := range offerHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for row, o := range offers {
		values := offerRow(o)
		// amounts as numbers so the sheet can sum them
		numeric := map[int]bool{5: true, 6: true, 7: true, 8: true}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if numeric[col] {
				fl, _ := strconv.ParseFloat(v, 64)
				err = f.SetCellValue(sheet, cell, fl)
			} else {
				err = f.SetCellValue(sheet, cell, v)
			}
			if err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
