package sales

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	TrendSheet = "Trend"
	MenuSheet  = "Menus"
)

// WriteXLSX writes the report as a workbook with one sheet for the trend
// series and one for the menu breakdown.
func WriteXLSX(w io.Writer, report *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	// 1. The default sheet becomes the trend sheet
	if err := f.SetSheetName("Sheet1", TrendSheet); err != nil {
		return errors.Wrap(err, "rename trend sheet")
	}
	rows := [][]interface{}{{"Period", "Total"}}
	for _, p := range report.Series {
		rows = append(rows, []interface{}{p.Period, p.TotalAmount})
	}
	rows = append(rows, []interface{}{"Total", report.SeriesTotal})
	if err := writeRows(f, TrendSheet, rows); err != nil {
		return err
	}

	// 2. Menu breakdown of the breakdown range
	if _, err := f.NewSheet(MenuSheet); err != nil {
		return errors.Wrap(err, "create menu sheet")
	}
	rows = [][]interface{}{{"Menu", "Quantity", "Total"}}
	for _, m := range report.Menus {
		rows = append(rows, []interface{}{m.MenuName, m.TotalQuantity, m.TotalAmount})
	}
	if err := writeRows(f, MenuSheet, rows); err != nil {
		return err
	}

	return errors.Wrap(f.Write(w), "write workbook")
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write %s row %d", sheet, i+1)
		}
	}
	return nil
}
