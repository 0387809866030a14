package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the rows
const SheetName = "Saldos"

const currencyFormat = `"R$" #,##0.00`

// WriteXLSX writes rows as a spreadsheet with a bold header and a currency
// formatted amount column
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	format := currencyFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return fmt.Errorf("failed to create currency style: %w", err)
	}

	for col, name := range Columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, r := range rows {
		values := []any{
			r.Filename,
			r.Municipality,
			r.CNPJ,
			r.Case,
			r.Classification,
			r.Balance,
			r.Amount.InexactFloat64(),
			r.MethodLabel(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if len(rows) > 0 {
		top, _ := excelize.CoordinatesToCellName(7, 2)
		bottom, _ := excelize.CoordinatesToCellName(7, len(rows)+1)
		if err := f.SetCellStyle(SheetName, top, bottom, moneyStyle); err != nil {
			return err
		}

		ref, _ := excelize.CoordinatesToCellName(len(Columns), len(rows)+1)
		if err := f.AutoFilter(SheetName, "A1:"+ref, nil); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "H", 20); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}
