package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/tcia-tools/apollo-report/helpers"
	"github.com/tcia-tools/apollo-report/table"
)

// ============================================================================
// EXPORT — CSV (canonical) and XLSX (delivery convenience)
// ============================================================================

// ExportCSV writes the report as UTF-8 CSV with a header row.
func ExportCSV(tbl *table.Table, dir, filename string) error {
	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := helpers.WriteCSV(tbl, f); err != nil {
		return fmt.Errorf("failed to write report CSV: %w", err)
	}
	return nil
}

const xlsxSheet = "APOLLO-5 Report"

// ExportXLSX writes the report as a styled workbook: bold filled header row,
// frozen top pane, one sheet.
func ExportXLSX(tbl *table.Table, dir, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range tbl.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(xlsxSheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for r, row := range tbl.Rows {
		for c, v := range row {
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			var payload any
			if v.Kind() == table.KindNumber {
				payload = v.Number()
			} else {
				payload = v.Render()
			}
			if err := f.SetCellValue(xlsxSheet, cell, payload); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze: true,
		YSplit: 1,
	}); err != nil {
		return fmt.Errorf("failed to freeze header pane: %w", err)
	}

	if err := f.SaveAs(filepath.Join(dir, filename)); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
