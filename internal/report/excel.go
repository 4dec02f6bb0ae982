// Package report renders batch results into the artifacts the presentation
// layer hands out: an .xlsx comparison workbook, a PNG efficiency curve, and
// an interactive HTML chart. The computations themselves live in the engine
// and sweep packages; this package only formats.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/banshee-data/efficiency.report/internal/sweep"
)

const (
	resultsSheet = "Results"
	configSheet  = "Configuration"
)

// WriteWorkbook writes the comparison table as a two-sheet workbook: the
// per-level results and the configuration summary block.
func WriteWorkbook(table *sweep.ComparisonTable, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("failed to name results sheet: %w", err)
	}

	for col, h := range table.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(resultsSheet, cell, h); err != nil {
			return err
		}
	}
	for rowIdx, row := range table.Rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(resultsSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet(configSheet); err != nil {
		return fmt.Errorf("failed to create configuration sheet: %w", err)
	}
	if err := f.SetCellValue(configSheet, "A1", "Parameter"); err != nil {
		return err
	}
	if err := f.SetCellValue(configSheet, "B1", "Value"); err != nil {
		return err
	}
	for i, kv := range table.Summary {
		if err := f.SetCellValue(configSheet, fmt.Sprintf("A%d", i+2), kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(configSheet, fmt.Sprintf("B%d", i+2), kv[1]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
