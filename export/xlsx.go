package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/harborview/eventscrape"
)

// WriteXLSX writes events to a spreadsheet, one row per event in the fixed
// column order, under a header row. Absent fields become empty cells.
func WriteXLSX(events []eventscrape.Event, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for col, name := range eventscrape.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, ev := range events {
		for col, val := range ev.Row() {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}

	return nil
}
