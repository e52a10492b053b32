package export

import (
	"fmt"

	"smart-hr/internal/domain/application"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Applications"

// XLSX renders the same rows as CSV into a single-sheet workbook. The score
// column holds numbers so it can be sorted in a spreadsheet.
func XLSX(apps []application.Application, lang string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if index, _ := f.GetSheetIndex(sheetName); index == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range Header(lang) {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	row := 2
	for _, a := range visible(apps) {
		fields := Row(a, lang)
		for col, v := range fields {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			var value any = v
			if col == 2 {
				value = a.Score()
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("set %s: %w", cell, err)
			}
		}
		row++
	}

	_ = f.SetColWidth(sheetName, "A", "A", 28)
	_ = f.SetColWidth(sheetName, "B", "B", 24)
	_ = f.SetColWidth(sheetName, "C", "C", 8)
	_ = f.SetColWidth(sheetName, "D", "E", 14)
	_ = f.SetColWidth(sheetName, "F", "G", 26)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
