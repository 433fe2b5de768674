package contents

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// indexFont matches the font the drawing title pages are set in.
const indexFont = "Liberation Sans"

// WriteExcel renders the index as an xlsx workbook at path.
func WriteExcel(path string, entries []Entry, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	ws := opts.WorksheetTitle
	if err := f.SetSheetName("Sheet1", ws); err != nil {
		return fmt.Errorf("naming worksheet: %w", err)
	}

	headingStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: indexFont, Size: 14, Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	numberStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: indexFont, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	textStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Family: indexFont, Size: 12},
	})
	if err != nil {
		return err
	}

	setCell := func(row, col int, value string, style int) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ws, cell, value); err != nil {
			return err
		}
		return f.SetCellStyle(ws, cell, cell, style)
	}
	merge := func(row, col, width int) error {
		from, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		to, err := excelize.CoordinatesToCellName(col+width-1, row)
		if err != nil {
			return err
		}
		return f.MergeCell(ws, from, to)
	}

	if err := setCell(2, 1, opts.DrawingsTitle, headingStyle); err != nil {
		return err
	}
	if err := merge(2, 1, 2); err != nil {
		return err
	}

	grid := newLayout()
	for _, e := range entries {
		row, col := grid.next()
		if err := setCell(row, col, e.Number, numberStyle); err != nil {
			return err
		}
		if err := setCell(row, col+1, cleanTitle(e.Title), textStyle); err != nil {
			return err
		}
	}

	if len(opts.SpecsNames) > 0 {
		row, col := grid.specsStart()
		if err := setCell(row, col, opts.SpecsTitle, headingStyle); err != nil {
			return err
		}
		if err := merge(row, col, 2); err != nil {
			return err
		}
		for _, name := range opts.SpecsNames {
			row, col := grid.specsNext()
			if err := setCell(row, col, name, textStyle); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
