package contents

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"
)

// PDF rendition geometry, A3 portrait like the drawing title pages.
const (
	pdfRowHeight = 8.0  // one grid row in mm
	pdfTopY      = 12.0 // y of grid row 1
	pdfNumberW   = 15.0
	pdfTitleW    = 110.0
	pdfLeftX     = 15.0  // x of grid column 1
	pdfShiftX    = 160.0 // x of grid column 4 (the shifted region)
	pdfHeadingPt = 14.0
	pdfEntryPt   = 12.0
)

// WritePDF renders the index as a printable PDF at path, using the same
// pagination grid as the xlsx rendition. With no Options.FontPath the
// built-in core font is used and text is reduced to cp1252.
func WritePDF(path string, entries []Entry, opts Options) error {
	pdf := fpdf.New("P", "mm", "A3", "")

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		family = "index"
		pdf.AddUTF8Font(family, "", opts.FontPath)
		pdf.AddUTF8Font(family, "B", opts.FontPath)
		tr = func(s string) string { return s }
	}
	pdf.AddPage()

	x := func(col int) float64 {
		switch col {
		case 1:
			return pdfLeftX
		case 2:
			return pdfLeftX + pdfNumberW
		case 4:
			return pdfShiftX
		default:
			return pdfShiftX + pdfNumberW
		}
	}
	y := func(row int) float64 {
		return pdfTopY + float64(row-1)*pdfRowHeight
	}
	heading := func(row, col int, text string) {
		pdf.SetFont(family, "B", pdfHeadingPt)
		pdf.SetXY(x(col), y(row))
		pdf.CellFormat(pdfNumberW+pdfTitleW, pdfRowHeight, tr(text), "", 0, "C", false, 0, "")
	}

	heading(2, 1, opts.DrawingsTitle)

	grid := newLayout()
	pdf.SetFont(family, "", pdfEntryPt)
	for _, e := range entries {
		row, col := grid.next()
		pdf.SetXY(x(col), y(row))
		pdf.CellFormat(pdfNumberW, pdfRowHeight, tr(e.Number), "", 0, "C", false, 0, "")
		pdf.CellFormat(pdfTitleW, pdfRowHeight, tr(cleanTitle(e.Title)), "", 0, "L", false, 0, "")
	}

	if len(opts.SpecsNames) > 0 {
		row, col := grid.specsStart()
		heading(row, col, opts.SpecsTitle)
		pdf.SetFont(family, "", pdfEntryPt)
		for _, name := range opts.SpecsNames {
			row, col := grid.specsNext()
			pdf.SetXY(x(col), y(row))
			pdf.CellFormat(pdfTitleW, pdfRowHeight, tr(name), "", 0, "L", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
