// Package contents renders the drawing-set index: sheet numbers paired with
// sheet titles, laid out in two columns of a fixed A3 title-page grid.
//
// The primary rendition is an xlsx worksheet; an optional PDF rendition of
// the same layout can be produced for direct printing.
package contents

import "strings"

// Entry is one row of the sheet index.
type Entry struct {
	Number string
	Title  string
}

// Options name the headings of the index regions.
type Options struct {
	// WorksheetTitle is the worksheet tab name (xlsx only).
	WorksheetTitle string
	// DrawingsTitle heads the sheet list.
	DrawingsTitle string
	// SpecsTitle heads the optional named-item list.
	SpecsTitle string
	// SpecsNames is the optional named-item list; empty omits the region.
	SpecsNames []string
	// FontPath points at a TTF for full Unicode output (PDF only).
	FontPath string
}

// maxRowsPerColumn is how many grid rows fit one printed column region of
// the target page. Overflow shifts the layout three columns right rather
// than starting a new page; sets too large for two column regions are a
// known limitation.
const maxRowsPerColumn = 47

// entriesStartRow is the first grid row of the sheet list; the heading sits
// at row 2 with a blank row below it.
const entriesStartRow = 4

// cleanTitle flattens MTEXT line breaks for tabular display.
func cleanTitle(s string) string {
	return strings.ReplaceAll(s, `\P`, " ")
}

// layout walks the fixed pagination grid, yielding (row, col) positions
// 1-based within the page. Shared by both renditions so they paginate
// identically.
type layout struct {
	rowIdx    int
	rowOffset int
	colOffset int
}

func newLayout() *layout {
	return &layout{rowIdx: entriesStartRow}
}

// next returns the grid position for the upcoming entry and advances.
func (l *layout) next() (row, col int) {
	if l.rowIdx > maxRowsPerColumn {
		l.colOffset = 3
		l.rowOffset = maxRowsPerColumn - (entriesStartRow - 1)
	}
	row, col = l.rowIdx-l.rowOffset, 1+l.colOffset
	l.rowIdx++
	return row, col
}

// specsStart positions the named-item region heading: in the shifted column
// region, at the top when the sheet list never spilled over, otherwise two
// rows below its end. Leaves one blank row between heading and items.
func (l *layout) specsStart() (row, col int) {
	l.colOffset = 3
	if l.rowIdx <= maxRowsPerColumn {
		l.rowIdx = 2
		l.rowOffset = 0
	} else {
		l.rowIdx += 2
	}
	row, col = l.rowIdx-l.rowOffset, 1+l.colOffset
	l.rowIdx += 2
	return row, col
}

// specsNext returns the grid position for the next named item and advances.
func (l *layout) specsNext() (row, col int) {
	row, col = l.rowIdx-l.rowOffset, 2+l.colOffset
	l.rowIdx++
	return row, col
}
