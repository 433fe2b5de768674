// Package titleblock recognizes drawing title blocks and binds their fields.
//
// A title block is a block definition containing an MTEXT with a known marker
// substring. Once located, each of the six expected fields (sheet number,
// number of sheets, date, scale, title, address) is bound to at most one of
// the block's MTEXT entities by matching configured patterns, with a fixed
// reduction rule deciding ties. Binding is heuristic: freshly inserted
// template blocks carry placeholder markers, edited blocks carry real values,
// and both must resolve.
package titleblock

import (
	"regexp"
	"strings"

	"github.com/aledin/enumsheets/pkg/dxf"
)

// Field names one of the six title-block slots.
type Field string

const (
	FieldNumber  Field = "number"
	FieldSheets  Field = "sheets"
	FieldDate    Field = "date"
	FieldScale   Field = "scale"
	FieldTitle   Field = "title"
	FieldAddress Field = "address"
)

// Fields lists all title-block fields in canonical order.
var Fields = []Field{
	FieldNumber, FieldSheets, FieldDate, FieldScale, FieldTitle, FieldAddress,
}

// Patterns holds one compiled expression per title-block field.
type Patterns struct {
	Number  *regexp.Regexp
	Sheets  *regexp.Regexp
	Date    *regexp.Regexp
	Scale   *regexp.Regexp
	Title   *regexp.Regexp
	Address *regexp.Regexp
}

func (p Patterns) lookup(f Field) *regexp.Regexp {
	switch f {
	case FieldNumber:
		return p.Number
	case FieldSheets:
		return p.Sheets
	case FieldDate:
		return p.Date
	case FieldScale:
		return p.Scale
	case FieldTitle:
		return p.Title
	case FieldAddress:
		return p.Address
	}
	return nil
}

// Locate scans the drawing's block definitions for an MTEXT containing
// marker. On a hit it returns all MTEXT entities of the containing block,
// which together form the title block's text elements. Returns nil when no
// block carries the marker.
func Locate(doc *dxf.Document, marker string) []*dxf.MText {
	for _, b := range doc.Blocks() {
		texts := b.MTexts()
		for _, t := range texts {
			if strings.Contains(t.Text(), marker) {
				return texts
			}
		}
	}
	return nil
}
