package titleblock

import (
	"math"
	"regexp"
	"strconv"

	"github.com/aledin/enumsheets/pkg/dxf"
)

// reduceRule picks a single index out of the candidates a field pattern
// matched. Candidates are always in ascending order.
type reduceRule func([]int) int

func minIndex(xs []int) int   { return xs[0] }
func maxIndex(xs []int) int   { return xs[len(xs)-1] }
func firstIndex(xs []int) int { return xs[0] }

// fieldRules fixes the reduction rule per field. Number and address sit in
// the lower-left of the block layout and win ties as the earliest element;
// sheets and title as the latest.
var fieldRules = []struct {
	field  Field
	reduce reduceRule
}{
	{FieldNumber, minIndex},
	{FieldSheets, maxIndex},
	{FieldDate, firstIndex},
	{FieldScale, firstIndex},
	{FieldTitle, maxIndex},
	{FieldAddress, minIndex},
}

// Sheet pairs a recognized drawing with its resolved title-block bindings.
type Sheet struct {
	doc   *dxf.Document
	texts []*dxf.MText
	idx   map[Field]int
}

// NewSheet resolves field bindings for a located title block.
func NewSheet(doc *dxf.Document, texts []*dxf.MText, pats Patterns) *Sheet {
	s := &Sheet{
		doc:   doc,
		texts: texts,
		idx:   make(map[Field]int, len(Fields)),
	}
	for _, r := range fieldRules {
		s.idx[r.field] = -1
		re := pats.lookup(r.field)
		if re == nil {
			continue
		}
		if matches := s.matchingIndexes(re); len(matches) > 0 {
			s.idx[r.field] = r.reduce(matches)
		}
	}
	return s
}

// matchingIndexes returns the indexes of all text elements whose content
// matches re (unanchored search).
func (s *Sheet) matchingIndexes(re *regexp.Regexp) []int {
	var idxs []int
	for i, t := range s.texts {
		if re.MatchString(t.Text()) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// Get reads a bound field's text. Unbound fields read as empty.
func (s *Sheet) Get(f Field) string {
	i, ok := s.idx[f]
	if !ok || i < 0 {
		return ""
	}
	return s.texts[i].Text()
}

// Set writes a bound field's text. Writes to unbound fields are no-ops.
func (s *Sheet) Set(f Field, value string) {
	i, ok := s.idx[f]
	if !ok || i < 0 {
		return
	}
	s.texts[i].SetText(value)
}

// Doc returns the underlying drawing.
func (s *Sheet) Doc() *dxf.Document {
	return s.doc
}

// Path returns the source file path of the drawing.
func (s *Sheet) Path() string {
	return s.doc.Path()
}

// ApplyNumbers writes the sheet number and total into the title block.
//
// Number and sheets fields share the same value shape, so their bindings are
// only a guess. When the values already present say the guess was wrong (the
// supposed sheet number exceeds the supposed total) the two bindings are
// swapped first. This self-corrects edited blocks but is not guaranteed for
// every layout.
func (s *Sheet) ApplyNumbers(num, total int) {
	oldNumber := atoiOrZero(s.Get(FieldNumber))
	oldSheets := atoiOrZero(s.Get(FieldSheets))
	if oldNumber > oldSheets {
		s.idx[FieldNumber], s.idx[FieldSheets] = s.idx[FieldSheets], s.idx[FieldNumber]
	}
	s.Set(FieldNumber, strconv.Itoa(num))
	s.Set(FieldSheets, strconv.Itoa(total))
}

// DrawingScale derives scale text from the drawing's $PSVPSCALE header:
// 2.0 reads "2:1", 0.5 reads "1:2", 1.0 reads "1:1".
func (s *Sheet) DrawingScale() string {
	ratio := s.doc.HeaderFloat("$PSVPSCALE", 1.0)
	if ratio <= 0 {
		ratio = 1.0
	}
	switch {
	case ratio > 1.0:
		return strconv.Itoa(int(math.Round(ratio))) + ":1"
	case ratio < 1.0:
		return "1:" + strconv.Itoa(int(math.Round(1/ratio)))
	}
	return "1:1"
}

// Non-numeric values (template placeholders like "X") count as zero.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
