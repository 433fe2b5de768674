package titleblock

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledin/enumsheets/pkg/dxf"
)

const marker = "artidea.gallery"

// testPatterns mirrors the shipped defaults.
func testPatterns() Patterns {
	return Patterns{
		Number:  regexp.MustCompile(`^(X|\d{1,3})$`),
		Sheets:  regexp.MustCompile(`^(XX|\d{1,3})$`),
		Date:    regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})$`),
		Scale:   regexp.MustCompile(`^(\d+:\d+)$`),
		Title:   regexp.MustCompile(`((^TitleField$)|(^(План|Разв)))`),
		Address: regexp.MustCompile(`((^AddressField$)|(^г))`),
	}
}

// drawing builds a DXF document whose single block carries the marker MTEXT
// followed by one MTEXT per given text.
func drawing(t *testing.T, headerVars [][2]string, texts ...string) *dxf.Document {
	t.Helper()
	var b strings.Builder
	tag := func(code, value string) {
		b.WriteString(code + "\n" + value + "\n")
	}

	tag("  0", "SECTION")
	tag("  2", "HEADER")
	for _, v := range headerVars {
		tag("  9", v[0])
		tag(" 40", v[1])
	}
	tag("  0", "ENDSEC")
	tag("  0", "SECTION")
	tag("  2", "BLOCKS")
	tag("  0", "BLOCK")
	tag("  2", "titleblock")
	for _, txt := range append([]string{marker}, texts...) {
		tag("  0", "MTEXT")
		tag("  8", "0")
		tag("  1", txt)
	}
	tag("  0", "ENDBLK")
	tag("  0", "ENDSEC")
	tag("  0", "EOF")

	doc, err := dxf.Parse([]byte(b.String()))
	require.NoError(t, err)
	return doc
}

func newTestSheet(t *testing.T, headerVars [][2]string, texts ...string) *Sheet {
	t.Helper()
	doc := drawing(t, headerVars, texts...)
	located := Locate(doc, marker)
	require.NotNil(t, located)
	return NewSheet(doc, located, testPatterns())
}

func TestLocate(t *testing.T) {
	doc := drawing(t, nil, "X", "XX")

	texts := Locate(doc, marker)
	require.NotNil(t, texts)
	assert.Len(t, texts, 3) // marker element included

	assert.Nil(t, Locate(doc, "some other project"))
}

func TestTemplateBinding(t *testing.T) {
	s := newTestSheet(t, nil,
		"X", "XX", "TitleField", "AddressField", "0000-00-00", "1:50")

	assert.Equal(t, "X", s.Get(FieldNumber))
	assert.Equal(t, "XX", s.Get(FieldSheets))
	assert.Equal(t, "TitleField", s.Get(FieldTitle))
	assert.Equal(t, "AddressField", s.Get(FieldAddress))
	assert.Equal(t, "0000-00-00", s.Get(FieldDate))
	assert.Equal(t, "1:50", s.Get(FieldScale))
}

func TestAmbiguousNumberReduction(t *testing.T) {
	// Both values match both the number and the sheets pattern; the earliest
	// element must become the number, the latest the sheets total.
	s := newTestSheet(t, nil, "3", "12")

	assert.Equal(t, "3", s.Get(FieldNumber))
	assert.Equal(t, "12", s.Get(FieldSheets))
}

func TestUnboundFields(t *testing.T) {
	s := newTestSheet(t, nil) // marker only, nothing to bind

	assert.Equal(t, "", s.Get(FieldTitle))
	s.Set(FieldTitle, "ignored") // must not panic
	assert.Equal(t, "", s.Get(FieldTitle))
}

func TestApplyNumbers(t *testing.T) {
	s := newTestSheet(t, nil, "X", "XX")

	s.ApplyNumbers(2, 9)
	assert.Equal(t, "2", s.Get(FieldNumber))
	assert.Equal(t, "9", s.Get(FieldSheets))
}

func TestApplyNumbersSwapsWrongGuess(t *testing.T) {
	// min/max binding guesses wrong here: element order puts the real total
	// first, so the "number" reads 12 while "sheets" reads 3. ApplyNumbers
	// must notice 12 > 3 and swap the bindings before writing.
	doc := drawing(t, nil, "12", "3")
	located := Locate(doc, marker)
	require.NotNil(t, located)
	s := NewSheet(doc, located, testPatterns())

	require.Equal(t, "12", s.Get(FieldNumber))
	require.Equal(t, "3", s.Get(FieldSheets))

	s.ApplyNumbers(1, 5)

	// After the swap the element that held the total (12) receives the new
	// total, and the element that held the number (3) the new number.
	assert.Equal(t, "1", s.Get(FieldNumber))
	assert.Equal(t, "5", s.Get(FieldSheets))
	assert.Equal(t, "5", located[1].Text())
	assert.Equal(t, "1", located[2].Text())
}

func TestDrawingScale(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"enlarging", "2.0", "2:1"},
		{"reducing", "0.5", "1:2"},
		{"natural", "1.0", "1:1"},
		{"rounded", "0.02", "1:50"},
		{"invalid", "garbage", "1:1"},
		{"non-positive", "-2.0", "1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSheet(t, [][2]string{{"$PSVPSCALE", tt.value}})
			assert.Equal(t, tt.want, s.DrawingScale())
		})
	}
}

func TestDrawingScaleMissingHeader(t *testing.T) {
	s := newTestSheet(t, nil)
	assert.Equal(t, "1:1", s.DrawingScale())
}
