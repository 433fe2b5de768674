package sheets

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledin/enumsheets/pkg/dxf"
	"github.com/aledin/enumsheets/pkg/titleblock"
)

const marker = "artidea.gallery"

func testPatterns() titleblock.Patterns {
	return titleblock.Patterns{
		Number:  regexp.MustCompile(`^(X|\d{1,3})$`),
		Sheets:  regexp.MustCompile(`^(XX|\d{1,3})$`),
		Date:    regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})$`),
		Scale:   regexp.MustCompile(`^(\d+:\d+)$`),
		Title:   regexp.MustCompile(`((^TitleField$)|(^(План|Разв)))`),
		Address: regexp.MustCompile(`((^AddressField$)|(^г))`),
	}
}

// writeDrawing drops a recognizable sheet into dir: template placeholders in
// the title block plus the given title and $PSVPSCALE header value.
func writeDrawing(t *testing.T, dir, name, title, psvpscale string) string {
	t.Helper()
	var b strings.Builder
	tag := func(code, value string) {
		b.WriteString(code + "\n" + value + "\n")
	}

	tag("  0", "SECTION")
	tag("  2", "HEADER")
	if psvpscale != "" {
		tag("  9", "$PSVPSCALE")
		tag(" 40", psvpscale)
	}
	tag("  0", "ENDSEC")
	tag("  0", "SECTION")
	tag("  2", "BLOCKS")
	tag("  0", "BLOCK")
	tag("  2", "titleblock")
	for _, txt := range []string{marker, "X", "XX", title, "AddressField", "0000-00-00", "1:50"} {
		tag("  0", "MTEXT")
		tag("  8", "0")
		tag("  1", txt)
	}
	tag("  0", "ENDBLK")
	tag("  0", "ENDSEC")
	tag("  0", "EOF")

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// readBack re-opens a saved sheet and resolves its fields again.
func readBack(t *testing.T, path string) *titleblock.Sheet {
	t.Helper()
	doc, err := dxf.Open(path)
	require.NoError(t, err)
	texts := titleblock.Locate(doc, marker)
	require.NotNil(t, texts)
	return titleblock.NewSheet(doc, texts, testPatterns())
}

func TestRecognize(t *testing.T) {
	dir := t.TempDir()
	ours := writeDrawing(t, dir, "a.dxf", "TitleField", "")
	other := filepath.Join(dir, "readme.dxf")
	require.NoError(t, os.WriteFile(other, []byte("  0\nSECTION\n  2\nENTITIES\n  0\nENDSEC\n  0\nEOF\n"), 0o644))

	var seen []string
	res, err := Recognize([]string{ours, other}, marker, testPatterns(),
		func(path string, recognized bool) {
			seen = append(seen, filepath.Base(path))
		})
	require.NoError(t, err)

	require.Len(t, res.Ours, 1)
	assert.Equal(t, ours, res.Ours[0].Path())
	assert.Equal(t, []string{other}, res.Others)
	assert.Equal(t, []string{"a.dxf", "readme.dxf"}, seen)
}

func TestRecognizeAbortsOnBrokenFile(t *testing.T) {
	dir := t.TempDir()
	good := writeDrawing(t, dir, "a.dxf", "TitleField", "")
	broken := filepath.Join(dir, "broken.dxf")
	require.NoError(t, os.WriteFile(broken, []byte("this is not a drawing"), 0o644))

	_, err := Recognize([]string{good, broken}, marker, testPatterns(), nil)
	assert.ErrorIs(t, err, dxf.ErrNotDXF)
}

func TestMakeOutputDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "enumerated_sheets")

	got, err := MakeOutputDir(base)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	got, err = MakeOutputDir(base)
	require.NoError(t, err)
	assert.Equal(t, base+".001", got)

	got, err = MakeOutputDir(base)
	require.NoError(t, err)
	assert.Equal(t, base+".002", got)
}

func TestMakeOutputDirReplacesExtension(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "sheets.out")
	require.NoError(t, os.Mkdir(base, 0o755))

	got, err := MakeOutputDir(base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sheets.001"), got)
}

func TestMakeOutputDirGivesUp(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(base, 0o755))
	for i := 1; i <= 999; i++ {
		require.NoError(t, os.Mkdir(filepath.Join(dir, fmt.Sprintf("out.%03d", i)), 0o755))
	}

	_, err := MakeOutputDir(base)
	assert.ErrorIs(t, err, ErrTooManyDirs)
}

func TestCopyInto(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.dxf")
	payload := []byte{0x00, 0x01, 0xFF, 0xFE, 'x'}
	require.NoError(t, os.WriteFile(src, payload, 0o644))
	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0o755))

	dst, err := CopyInto(src, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "photo.dxf"), dst)

	copied, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, copied)
}

func TestEnumerate(t *testing.T) {
	dir := t.TempDir()
	// Deliberately out of order on the command line; enumeration sorts.
	paths := []string{
		writeDrawing(t, dir, "b.dxf", "План 2-го этажа", "1.0"),
		writeDrawing(t, dir, "a.dxf", "План 1-го этажа", "2.0"),
		writeDrawing(t, dir, "c.dxf", "Развёртка", "0.5"),
	}
	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0o755))

	res, err := Recognize(paths, marker, testPatterns(), nil)
	require.NoError(t, err)
	require.Len(t, res.Ours, 3)

	now := func() time.Time {
		return time.Date(2021, 3, 4, 15, 0, 0, 0, time.Local)
	}
	err = Enumerate(res.Ours, out, Options{
		UpdateDate:    true,
		UpdateScale:   true,
		UpdateAddress: true,
		Address:       `г. Москва\Pул. Ленина, 1`,
		Now:           now,
	})
	require.NoError(t, err)

	wantScales := map[string]string{"a.dxf": "2:1", "b.dxf": "1:1", "c.dxf": "1:2"}
	for i, name := range []string{"a.dxf", "b.dxf", "c.dxf"} {
		s := readBack(t, filepath.Join(out, name))
		assert.Equal(t, strconv.Itoa(i+1), s.Get(titleblock.FieldNumber), name)
		assert.Equal(t, "3", s.Get(titleblock.FieldSheets), name)
		assert.Equal(t, "2021-03-04", s.Get(titleblock.FieldDate), name)
		assert.Equal(t, wantScales[name], s.Get(titleblock.FieldScale), name)
		assert.Equal(t, `г. Москва\Pул. Ленина, 1`, s.Get(titleblock.FieldAddress), name)
	}
}

func TestEnumerateOverridesAndSkips(t *testing.T) {
	dir := t.TempDir()
	path := writeDrawing(t, dir, "a.dxf", "TitleField", "0.5")
	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0o755))

	res, err := Recognize([]string{path}, marker, testPatterns(), nil)
	require.NoError(t, err)

	err = Enumerate(res.Ours, out, Options{
		UpdateScale: true,
		Scale:       "1:100", // explicit override beats the header ratio
	})
	require.NoError(t, err)

	s := readBack(t, filepath.Join(out, "a.dxf"))
	assert.Equal(t, "1", s.Get(titleblock.FieldNumber))
	assert.Equal(t, "1", s.Get(titleblock.FieldSheets))
	assert.Equal(t, "1:100", s.Get(titleblock.FieldScale))
	// Date disabled, address empty: placeholders stay put.
	assert.Equal(t, "0000-00-00", s.Get(titleblock.FieldDate))
	assert.Equal(t, "AddressField", s.Get(titleblock.FieldAddress))
}
