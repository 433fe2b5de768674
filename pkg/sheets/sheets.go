// Package sheets turns a pile of drawing files into an enumerated set.
//
// Input files are classified by title-block recognition into project sheets
// and everything else. Sheets get sequential numbers written into their title
// blocks and are saved into a fresh output directory; other files are copied
// there unchanged.
package sheets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aledin/enumsheets/pkg/dxf"
	"github.com/aledin/enumsheets/pkg/titleblock"
)

// ErrTooManyDirs reports that every collision suffix for the output
// directory name is already taken.
var ErrTooManyDirs = errors.New("too many output directories with the same name")

// Result of classifying the input files.
type Result struct {
	Ours   []*titleblock.Sheet // recognized project sheets
	Others []string            // paths of files without a title block
}

// Progress receives per-file classification outcomes as they happen.
type Progress func(path string, recognized bool)

// Recognize opens each input file and sorts it into Result.Ours or
// Result.Others depending on whether a title block with marker is found.
// A file that cannot be read or parsed aborts the whole run; there is no
// per-file recovery.
func Recognize(paths []string, marker string, pats titleblock.Patterns, progress Progress) (Result, error) {
	var res Result
	for _, path := range paths {
		doc, err := dxf.Open(path)
		if err != nil {
			return Result{}, err
		}
		texts := titleblock.Locate(doc, marker)
		if texts == nil {
			res.Others = append(res.Others, path)
		} else {
			res.Ours = append(res.Ours, titleblock.NewSheet(doc, texts, pats))
		}
		if progress != nil {
			progress(path, texts != nil)
		}
	}
	return res, nil
}

// MakeOutputDir creates dirname, resolving collisions by appending a numeric
// extension: name.001, name.002, … (any extension on the configured name is
// replaced by the suffix). Gives up after .999.
func MakeOutputDir(dirname string) (string, error) {
	stem := strings.TrimSuffix(dirname, filepath.Ext(dirname))
	name := dirname
	for i := 0; i < 1000; i++ {
		if i > 0 {
			name = fmt.Sprintf("%s.%03d", stem, i)
		}
		err := os.Mkdir(name, 0o755)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
	return "", ErrTooManyDirs
}

// CopyInto copies src into dir unchanged, keeping the base filename.
// Returns the destination path.
func CopyInto(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("copying %s: %w", src, err)
	}
	return dst, out.Close()
}

// Options control the field rewrites applied during enumeration.
type Options struct {
	UpdateDate    bool
	UpdateScale   bool
	UpdateAddress bool

	Date    string // empty = current local date
	Scale   string // empty = derive from each drawing's header
	Address string // empty = leave the field untouched

	Now      func() time.Time      // nil = time.Now
	Progress func(src, dst string) // called before each sheet is processed
}

// Enumerate sorts sheets by source path, writes 1..N sheet numbers and the
// total into every title block, applies the configured rewrites and saves
// each drawing into outputDir under its base filename. The passed slice is
// sorted in place so callers observe the final ordering.
func Enumerate(all []*titleblock.Sheet, outputDir string, opts Options) error {
	sort.Slice(all, func(i, j int) bool { return all[i].Path() < all[j].Path() })

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	date := opts.Date
	if opts.UpdateDate && date == "" {
		date = now().Format("2006-01-02")
	}

	total := len(all)
	for i, s := range all {
		dst := filepath.Join(outputDir, filepath.Base(s.Path()))
		if opts.Progress != nil {
			opts.Progress(s.Path(), dst)
		}

		s.ApplyNumbers(i+1, total)
		if opts.UpdateDate {
			s.Set(titleblock.FieldDate, date)
		}
		if opts.UpdateScale {
			scale := opts.Scale
			if scale == "" {
				scale = s.DrawingScale()
			}
			s.Set(titleblock.FieldScale, scale)
		}
		if opts.UpdateAddress && opts.Address != "" {
			s.Set(titleblock.FieldAddress, opts.Address)
		}

		if err := s.Doc().SaveAs(dst); err != nil {
			return fmt.Errorf("saving %s: %w", dst, err)
		}
	}
	return nil
}
