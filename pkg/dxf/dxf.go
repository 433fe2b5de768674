// Package dxf reads and writes DXF drawing files at the group-code level.
//
// A DXF file is a flat sequence of tagged pairs: a numeric group code on one
// line and its value on the next. This package models exactly that and nothing
// more. It is not a CAD parser: entities, geometry and drawing semantics stay
// opaque. The point of working at the tag level is lossless round-tripping,
// a document that is parsed and saved without modification comes out
// byte-identical, and a document whose MTEXT values were rewritten differs
// only in those values.
//
// Legacy drawings declare an ANSI codepage in the $DWGCODEPAGE header
// variable. Such files are transparently decoded to UTF-8 on read and encoded
// back on save.
package dxf

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrNotDXF reports input that cannot be read as tagged DXF pairs.
var ErrNotDXF = errors.New("not a DXF file")

// Tag is a single group-code/value pair.
type Tag struct {
	Code  int
	Value string

	// raw keeps the original group-code line so that untouched tags are
	// written back byte-for-byte (group codes are usually right-justified).
	raw string
}

// Document is a parsed drawing: the full tag sequence plus enough state to
// reproduce the source file's encoding and line endings on save.
type Document struct {
	path  string
	tags  []Tag
	crlf  bool
	noEOL bool // source file had no trailing newline
	cp    *codepage
}

// Open reads and parses the DXF file at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.path = path
	return doc, nil
}

// Parse decodes raw DXF bytes into a Document.
func Parse(data []byte) (*Document, error) {
	cp := detectCodepage(data)
	text, err := cp.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrNotDXF, cp.name, err)
	}

	doc := &Document{
		crlf: strings.Contains(text, "\r\n"),
		cp:   cp,
	}
	doc.noEOL = !strings.HasSuffix(text, "\n")

	lines := strings.Split(text, "\n")
	// A trailing newline leaves one empty element behind.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	for i := 0; i < len(lines); i += 2 {
		raw := strings.TrimSuffix(lines[i], "\r")
		code, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid group code %q", ErrNotDXF, i+1, raw)
		}
		if i+1 >= len(lines) {
			return nil, fmt.Errorf("%w: line %d: group code %d has no value", ErrNotDXF, i+1, code)
		}
		doc.tags = append(doc.tags, Tag{
			Code:  code,
			Value: strings.TrimSuffix(lines[i+1], "\r"),
			raw:   raw,
		})
	}
	if len(doc.tags) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrNotDXF)
	}
	return doc, nil
}

// Path returns the file path the document was opened from, if any.
func (d *Document) Path() string {
	return d.path
}

// Tags exposes the underlying tag sequence.
func (d *Document) Tags() []Tag {
	return d.tags
}

// SaveAs writes the document to path, reproducing the source file's group
// code formatting, line endings and codepage.
func (d *Document) SaveAs(path string) error {
	nl := "\n"
	if d.crlf {
		nl = "\r\n"
	}

	var b strings.Builder
	for _, t := range d.tags {
		if t.raw != "" {
			b.WriteString(t.raw)
		} else {
			fmt.Fprintf(&b, "%3d", t.Code)
		}
		b.WriteString(nl)
		b.WriteString(t.Value)
		b.WriteString(nl)
	}
	out := b.String()
	if d.noEOL {
		out = strings.TrimSuffix(out, nl)
	}

	data, err := d.cp.encode(out)
	if err != nil {
		return fmt.Errorf("encoding %s as %s: %w", path, d.cp.name, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// HeaderFloat returns the value of a $-prefixed HEADER variable as a float,
// or fallback when the variable is absent or not numeric.
func (d *Document) HeaderFloat(name string, fallback float64) float64 {
	for i, t := range d.tags {
		if t.Code != 9 || t.Value != name {
			continue
		}
		for j := i + 1; j < len(d.tags); j++ {
			if d.tags[j].Code == 9 || d.tags[j].Code == 0 {
				break
			}
			if v, err := strconv.ParseFloat(strings.TrimSpace(d.tags[j].Value), 64); err == nil {
				return v
			}
		}
		return fallback
	}
	return fallback
}
