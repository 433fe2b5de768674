package dxf

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// codepage pairs a $DWGCODEPAGE name with its character map.
// A nil charmap means UTF-8 passthrough.
type codepage struct {
	name string
	cm   *charmap.Charmap
}

var utf8Codepage = &codepage{name: "UTF-8"}

// ansiCodepages maps $DWGCODEPAGE values written by legacy CAD software to
// their Windows character maps. Names appear both with and without the
// "ANSI_" prefix in the wild.
var ansiCodepages = map[string]*charmap.Charmap{
	"874":  charmap.Windows874,
	"1250": charmap.Windows1250,
	"1251": charmap.Windows1251,
	"1252": charmap.Windows1252,
	"1253": charmap.Windows1253,
	"1254": charmap.Windows1254,
	"1255": charmap.Windows1255,
	"1256": charmap.Windows1256,
	"1257": charmap.Windows1257,
	"1258": charmap.Windows1258,
}

// detectCodepage pre-scans raw bytes for the $DWGCODEPAGE header variable.
// The variable name and its value are plain ASCII in every ANSI codepage, so
// scanning before decoding is safe.
func detectCodepage(data []byte) *codepage {
	i := bytes.Index(data, []byte("$DWGCODEPAGE"))
	if i < 0 {
		return utf8Codepage
	}
	// The value sits two lines below: the variable name line is followed by
	// a group code line (3) and then the codepage name itself.
	lines := strings.SplitN(string(data[i:]), "\n", 4)
	if len(lines) < 3 {
		return utf8Codepage
	}
	name := strings.TrimSpace(lines[2])
	key := strings.ToUpper(name)
	key = strings.TrimPrefix(key, "ANSI_")
	if cm, ok := ansiCodepages[key]; ok {
		return &codepage{name: name, cm: cm}
	}
	return utf8Codepage
}

func (c *codepage) decode(data []byte) (string, error) {
	if c.cm == nil {
		return string(data), nil
	}
	out, _, err := transform.Bytes(c.cm.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c *codepage) encode(text string) ([]byte, error) {
	if c.cm == nil {
		return []byte(text), nil
	}
	out, _, err := transform.Bytes(c.cm.NewEncoder(), []byte(text))
	if err != nil {
		return nil, err
	}
	return out, nil
}
