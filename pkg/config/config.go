// Package config loads the enumsheets INI configuration.
//
// Every value has a default; the configuration file only needs the keys that
// differ. Multiline values use configparser-style indented continuation
// lines, so configuration files written for earlier tooling keep working.
package config

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/aledin/enumsheets/pkg/titleblock"
)

// Defaults for every configurable value. Pattern defaults target title
// blocks inserted from the project template: placeholder markers (X, XX,
// TitleField, AddressField, 1:50, 0000-00-00) or the real values that
// replace them during editing.
const (
	DefaultOutputDirname = "enumerated_sheets"

	DefaultMarker = "artidea.gallery"

	// Sheet number: the X placeholder or a number.
	DefaultNumberPattern = `^(X|\d{1,3})$`
	// Number of sheets: the XX placeholder or a number.
	DefaultSheetsPattern = `^(XX|\d{1,3})$`
	// Sheet title: the placeholder or text starting with the words the
	// project's sheet titles start with (Russian).
	DefaultTitlePattern = `((^TitleField$)|(^(План|Разв)))`
	// Address: the placeholder or a line starting with the Russian
	// abbreviation for "city".
	DefaultAddressPattern = `((^AddressField$)|(^г))`
	// Date in ISO form, which is also the placeholder's shape.
	DefaultDatePattern = `^(\d{4}-\d{2}-\d{2})$`
	// Scale like 1:50.
	DefaultScalePattern = `^(\d+:\d+)$`

	DefaultExcelFilename  = "contents.xlsx"
	DefaultWorksheetTitle = "Перечень листов"
	DefaultDrawingsTitle  = "Чертежи"
	DefaultSpecsTitle     = "Ведомости"

	DefaultPDFFilename = "contents.pdf"
)

// Config mirrors the INI file's sections.
type Config struct {
	Output     Output     `yaml:"output"`
	TitleBlock TitleBlock `yaml:"title_block"`
	Excel      Excel      `yaml:"excel_file"`
	PDF        PDF        `yaml:"pdf_file"`
}

// Output is the [output] section.
type Output struct {
	// Dirname is the output directory to create for the run.
	Dirname string `yaml:"dirname"`
}

// TitleBlock is the [title_block] section.
type TitleBlock struct {
	// Marker is the unique text identifying project title blocks.
	Marker string `yaml:"marker"`

	// Field patterns, one per title-block slot, as written in the file.
	NumberPattern  string `yaml:"number_pattern"`
	SheetsPattern  string `yaml:"sheets_pattern"`
	DatePattern    string `yaml:"date_pattern"`
	ScalePattern   string `yaml:"scale_pattern"`
	TitlePattern   string `yaml:"title_pattern"`
	AddressPattern string `yaml:"address_pattern"`

	// Which optional rewrites to perform during enumeration.
	UpdateDate    bool `yaml:"update_date"`
	UpdateScale   bool `yaml:"update_scale"`
	UpdateAddress bool `yaml:"update_address"`

	// Override values. Empty date and scale are derived at run time;
	// an empty address leaves the field untouched.
	DateValue    string `yaml:"date_value"`
	ScaleValue   string `yaml:"scale_value"`
	AddressValue string `yaml:"address_value"`

	// Patterns holds the compiled field patterns.
	Patterns titleblock.Patterns `yaml:"-"`
}

// Excel is the [excel_file] section.
type Excel struct {
	Enable         bool     `yaml:"enable"`
	Filename       string   `yaml:"filename"`
	WorksheetTitle string   `yaml:"worksheet_title"`
	DrawingsTitle  string   `yaml:"drawings_title"`
	SpecsTitle     string   `yaml:"specs_title"`
	SpecsNames     []string `yaml:"specs_names"`
}

// PDF is the [pdf_file] section. Disabled unless asked for.
type PDF struct {
	Enable   bool   `yaml:"enable"`
	Filename string `yaml:"filename"`
	// Font is a path to a TTF used for the index text. Empty falls back to
	// the built-in core font, which covers Latin-1 only.
	Font string `yaml:"font"`
}

// Default returns the configuration used when no file overrides anything.
func Default() *Config {
	cfg := &Config{
		Output: Output{
			Dirname: DefaultOutputDirname,
		},
		TitleBlock: TitleBlock{
			Marker:         DefaultMarker,
			NumberPattern:  DefaultNumberPattern,
			SheetsPattern:  DefaultSheetsPattern,
			DatePattern:    DefaultDatePattern,
			ScalePattern:   DefaultScalePattern,
			TitlePattern:   DefaultTitlePattern,
			AddressPattern: DefaultAddressPattern,
			UpdateDate:     true,
			UpdateScale:    true,
			UpdateAddress:  true,
		},
		Excel: Excel{
			Enable:         true,
			Filename:       DefaultExcelFilename,
			WorksheetTitle: DefaultWorksheetTitle,
			DrawingsTitle:  DefaultDrawingsTitle,
			SpecsTitle:     DefaultSpecsTitle,
		},
		PDF: PDF{
			Enable:   false,
			Filename: DefaultPDFFilename,
		},
	}
	if err := cfg.compile(); err != nil {
		// Default patterns are constants; a compile failure here is a bug.
		panic(err)
	}
	return cfg
}

// Load reads the INI file at path on top of the defaults and compiles the
// field patterns. Any unreadable file, malformed section or invalid pattern
// is a load error.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	out := f.Section("output")
	cfg.Output.Dirname = out.Key("dirname").MustString(cfg.Output.Dirname)

	tb := f.Section("title_block")
	cfg.TitleBlock.Marker = tb.Key("marker").MustString(cfg.TitleBlock.Marker)

	cfg.TitleBlock.NumberPattern = tb.Key("number_pattern").MustString(cfg.TitleBlock.NumberPattern)
	cfg.TitleBlock.SheetsPattern = tb.Key("sheets_pattern").MustString(cfg.TitleBlock.SheetsPattern)
	cfg.TitleBlock.DatePattern = tb.Key("date_pattern").MustString(cfg.TitleBlock.DatePattern)
	cfg.TitleBlock.ScalePattern = tb.Key("scale_pattern").MustString(cfg.TitleBlock.ScalePattern)
	cfg.TitleBlock.TitlePattern = tb.Key("title_pattern").MustString(cfg.TitleBlock.TitlePattern)
	cfg.TitleBlock.AddressPattern = tb.Key("address_pattern").MustString(cfg.TitleBlock.AddressPattern)

	cfg.TitleBlock.UpdateDate = tb.Key("update_date").MustBool(cfg.TitleBlock.UpdateDate)
	cfg.TitleBlock.UpdateScale = tb.Key("update_scale").MustBool(cfg.TitleBlock.UpdateScale)
	cfg.TitleBlock.UpdateAddress = tb.Key("update_address").MustBool(cfg.TitleBlock.UpdateAddress)

	cfg.TitleBlock.DateValue = tb.Key("date_value").String()
	cfg.TitleBlock.ScaleValue = tb.Key("scale_value").String()
	// Multiline addresses become single MTEXT values with \P line breaks.
	cfg.TitleBlock.AddressValue = strings.Join(splitNames(tb.Key("address_value").String()), `\P`)

	xl := f.Section("excel_file")
	cfg.Excel.Enable = xl.Key("enable").MustBool(cfg.Excel.Enable)
	cfg.Excel.Filename = xl.Key("filename").MustString(cfg.Excel.Filename)
	cfg.Excel.WorksheetTitle = xl.Key("worksheet_title").MustString(cfg.Excel.WorksheetTitle)
	cfg.Excel.DrawingsTitle = xl.Key("drawings_title").MustString(cfg.Excel.DrawingsTitle)
	cfg.Excel.SpecsTitle = xl.Key("specs_title").MustString(cfg.Excel.SpecsTitle)
	cfg.Excel.SpecsNames = splitNames(xl.Key("specs_names").String())

	pdf := f.Section("pdf_file")
	cfg.PDF.Enable = pdf.Key("enable").MustBool(cfg.PDF.Enable)
	cfg.PDF.Filename = pdf.Key("filename").MustString(cfg.PDF.Filename)
	cfg.PDF.Font = pdf.Key("font").String()

	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// compile builds the title-block pattern set from the pattern strings.
func (c *Config) compile() error {
	pats := []struct {
		name string
		src  string
		dst  **regexp.Regexp
	}{
		{"number_pattern", c.TitleBlock.NumberPattern, &c.TitleBlock.Patterns.Number},
		{"sheets_pattern", c.TitleBlock.SheetsPattern, &c.TitleBlock.Patterns.Sheets},
		{"date_pattern", c.TitleBlock.DatePattern, &c.TitleBlock.Patterns.Date},
		{"scale_pattern", c.TitleBlock.ScalePattern, &c.TitleBlock.Patterns.Scale},
		{"title_pattern", c.TitleBlock.TitlePattern, &c.TitleBlock.Patterns.Title},
		{"address_pattern", c.TitleBlock.AddressPattern, &c.TitleBlock.Patterns.Address},
	}
	for _, p := range pats {
		re, err := regexp.Compile(p.src)
		if err != nil {
			return fmt.Errorf("title_block: invalid %s: %w", p.name, err)
		}
		*p.dst = re
	}
	return nil
}

// DumpYAML writes the effective configuration to w for inspection.
func (c *Config) DumpYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(c)
}

// splitNames turns a multiline INI value into its non-empty trimmed lines.
func splitNames(raw string) []string {
	var names []string
	for _, line := range strings.Split(raw, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			names = append(names, s)
		}
	}
	return names
}
