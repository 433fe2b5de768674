// enumsheets batch-processes the DXF files of a technical drawing set.
//
// Every input file containing a recognizable title block is counted as a
// sheet of the set: the tool writes the sheet number and total number of
// sheets into each title block, optionally rewrites the date, scale and
// address fields, and extracts each sheet title into a contents index
// (xlsx, optionally also PDF). Files without a title block are copied into
// the output directory unchanged.
//
// Usage:
//
//	enumsheets [flags] drawing1.dxf drawing2.dxf ...
//
// Flags:
//
//	-c, --config string   Configuration ini file (default "config.ini")
//	    --dump-config     Print the effective configuration as YAML and exit
//
// Arguments with an extension other than .dxf are silently ignored.
//
// A title block is recognized when a block definition contains an MTEXT with
// the marker configured as title_block.marker. Tested against files created
// and edited with LibreCAD; other CAD software was never tried.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aledin/enumsheets/pkg/config"
	"github.com/aledin/enumsheets/pkg/contents"
	"github.com/aledin/enumsheets/pkg/sheets"
	"github.com/aledin/enumsheets/pkg/titleblock"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		dumpConfig bool
	)

	cmd := &cobra.Command{
		Use:   "enumsheets [flags] drawing.dxf ...",
		Short: "Enumerate drawing-set sheets and build a contents index",
		Long: `enumsheets counts the DXF sheets of a drawing set, writes sheet numbers
and totals into their title blocks, optionally rewrites date, scale and
address fields, and extracts sheet titles into a contents table.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, dumpConfig, args)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.ini", "configuration ini file")
	cmd.Flags().BoolVar(&dumpConfig, "dump-config", false, "print the effective configuration as YAML and exit")
	return cmd
}

func run(configPath string, dumpConfig bool, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if dumpConfig {
		return cfg.DumpYAML(os.Stdout)
	}

	var inputs []string
	for _, a := range args {
		if filepath.Ext(a) == ".dxf" {
			inputs = append(inputs, a)
		}
	}

	found := color.New(color.FgGreen).SprintfFunc()
	missed := color.New(color.FgYellow).SprintfFunc()

	res, err := sheets.Recognize(inputs, cfg.TitleBlock.Marker, cfg.TitleBlock.Patterns,
		func(path string, recognized bool) {
			if recognized {
				fmt.Printf("Looking for title block in %s: %s\n", path, found("found, will process this file"))
			} else {
				fmt.Printf("Looking for title block in %s: %s\n", path, missed("not found, will copy this file as is"))
			}
		})
	if err != nil {
		return err
	}
	if len(res.Ours) == 0 && len(res.Others) == 0 {
		return errors.New("no input files to process")
	}

	outputDir, err := sheets.MakeOutputDir(cfg.Output.Dirname)
	if err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	for _, f := range res.Others {
		fmt.Printf("Copying %s to %s...\n", f, filepath.Join(outputDir, filepath.Base(f)))
		if _, err := sheets.CopyInto(f, outputDir); err != nil {
			return err
		}
	}
	if len(res.Ours) == 0 {
		return errors.New("no sheets to process")
	}

	err = sheets.Enumerate(res.Ours, outputDir, sheets.Options{
		UpdateDate:    cfg.TitleBlock.UpdateDate,
		UpdateScale:   cfg.TitleBlock.UpdateScale,
		UpdateAddress: cfg.TitleBlock.UpdateAddress,
		Date:          cfg.TitleBlock.DateValue,
		Scale:         cfg.TitleBlock.ScaleValue,
		Address:       cfg.TitleBlock.AddressValue,
		Progress: func(src, dst string) {
			fmt.Printf("Processing %s, saving to %s...\n", src, dst)
		},
	})
	if err != nil {
		return err
	}

	return writeContents(cfg, res.Ours, outputDir)
}

// writeContents emits the enabled index renditions into the output
// directory. Titles are read back from the already enumerated sheets.
func writeContents(cfg *config.Config, ours []*titleblock.Sheet, outputDir string) error {
	entries := make([]contents.Entry, 0, len(ours))
	for _, s := range ours {
		entries = append(entries, contents.Entry{
			Number: s.Get(titleblock.FieldNumber),
			Title:  s.Get(titleblock.FieldTitle),
		})
	}

	if cfg.Excel.Enable && strings.TrimSpace(cfg.Excel.Filename) != "" {
		path := filepath.Join(outputDir, cfg.Excel.Filename)
		fmt.Printf("Saving contents to %s...\n", path)
		for _, e := range entries {
			fmt.Printf("%s: %s\n", e.Number, e.Title)
		}
		err := contents.WriteExcel(path, entries, contents.Options{
			WorksheetTitle: cfg.Excel.WorksheetTitle,
			DrawingsTitle:  cfg.Excel.DrawingsTitle,
			SpecsTitle:     cfg.Excel.SpecsTitle,
			SpecsNames:     cfg.Excel.SpecsNames,
		})
		if err != nil {
			return err
		}
	}

	if cfg.PDF.Enable && strings.TrimSpace(cfg.PDF.Filename) != "" {
		path := filepath.Join(outputDir, cfg.PDF.Filename)
		fmt.Printf("Saving contents to %s...\n", path)
		err := contents.WritePDF(path, entries, contents.Options{
			DrawingsTitle: cfg.Excel.DrawingsTitle,
			SpecsTitle:    cfg.Excel.SpecsTitle,
			SpecsNames:    cfg.Excel.SpecsNames,
			FontPath:      cfg.PDF.Font,
		})
		if err != nil {
			return err
		}
	}

	fmt.Println("Done.")
	return nil
}
