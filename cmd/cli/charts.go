//go:build !js && !wasm

package main

import (
	"bufio"
	"flag"
	"fmt"
	"strings"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/catalog"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/report"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/storage"
	"github.com/himanishpuri/StringHarmonics/pkg/utils"
)

func (c *cli) handleCharts(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: charts needs one of list, save, show, delete", errUsage)
	}
	switch args[0] {
	case "list":
		return c.handleChartsList(args[1:])
	case "save":
		return c.handleChartsSave(args[1:])
	case "show":
		return c.handleChartsShow(args[1:])
	case "delete":
		return c.handleChartsDelete(args[1:])
	default:
		return fmt.Errorf("%w: unknown charts command %q", errUsage, args[0])
	}
}

// openCatalog opens the chart store named by -db. The returned close
// function must be called when done.
func (c *cli) openCatalog(dbPath string, maxN int) (*catalog.Catalog, func(), error) {
	svc, err := c.service(maxN)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return catalog.New(svc, db), func() { db.Close() }, nil
}

func (c *cli) dbFlag(fs *flag.FlagSet) *string {
	return fs.String("db", c.cfg.DBPath, "Path to the SQLite chart catalog")
}

func (c *cli) handleChartsList(args []string) error {
	fs := c.flags("charts list")
	dbPath := c.dbFlag(fs)
	kind := fs.String("kind", "", "Only list charts of this kind (harmonics or notes)")
	limit := fs.Int("limit", 0, "Maximum number of charts to list")
	if _, err := parseInterleaved(fs, args); err != nil {
		return err
	}

	cat, closeDB, err := c.openCatalog(*dbPath, c.cfg.MaxHarmonic)
	if err != nil {
		return err
	}
	defer closeDB()

	charts, err := cat.List(*kind, *limit)
	if err != nil {
		return err
	}
	if len(charts) == 0 {
		fmt.Fprintln(c.out, "📭 No charts saved")
		return nil
	}

	fmt.Fprintf(c.out, "📚 Found %d chart(s):\n\n", len(charts))
	for i, chart := range charts {
		fmt.Fprintf(c.out, "%d. %s (ID: %s)\n", i+1, chart.Title, chart.ID)
		fmt.Fprintf(c.out, "   Kind: %s | Strings: %s | Max harmonic: %d\n", chart.Kind, chart.Strings, chart.MaxHarmonic)
		if chart.Notes != "" {
			fmt.Fprintf(c.out, "   Notes: %s\n", chart.Notes)
		}
		fmt.Fprintf(c.out, "   Saved: %s\n\n", chart.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (c *cli) handleChartsSave(args []string) error {
	fs := c.flags("charts save")
	dbPath := c.dbFlag(fs)
	kind := fs.String("kind", storage.KindHarmonics, "Chart kind: harmonics or notes")
	strs := fs.String("strings", "cello", "Instrument name or comma-separated open strings")
	octave := fs.Int("octave", 0, "Only chart nodes in this fingering octave (harmonics charts)")
	title := fs.String("title", "", "Chart title")
	maxN := fs.Int("max", c.cfg.MaxHarmonic, "Highest harmonic to chart")
	notes, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if *octave < 0 {
		return fmt.Errorf("%w: -octave must not be negative", errUsage)
	}

	cat, closeDB, err := c.openCatalog(*dbPath, *maxN)
	if err != nil {
		return err
	}
	defer closeDB()

	region := harmonics.NoRegion
	if *octave > 0 {
		region = *octave - 1
	}
	chart, err := cat.Save(catalog.Request{
		Kind:    *kind,
		Title:   *title,
		Strings: *strs,
		Notes:   notes,
		Region:  region,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "✅ Saved chart")
	fmt.Fprintf(c.out, "   ID:    %s\n", chart.ID)
	fmt.Fprintf(c.out, "   Title: %s\n", chart.Title)
	return nil
}

func (c *cli) handleChartsShow(args []string) error {
	fs := c.flags("charts show")
	dbPath := c.dbFlag(fs)
	markdown := fs.Bool("markdown", false, "Print the Markdown rendering")
	htmlPath := fs.String("html", "", "Write the chart as an HTML page to this file")
	ids, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return fmt.Errorf("%w: charts show needs exactly one chart id", errUsage)
	}

	cat, closeDB, err := c.openCatalog(*dbPath, c.cfg.MaxHarmonic)
	if err != nil {
		return err
	}
	defer closeDB()

	chart, err := cat.Get(ids[0])
	if err != nil {
		return err
	}

	if *htmlPath != "" {
		page, err := report.Page(chart.Title, chart.Markdown)
		if err != nil {
			return err
		}
		err = utils.WriteText(*htmlPath, func(w *bufio.Writer) error {
			_, err := w.WriteString(page)
			return err
		})
		if err != nil {
			return fmt.Errorf("writing %s: %w", *htmlPath, err)
		}
		fmt.Fprintf(c.out, "✅ Wrote %s\n", *htmlPath)
		return nil
	}

	if *markdown {
		fmt.Fprint(c.out, chart.Markdown)
		return nil
	}
	fmt.Fprintf(c.out, "%s\n%s\n", chart.Title, strings.Repeat("=", len(chart.Title)))
	fmt.Fprint(c.out, chart.Body)
	return nil
}

func (c *cli) handleChartsDelete(args []string) error {
	fs := c.flags("charts delete")
	dbPath := c.dbFlag(fs)
	ids, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return fmt.Errorf("%w: charts delete needs exactly one chart id", errUsage)
	}

	cat, closeDB, err := c.openCatalog(*dbPath, c.cfg.MaxHarmonic)
	if err != nil {
		return err
	}
	defer closeDB()

	chart, err := cat.Get(ids[0])
	if err != nil {
		return err
	}
	if err := cat.Delete(chart.ID); err != nil {
		return err
	}

	fmt.Fprintln(c.out, "✅ Successfully deleted chart:")
	fmt.Fprintf(c.out, "   ID:    %s\n", chart.ID)
	fmt.Fprintf(c.out, "   Title: %s\n", chart.Title)
	return nil
}
