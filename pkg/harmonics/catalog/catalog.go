//go:build !js && !wasm

// Package catalog renders harmonic charts and keeps them in a chart store.
package catalog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/report"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/storage"
)

// Store is the persistence the catalog needs. *storage.DBClient
// implements it.
type Store interface {
	SaveChart(chart *storage.Chart) (string, error)
	GetChart(id string) (*storage.Chart, error)
	ListCharts(kind string, limit int) ([]storage.Chart, error)
	DeleteChart(id string) error
}

// Request describes a chart to render. Strings is an instrument name or a
// comma-separated list of open strings. Notes is only read for notes
// charts; Region only for harmonics charts.
type Request struct {
	Kind    string
	Title   string
	Strings string
	Notes   []string
	Region  int
}

type Catalog struct {
	svc     harmonics.Service
	store   Store
	printer *report.Printer
	log     harmonics.Logger
}

func New(svc harmonics.Service, store Store) *Catalog {
	cfg := svc.Config()
	return &Catalog{
		svc:     svc,
		store:   store,
		printer: report.New(cfg.Spelling, pitch.Standard),
		log:     cfg.Logger,
	}
}

// Render builds the text and Markdown of a chart without storing it.
func (c *Catalog) Render(req Request) (*storage.Chart, error) {
	tuning, err := harmonics.ResolveTuning(req.Strings)
	if err != nil {
		return nil, fmt.Errorf("strings %q: %w", req.Strings, err)
	}

	chart := &storage.Chart{
		Kind:        req.Kind,
		Title:       req.Title,
		Strings:     strings.Join(tuning.Names(c.printer.Spelling), ","),
		MaxHarmonic: c.svc.Config().MaxHarmonic,
		Region:      harmonics.NoRegion,
	}

	switch req.Kind {
	case storage.KindHarmonics:
		err = c.renderHarmonics(chart, tuning, req.Region)
	case storage.KindNotes:
		err = c.renderNotes(chart, tuning, req.Notes)
	default:
		return nil, fmt.Errorf("%w: kind %q (expected %s or %s)",
			harmonics.ErrDomain, req.Kind, storage.KindHarmonics, storage.KindNotes)
	}
	if err != nil {
		return nil, err
	}
	return chart, nil
}

func (c *Catalog) renderHarmonics(chart *storage.Chart, tuning harmonics.Tuning, region int) error {
	var body bytes.Buffer
	var md []string
	for _, open := range tuning {
		var rows []harmonics.HarmonicRow
		var err error
		if region == harmonics.NoRegion {
			rows, err = c.svc.Table(open)
		} else {
			rows, err = c.svc.TableInRegion(open, region)
		}
		if err != nil {
			return err
		}
		if err := c.printer.WriteHarmonics(&body, open, rows, region); err != nil {
			return err
		}
		md = append(md, c.printer.MarkdownHarmonics(open, rows, region))
	}

	chart.Region = region
	chart.Body = body.String()
	chart.Markdown = strings.Join(md, "\n")
	if chart.Title == "" {
		chart.Title = "Harmonics on " + strings.ReplaceAll(chart.Strings, ",", ", ")
		if region != harmonics.NoRegion {
			chart.Title += ", " + pitch.Ordinal(region) + " octave"
		}
	}
	return nil
}

func (c *Catalog) renderNotes(chart *storage.Chart, tuning harmonics.Tuning, names []string) error {
	var notes []pitch.Pitch
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p, err := pitch.ParseAbsolute(name)
		if err != nil {
			return err
		}
		notes = append(notes, p)
	}
	if len(notes) == 0 {
		return fmt.Errorf("%w: a notes chart needs at least one note", harmonics.ErrDomain)
	}

	charts, err := c.svc.Notes(notes, tuning)
	if err != nil {
		return err
	}
	var body bytes.Buffer
	if err := c.printer.WriteNotes(&body, charts, tuning); err != nil {
		return err
	}

	spelled := make([]string, len(notes))
	for i, n := range notes {
		spelled[i] = c.svc.Format(n)
	}
	chart.Notes = strings.Join(spelled, ",")
	chart.Body = body.String()
	chart.Markdown = c.printer.MarkdownNotes(charts, tuning)
	if chart.Title == "" {
		chart.Title = "Harmonic fingerings of " + strings.Join(spelled, ", ")
	}
	return nil
}

// Save renders req and stores the result.
func (c *Catalog) Save(req Request) (*storage.Chart, error) {
	chart, err := c.Render(req)
	if err != nil {
		return nil, err
	}
	if _, err := c.store.SaveChart(chart); err != nil {
		return nil, fmt.Errorf("saving chart: %w", err)
	}
	c.log.Infof("Saved %s chart %s (%s)", chart.Kind, chart.ID, chart.Title)
	return chart, nil
}

func (c *Catalog) Get(id string) (*storage.Chart, error) {
	return c.store.GetChart(id)
}

func (c *Catalog) List(kind string, limit int) ([]storage.Chart, error) {
	return c.store.ListCharts(kind, limit)
}

func (c *Catalog) Delete(id string) error {
	if err := c.store.DeleteChart(id); err != nil {
		return err
	}
	c.log.Infof("Deleted chart %s", id)
	return nil
}

// HTML renders a stored chart as a standalone HTML page.
func (c *Catalog) HTML(id string) (string, error) {
	chart, err := c.store.GetChart(id)
	if err != nil {
		return "", err
	}
	return report.Page(chart.Title, chart.Markdown)
}
