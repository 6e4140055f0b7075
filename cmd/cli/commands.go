//go:build !js && !wasm

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/audio"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/lilypond"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
	"github.com/himanishpuri/StringHarmonics/pkg/utils"
)

// parseOctaves reads a comma-separated list of 1-based fingering octaves
// and returns them as 0-based regions.
func parseOctaves(s string) ([]int, error) {
	var regions []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: octave %q must be a positive integer", errUsage, part)
		}
		regions = append(regions, n-1)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: no octaves given", errUsage)
	}
	return regions, nil
}

func (c *cli) handleTable(args []string) error {
	fs := c.flags("table")
	maxN := fs.Int("max", c.cfg.MaxHarmonic, "Highest harmonic to list")
	octave := fs.Int("octave", 0, "Only list nodes in this fingering octave (1 = nearest the nut)")
	markdown := fs.Bool("markdown", false, "Print Markdown tables")
	ascii := fs.Bool("ascii", false, "Spell accidentals as s and f")
	names, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: table needs at least one open string", errUsage)
	}
	if *octave < 0 {
		return fmt.Errorf("%w: -octave must not be negative", errUsage)
	}

	svc, err := c.service(*maxN)
	if err != nil {
		return err
	}
	printer := c.printer(*ascii)
	region := harmonics.NoRegion
	if *octave > 0 {
		region = *octave - 1
	}

	for _, name := range names {
		open, err := pitch.ParseAbsolute(name)
		if err != nil {
			return err
		}
		var rows []harmonics.HarmonicRow
		if region == harmonics.NoRegion {
			rows, err = svc.Table(open)
		} else {
			rows, err = svc.TableInRegion(open, region)
		}
		if err != nil {
			return err
		}
		if *markdown {
			fmt.Fprintln(c.out, printer.MarkdownHarmonics(open, rows, region))
			continue
		}
		if err := printer.WriteHarmonics(c.out, open, rows, region); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) handlePositions(args []string) error {
	fs := c.flags("positions")
	strs := fs.String("strings", "cello", "Instrument name or comma-separated open strings")
	maxN := fs.Int("max", c.cfg.MaxHarmonic, "Highest harmonic to consider")
	tolerance := fs.Float64("tolerance", 50, "Largest deviation from the target, in cents")
	names, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(names) != 1 {
		return fmt.Errorf("%w: positions needs exactly one pitch", errUsage)
	}

	target, err := pitch.ParseAbsolute(names[0])
	if err != nil {
		return err
	}
	tuning, err := harmonics.ResolveTuning(*strs)
	if err != nil {
		return err
	}
	svc, err := c.service(*maxN)
	if err != nil {
		return err
	}

	positions, err := svc.PositionsWithin(tuning, target, *tolerance)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		fmt.Fprintf(c.out, "No harmonic positions of %s within %.0f cents\n", svc.Format(target), *tolerance)
		return nil
	}
	chart := []harmonics.NoteChart{{Note: target, Positions: positions}}
	return c.printer(false).WriteNotes(c.out, chart, tuning)
}

func (c *cli) handleNotes(args []string) error {
	fs := c.flags("notes")
	strs := fs.String("strings", "cello", "Instrument name or comma-separated open strings")
	maxN := fs.Int("max", c.cfg.MaxHarmonic, "Highest harmonic to consider")
	markdown := fs.Bool("markdown", false, "Print Markdown tables")
	names, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: notes needs at least one note", errUsage)
	}

	notes := make([]pitch.Pitch, 0, len(names))
	for _, name := range names {
		p, err := pitch.ParseAbsolute(name)
		if err != nil {
			return err
		}
		notes = append(notes, p)
	}
	tuning, err := harmonics.ResolveTuning(*strs)
	if err != nil {
		return err
	}
	svc, err := c.service(*maxN)
	if err != nil {
		return err
	}

	charts, err := svc.Notes(notes, tuning)
	if err != nil {
		return err
	}
	printer := c.printer(false)
	if *markdown {
		fmt.Fprint(c.out, printer.MarkdownNotes(charts, tuning))
		return nil
	}
	return printer.WriteNotes(c.out, charts, tuning)
}

func (c *cli) handleFingerboard(args []string) error {
	fs := c.flags("fingerboard")
	octaves := fs.String("octaves", "1", "Comma-separated fingering octaves (1 = nearest the nut)")
	maxN := fs.Int("max", c.cfg.MaxHarmonic, "Highest harmonic to consider")
	ascii := fs.Bool("ascii", false, "Spell accidentals as s and f")
	names, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(names) != 1 {
		return fmt.Errorf("%w: fingerboard needs exactly one open string", errUsage)
	}

	open, err := pitch.ParseAbsolute(names[0])
	if err != nil {
		return err
	}
	regions, err := parseOctaves(*octaves)
	if err != nil {
		return err
	}
	svc, err := c.service(*maxN)
	if err != nil {
		return err
	}

	charts, err := svc.Fingerboard(open, regions)
	if err != nil {
		return err
	}
	return c.printer(*ascii).WriteFingerboard(c.out, open, charts)
}

func (c *cli) handleLilyPond(args []string) error {
	fs := c.flags("lilypond")
	strs := fs.String("strings", "cello", "Instrument name or comma-separated open strings")
	octaves := fs.String("octaves", "1", "Comma-separated fingering octaves (1 = nearest the nut)")
	maxN := fs.Int("max", c.cfg.MaxHarmonic, "Highest harmonic to engrave")
	output := fs.String("o", "harmonics.ly", "Output .ly file")
	instrument := fs.String("instrument", "", "Instrument name for score headings (defaults to -strings when it names one)")
	noteSpacing := fs.Int("note-spacing", lilypond.DefaultNoteSpacing, "Horizontal note spacing")
	staffSpacing := fs.Int("staff-spacing", lilypond.DefaultStaffSpacing, "Padding between staves")
	pageBreaks := fs.Bool("page-breaks", false, "Start every score after the first on a new page")
	include := fs.String("include", "", "LilyPond file to include as front matter")
	pdf := fs.Bool("pdf", false, "Run lilypond on the output to produce a PDF")
	if _, err := parseInterleaved(fs, args); err != nil {
		return err
	}

	tuning, err := harmonics.ResolveTuning(*strs)
	if err != nil {
		return err
	}
	regions, err := parseOctaves(*octaves)
	if err != nil {
		return err
	}
	name := *instrument
	if name == "" {
		if _, err := harmonics.Instrument(*strs); err == nil {
			name = strings.ToLower(strings.TrimSpace(*strs))
		}
	}

	book := lilypond.Book{
		StaffSpacing: *staffSpacing,
		PageBreaks:   *pageBreaks,
		Include:      *include,
	}
	for _, open := range tuning {
		book.Charts = append(book.Charts, lilypond.Chart{
			String:      open,
			Regions:     regions,
			MaxHarmonic: *maxN,
			Instrument:  name,
			NoteSpacing: *noteSpacing,
			Spelling:    c.cfg.Spelling,
			Tie:         c.cfg.Tie,
		})
	}

	err = utils.WriteText(*output, func(w *bufio.Writer) error {
		return book.Write(w)
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", *output, err)
	}
	fmt.Fprintf(c.out, "✅ Wrote %d score(s) to %s\n", len(tuning)*len(regions), *output)
	c.log.Infof("Engraved %s to %s", strings.Join(tuning.Names(c.cfg.Spelling), ","), *output)

	if !*pdf {
		return nil
	}
	fmt.Fprintf(c.out, "🎼 Running %s...\n", c.cfg.LilyPond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	pdfPath, err := lilypond.Process(ctx, c.cfg.LilyPond, *output)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✅ Wrote %s\n", pdfPath)
	return nil
}

func (c *cli) handleTone(args []string) error {
	fs := c.flags("tone")
	n := fs.Int("harmonic", 1, "Harmonic to sound (1 = the open string)")
	withOpen := fs.Bool("with-open", false, "Mix in the open string as a reference")
	output := fs.String("o", "tone.wav", "Output WAV file")
	duration := fs.Duration("duration", 2*time.Second, "Tone length")
	rate := fs.Int("rate", audio.DefaultSampleRate, "Sample rate in Hz")
	names, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(names) != 1 {
		return fmt.Errorf("%w: tone needs exactly one open string", errUsage)
	}
	if *n < 1 {
		return fmt.Errorf("%w: -harmonic must be at least 1", errUsage)
	}

	open, err := pitch.ParseAbsolute(names[0])
	if err != nil {
		return err
	}
	hz := audio.HarmonicHz(open, *n)
	freqs := []float64{hz}
	if *withOpen && *n > 1 {
		freqs = append(freqs, open.Hz())
	}

	cfg := audio.ToneConfig{SampleRate: *rate, Duration: *duration}
	err = utils.WriteFile(*output, func(f *os.File) error {
		return audio.RenderTone(f, freqs, cfg)
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", *output, err)
	}

	m := pitch.Nearest(pitch.FromHz(hz), c.cfg.Tie)
	fmt.Fprintf(c.out, "✅ Wrote %s: harmonic %d of %s sounds %s %s cents (%.2f Hz)\n",
		*output, *n, pitch.Format(open, c.cfg.Spelling),
		pitch.Format(m.Pitch, c.cfg.Spelling), pitch.Signed(m.RoundedCents()), hz)
	return nil
}

func (c *cli) handleDetect(args []string) error {
	fs := c.flags("detect")
	strs := fs.String("strings", "", "Also list harmonic positions of the detected pitch on these strings")
	maxN := fs.Int("max", c.cfg.MaxHarmonic, "Highest harmonic to consider with -strings")
	files, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(files) != 1 {
		return fmt.Errorf("%w: detect needs exactly one WAV file", errUsage)
	}

	samples, rate, err := audio.ReadWavAsFloat64(files[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", files[0], err)
	}
	m, hz, err := audio.DetectPitch(samples, rate, c.cfg.Tie)
	if err != nil {
		return fmt.Errorf("detecting pitch in %s: %w", files[0], err)
	}
	fmt.Fprintf(c.out, "🎵 %s: %.2f Hz, %s %s cents\n",
		files[0], hz, pitch.Format(m.Pitch, c.cfg.Spelling), pitch.Signed(m.RoundedCents()))

	if *strs == "" {
		return nil
	}
	return c.handlePositions([]string{
		pitch.Format(m.Pitch, c.cfg.Spelling),
		"-strings", *strs,
		"-max", strconv.Itoa(*maxN),
	})
}
