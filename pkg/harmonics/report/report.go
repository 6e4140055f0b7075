// Package report renders harmonic query results as fixed-width text
// tables, Markdown and HTML.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

// Printer formats pitches with one spelling and set of accidental symbols.
type Printer struct {
	Spelling pitch.Spelling
	Symbols  pitch.Symbols
}

func New(spelling pitch.Spelling, sym pitch.Symbols) *Printer {
	return &Printer{Spelling: spelling, Symbols: sym}
}

func (p *Printer) name(x pitch.Pitch) string {
	return pitch.FormatSymbols(x, p.Spelling, p.Symbols)
}

func (p *Printer) class(x pitch.Pitch) string {
	return pitch.Spell(x, p.Spelling).Class(p.Symbols)
}

// WriteHarmonics prints every node of each row. region only labels the
// heading; pass harmonics.NoRegion when rows cover the whole string.
func (p *Printer) WriteHarmonics(w io.Writer, open pitch.Pitch, rows []harmonics.HarmonicRow, region int) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s string", p.name(open))
	if region != harmonics.NoRegion {
		fmt.Fprintf(&b, ", %s octave", pitch.Ordinal(region))
	}
	b.WriteString(":\n\n")
	b.WriteString(" ------- harmonic -------   --- finger at ---\n")

	for _, row := range rows {
		if len(row.Nodes) == 0 {
			continue
		}
		b.WriteString("\n")
		sounding := p.name(row.Sounding.Pitch)
		for _, node := range row.Nodes {
			fmt.Fprintf(&b, " %2d %2d  %-4s (%3s cents):    %-4s (%3s cents)\n",
				row.Harmonic, node.Index,
				sounding, pitch.Signed(row.Sounding.RoundedCents()),
				p.name(node.Match.Pitch), pitch.Signed(node.Match.RoundedCents()))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFingerboard prints each region chart up the fingerboard, grouping
// entries that share a fingered note.
func (p *Printer) WriteFingerboard(w io.Writer, open pitch.Pitch, charts []harmonics.RegionChart) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s string:\n\n", p.name(open))
	b.WriteString("  --- finger at ---   ------ harmonic ------\n")

	for _, chart := range charts {
		fmt.Fprintf(&b, "\n%s octave\n", pitch.Ordinal(chart.Region))
		prev := ""
		for _, e := range chart.Entries {
			note := p.class(e.Node.Match.Pitch)
			if note != prev {
				b.WriteString("\n")
				prev = note
			}
			fmt.Fprintf(&b, "  %-4s (%3s cents):   %2d   %-4s (%3s cents)\n",
				note, pitch.Signed(e.Node.Match.RoundedCents()),
				e.Harmonic,
				p.name(e.Sounding.Pitch), pitch.Signed(e.Sounding.RoundedCents()))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteNotes prints every harmonic fingering of each note. Strings are
// numbered in Roman numerals in tuning order, and the fingered octave is
// counted from the open string.
func (p *Printer) WriteNotes(w io.Writer, charts []harmonics.NoteChart, tuning harmonics.Tuning) error {
	var b strings.Builder

	b.WriteString("  --- harmonic ---    -------- fingered --------\n")
	b.WriteString("  note number node    string oct note   (offset)\n")
	b.WriteString("  ----------------    --------------------------\n")

	for _, chart := range charts {
		b.WriteString("\n")
		note := p.name(chart.Note)
		for _, pos := range chart.Positions {
			if pos.String < 0 || pos.String >= len(tuning) {
				return fmt.Errorf("position on string %d outside a %d-string tuning", pos.String+1, len(tuning))
			}
			fmt.Fprintf(&b, "   %-3s %4d   %3d      %3s   %2d   %-2s (%3s cents)\n",
				note, pos.Harmonic, pos.Node.Index,
				Roman(pos.String+1),
				pitch.RelativeOctave(pos.Node.Match.Pitch, tuning[pos.String]),
				p.class(pos.Node.Match.Pitch), pitch.Signed(pos.Node.Match.RoundedCents()))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

var romanDigits = []struct {
	value  int
	symbol string
}{
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman writes a string number (1-based) as a Roman numeral. Numbers
// outside 1..39 are written in Arabic digits.
func Roman(n int) string {
	if n < 1 || n > 39 {
		return fmt.Sprint(n)
	}
	var b strings.Builder
	for _, d := range romanDigits {
		for n >= d.value {
			b.WriteString(d.symbol)
			n -= d.value
		}
	}
	return b.String()
}
