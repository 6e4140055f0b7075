package lilypond

import (
	"fmt"
	"io"
	"strings"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

const (
	Version             = "2.20.0"
	DefaultNoteSpacing  = 200
	DefaultStaffSpacing = 10
	maxRegion           = 25
)

// Chart engraves the harmonics of one string, one score per fingering
// octave. The upper staff shows each harmonic's pitch, marked with its
// number above and its cents below; the lower staff shows the fingered
// note nearest each node with the node's offset in cents.
type Chart struct {
	String      pitch.Pitch
	Regions     []int // defaults to the first octave
	MaxHarmonic int   // defaults to harmonics.DefaultMaxHarmonic
	Instrument  string
	NoteSpacing int
	Spelling    pitch.Spelling
	Tie         pitch.Tie
}

// Book is a LilyPond document holding several charts.
type Book struct {
	Charts       []Chart
	StaffSpacing int
	PageBreaks   bool   // start every score after the first on a new page
	Include      string // optional file included as front matter
}

// Write emits a complete document containing only this chart.
func (c Chart) Write(w io.Writer) error {
	return Book{Charts: []Chart{c}}.Write(w)
}

func (c Chart) withDefaults() Chart {
	if len(c.Regions) == 0 {
		c.Regions = []int{0}
	}
	if c.MaxHarmonic == 0 {
		c.MaxHarmonic = harmonics.DefaultMaxHarmonic
	}
	if c.NoteSpacing <= 0 {
		c.NoteSpacing = DefaultNoteSpacing
	}
	return c
}

// Write renders the whole book. Nothing is written if any chart is invalid.
func (b Book) Write(w io.Writer) error {
	if b.StaffSpacing <= 0 {
		b.StaffSpacing = DefaultStaffSpacing
	}

	var scores []string
	for _, c := range b.Charts {
		c = c.withDefaults()
		for _, r := range c.Regions {
			if r < 0 || r > maxRegion {
				return fmt.Errorf("region %d of %s string: %w", r, c.String, &harmonics.DomainError{
					Field: "region", Value: r, Reason: fmt.Sprintf("must be between 0 and %d", maxRegion),
				})
			}
			score, err := c.score(r)
			if err != nil {
				return fmt.Errorf("chart for %s string, %s octave: %w", c.String, pitch.Ordinal(r), err)
			}
			scores = append(scores, score)
		}
	}

	var out strings.Builder
	if b.Include != "" {
		fmt.Fprintf(&out, "\\include %q\n\n", b.Include)
	}
	out.WriteString(b.preamble())
	for i, score := range scores {
		if i > 0 {
			out.WriteString("\n" + strings.Repeat("%", 60) + "\n\n")
			if b.PageBreaks {
				out.WriteString("\\pageBreak\n\n")
			}
		}
		out.WriteString(score)
	}

	_, err := io.WriteString(w, out.String())
	return err
}

func (b Book) preamble() string {
	var s strings.Builder
	fmt.Fprintf(&s, "\\version %q\n", Version)
	s.WriteString("\\include \"english.ly\"\n")
	s.WriteString("\\header\n{\n")
	s.WriteString("  tagline = ##f\n")
	s.WriteString("  print-all-headers = ##t\n")
	s.WriteString("}\n")
	s.WriteString("#(set-default-paper-size \"letter\")\n")
	s.WriteString("\\paper\n{\n")
	fmt.Fprintf(&s, "  system-system-spacing = #'((basic-distance . 1) (padding . %d))\n", b.StaffSpacing)
	s.WriteString("  top-margin = 25\n")
	s.WriteString("  left-margin = 25\n")
	s.WriteString("  right-margin = 25\n")
	s.WriteString("  ragged-bottom = ##t\n")
	s.WriteString("  print-page-number = ##f\n")
	s.WriteString("}\n")
	s.WriteString("global =\n{\n")
	s.WriteString("  \\omit Score.TimeSignature\n")
	s.WriteString("}\n\n")
	return s.String()
}

// suffix names the music variables of one score. LilyPond identifiers are
// letters only, so the string octave and region are encoded as letters.
func (c Chart) suffix(region int) string {
	name := pitch.Spell(c.String, c.Spelling)
	return fmt.Sprintf("%s%c%c", name.Class(pitch.ASCII), 'a'+byte(mod(name.Octave+1, 26)), 'a'+byte(region))
}

func (c Chart) score(region int) (string, error) {
	rows, err := harmonics.HarmonicsTableInRegion(c.String, c.MaxHarmonic, region, c.Tie)
	if err != nil {
		return "", err
	}

	var harm, fing strings.Builder
	hPrev, fPrev := -1, -1
	for _, row := range rows {
		hNote := FormatPitch(row.Sounding.Pitch, c.Spelling)
		hClef, hOttava := NoteInStaff(row.Sounding.Pitch, c.Spelling)

		for i, node := range row.Nodes {
			if i == 0 {
				ottava := ""
				if hOttava != hPrev {
					ottava = fmt.Sprintf(" \\ottava #%d", hOttava)
					hPrev = hOttava
				}
				fmt.Fprintf(&harm, "  %% %d\n\\bar \"|\"\n", row.Harmonic)
				harm.WriteString(" \\cadenzaOn\n")
				fing.WriteString(" \\cadenzaOn\n")
				fmt.Fprintf(&harm, "  \\clef %q%s %s\\harmonic_\\markup{%q}^\\markup{ \\raise #3 {\"x%d\"} }\n",
					hClef, ottava, hNote, pitch.Signed(row.Sounding.RoundedCents()), row.Harmonic)
			} else {
				fmt.Fprintf(&harm, "  \\clef %q %s\\harmonic\n", hClef, hNote)
			}

			fNote := FormatPitch(node.Match.Pitch, c.Spelling)
			fClef, fOttava := NoteInStaff(node.Match.Pitch, c.Spelling)
			ottava := ""
			if fOttava != fPrev {
				ottava = fmt.Sprintf(" \\ottava #%d", fOttava)
				fPrev = fOttava
			}
			fmt.Fprintf(&fing, "  \\clef %q%s %s_\\markup{%q}\n",
				fClef, ottava, fNote, pitch.Signed(node.Match.RoundedCents()))
		}
		harm.WriteString("  \\cadenzaOff\n")
		fing.WriteString("  \\cadenzaOff\n")
	}

	suff := c.suffix(region)
	stringName := pitch.Spell(c.String, c.Spelling).Class(pitch.Standard)
	piece := fmt.Sprintf("%s-string, %s octave", stringName, pitch.Ordinal(region))
	if c.Instrument != "" {
		piece = titleCase(c.Instrument) + " " + piece
	}

	var s strings.Builder
	fmt.Fprintf(&s, "pitches%s =\n{\n  \\global\n%s  \\bar \"|.\"\n}\n\n", suff, harm.String())
	fmt.Fprintf(&s, "locations%s =\n{\n  \\global\n%s  \\bar \"|.\"\n}\n\n", suff, fing.String())
	s.WriteString("\\score\n{\n")
	s.WriteString("  \\header\n  {\n")
	fmt.Fprintf(&s, "    piece = \\markup \\column { %q \\vspace #1 }\n", piece)
	s.WriteString("  }\n")
	s.WriteString("  \\new StaffGroup\n  <<\n")
	s.WriteString("    \\new Staff = \"pitch\" \\with { instrumentName = \"pitch\" }\n")
	fmt.Fprintf(&s, "    <<\n      \\new Voice = \"pitch\" { \\pitches%s }\n    >>\n", suff)
	s.WriteString("    \\new Staff = \"location\" \\with { instrumentName = \"location\" }\n")
	fmt.Fprintf(&s, "    << \\locations%s >>\n", suff)
	s.WriteString("  >>\n")
	s.WriteString("  \\layout\n  {\n")
	s.WriteString("    \\context {\n      \\StaffGroup\n      \\consists #Span_stem_engraver\n    }\n")
	s.WriteString("    \\context {\n      \\Score\n")
	fmt.Fprintf(&s, "      \\override SpacingSpanner.base-shortest-duration = #(ly:make-moment 1/%d)\n", c.NoteSpacing)
	s.WriteString("    }\n  }\n")
	s.WriteString("}\n")
	return s.String(), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
