// Package lilypond engraves harmonic fingering charts as LilyPond source.
package lilypond

import (
	"strings"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

// baseOctave is the scientific octave of LilyPond's unmarked "c".
const baseOctave = 3

// FormatPitch writes p in LilyPond english.ly notation: "c" is C3, each
// "'" raises an octave and each "," lowers one. Accidentals are "s" and
// "f".
func FormatPitch(p pitch.Pitch, s pitch.Spelling) string {
	name := pitch.Spell(p, s)
	var b strings.Builder
	b.WriteString(strings.ToLower(name.Class(pitch.ASCII)))
	if octave := name.Octave - baseOctave; octave >= 0 {
		b.WriteString(strings.Repeat("'", octave))
	} else {
		b.WriteString(strings.Repeat(",", -octave))
	}
	return b.String()
}

// ParsePitch reads a LilyPond note name such as "bf''", "fs" or "c,,".
func ParsePitch(text string) (pitch.Pitch, error) {
	fail := func(reason string) (pitch.Pitch, error) {
		return 0, &pitch.ParseError{Input: text, Reason: reason}
	}

	s := strings.TrimSpace(text)
	if s == "" {
		return fail("empty note name")
	}
	letter := s[0]
	if letter < 'a' || letter > 'g' {
		return fail("note name must start with a lower-case letter a-g")
	}
	s = s[1:]

	sharps := len(s) - len(strings.TrimLeft(s, "s"))
	s = s[sharps:]
	flats := len(s) - len(strings.TrimLeft(s, "f"))
	s = s[flats:]
	if sharps > 0 && flats > 0 {
		return fail("sharps and flats cannot be mixed")
	}
	if sharps > 2 || flats > 2 {
		return fail("at most two accidentals are allowed")
	}

	up := strings.Count(s, "'")
	down := strings.Count(s, ",")
	if up+down != len(s) {
		return fail("unexpected characters after the note name")
	}
	if up > 0 && down > 0 {
		return fail("octave marks cannot mix ' and ,")
	}

	p, err := pitch.New(letter, sharps-flats, baseOctave+up-down)
	if err != nil {
		return 0, err
	}
	if p < pitch.MinPitch || p > pitch.MaxPitch {
		return fail("pitch out of range c,,,, to b'''''''")
	}
	return p, nil
}

// Clefs used by NoteInStaff, lowest first.
const (
	ClefBass   = "bass"
	ClefTenor  = "tenor"
	ClefTreble = "treble"
)

var (
	bassTop   = pitch.MustParse("C4")
	tenorTop  = pitch.MustParse("G4")
	trebleTop = pitch.MustParse("C6")
)

// NoteInStaff picks a clef, and for notes above C6 an ottava, that shows
// p as spelled by s without ledger lines. The accidental is ignored, so
// B#3 reads as B3 in the bass clef.
func NoteInStaff(p pitch.Pitch, s pitch.Spelling) (clef string, ottava int) {
	name := pitch.Spell(p, s)
	name.Accidental = 0
	natural := name.Pitch()

	switch {
	case natural <= bassTop:
		return ClefBass, 0
	case natural <= tenorTop:
		return ClefTenor, 0
	case natural <= trebleTop:
		return ClefTreble, 0
	}
	return ClefTreble, int(natural-trebleTop)/12 + 1
}
