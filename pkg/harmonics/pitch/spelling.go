package pitch

import (
	"fmt"
	"strings"
)

type spellingKind int

const (
	fifthsKind spellingKind = iota
	fifthsEnharmonicKind
	sharpKind
	flatKind
	letterKind
)

// Spelling selects how a semitone value is named when more than one
// letter could name it. The same (pitch, spelling) pair always formats
// the same way.
type Spelling struct {
	kind   spellingKind
	letter byte
}

var (
	// Fifths picks, for a black key, the accidental that comes first in the
	// circle of fifths (F# C# G# D# A# E#, Bb Eb Ab Db Gb), sharps on ties:
	// C#, Eb, F#, G#, Bb.
	Fifths = Spelling{kind: fifthsKind}
	// FifthsEnharmonic is the opposite choice of Fifths: Db, D#, Gb, Ab, A#.
	FifthsEnharmonic = Spelling{kind: fifthsEnharmonicKind}
	Sharp            = Spelling{kind: sharpKind}
	Flat             = Spelling{kind: flatKind}
)

// Letter spells a pitch on the given diatonic letter, with up to two
// accidentals. When the letter is further than a double accidental away,
// Fifths is used instead.
func Letter(letter byte) Spelling {
	return Spelling{kind: letterKind, letter: upper(letter)}
}

// ParseSpelling reads a spelling name as used in configuration and query
// strings: "fifths", "enharmonic", "sharp", "flat", or a single letter A-G.
func ParseSpelling(s string) (Spelling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fifths", "default":
		return Fifths, nil
	case "enharmonic":
		return FifthsEnharmonic, nil
	case "sharp", "sharps":
		return Sharp, nil
	case "flat", "flats":
		return Flat, nil
	}
	if len(s) == 1 {
		if _, ok := letterBase(upper(s[0])); ok {
			return Letter(s[0]), nil
		}
	}
	return Fifths, fmt.Errorf("unknown spelling %q", s)
}

func (s Spelling) String() string {
	switch s.kind {
	case fifthsEnharmonicKind:
		return "enharmonic"
	case sharpKind:
		return "sharp"
	case flatKind:
		return "flat"
	case letterKind:
		return string(s.letter)
	default:
		return "fifths"
	}
}

// Symbols are the accidental strings used when rendering a Name.
type Symbols struct {
	Sharp string
	Flat  string
}

var (
	// Standard renders accidentals as '#' and 'b'.
	Standard = Symbols{Sharp: "#", Flat: "b"}
	// ASCII renders accidentals as 's' and 'f', the convention LilyPond's
	// english.ly uses.
	ASCII = Symbols{Sharp: "s", Flat: "f"}
)

// Name is one spelling of a pitch: a letter, a signed accidental count and
// the octave of the letter (so B#3 is the same pitch as C4).
type Name struct {
	Letter     byte
	Accidental int
	Octave     int
}

// Class renders the letter and accidentals without an octave.
func (n Name) Class(sym Symbols) string {
	var b strings.Builder
	b.WriteByte(n.Letter)
	for i := 0; i < n.Accidental; i++ {
		b.WriteString(sym.Sharp)
	}
	for i := 0; i > n.Accidental; i-- {
		b.WriteString(sym.Flat)
	}
	return b.String()
}

// Format renders the name with its octave number.
func (n Name) Format(sym Symbols) string {
	return fmt.Sprintf("%s%d", n.Class(sym), n.Octave)
}

func (n Name) String() string {
	return n.Format(Standard)
}

// Pitch returns the semitone value the name denotes.
func (n Name) Pitch() Pitch {
	base, _ := letterBase(n.Letter)
	return Pitch(base + n.Accidental + 12*n.Octave)
}

// Spell names p according to s.
func Spell(p Pitch, s Spelling) Name {
	n := int(p)

	if s.kind == letterKind {
		if name, ok := spellOnLetter(n, s.letter); ok {
			return name
		}
		s = Fifths
	}

	if letter, ok := naturalAt(mod(n, 12)); ok {
		return Name{Letter: letter, Octave: floorDiv(n, 12)}
	}

	// A black key always sits between two naturals.
	sharpLetter, _ := naturalAt(mod(n-1, 12))
	flatLetter, _ := naturalAt(mod(n+1, 12))
	sharpName := Name{Letter: sharpLetter, Accidental: 1, Octave: floorDiv(n-1, 12)}
	flatName := Name{Letter: flatLetter, Accidental: -1, Octave: floorDiv(n+1, 12)}

	var useFlat bool
	switch s.kind {
	case sharpKind:
		useFlat = false
	case flatKind:
		useFlat = true
	default:
		useFlat = strings.IndexByte("BEADG", flatLetter) < strings.IndexByte("FCGDAE", sharpLetter)
		if s.kind == fifthsEnharmonicKind {
			useFlat = !useFlat
		}
	}

	if useFlat {
		return flatName
	}
	return sharpName
}

func spellOnLetter(n int, letter byte) (Name, bool) {
	base, ok := letterBase(letter)
	if !ok {
		return Name{}, false
	}
	// Nearest octave of the natural letter to n.
	octave := floorDiv(n-base+6, 12)
	acc := n - base - 12*octave
	if acc < -2 || acc > 2 {
		return Name{}, false
	}
	return Name{Letter: letter, Accidental: acc, Octave: octave}, true
}

// Format returns the Scientific Pitch Notation name of p, e.g. "C#5".
func Format(p Pitch, s Spelling) string {
	return Spell(p, s).Format(Standard)
}

// FormatClass returns the name of p without an octave number, e.g. "Eb".
func FormatClass(p Pitch, s Spelling) string {
	return Spell(p, s).Class(Standard)
}

// FormatSymbols is Format with caller-chosen accidental symbols.
func FormatSymbols(p Pitch, s Spelling, sym Symbols) string {
	return Spell(p, s).Format(sym)
}
