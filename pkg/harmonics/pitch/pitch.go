// Package pitch models tempered (12-TET) pitches as integer semitone
// offsets from C0 and converts between those offsets and note names in
// Scientific Pitch Notation.
package pitch

import (
	"math"
	"strconv"
	"strings"
)

// Pitch is a tempered pitch, counted in semitones above C0.
// Middle C (C4) is 48 and concert A (A4) is 57.
type Pitch int

const (
	C0      Pitch = 0
	MiddleC Pitch = 48
	A4      Pitch = 57

	// A4Hz is the reference frequency of A4.
	A4Hz = 440.0

	// MinOctave and MaxOctave bound the octaves of parsed pitches.
	MinOctave = -1
	MaxOctave = 10

	// MinPitch (C-1) and MaxPitch (B10) bound the pitches accepted by
	// Parse. An enharmonic spelling may carry an octave number one past
	// either bound ("B#-2", "Cb11") as long as its pitch stays inside.
	MinPitch Pitch = 12 * MinOctave
	MaxPitch Pitch = 12*MaxOctave + 11
)

// letterBase returns the semitone offset of a natural note within its octave.
func letterBase(letter byte) (int, bool) {
	switch letter {
	case 'C':
		return 0, true
	case 'D':
		return 2, true
	case 'E':
		return 4, true
	case 'F':
		return 5, true
	case 'G':
		return 7, true
	case 'A':
		return 9, true
	case 'B':
		return 11, true
	}
	return 0, false
}

// naturalAt returns the letter whose natural falls on pitch class pc, if any.
func naturalAt(pc int) (byte, bool) {
	switch pc {
	case 0:
		return 'C', true
	case 2:
		return 'D', true
	case 4:
		return 'E', true
	case 5:
		return 'F', true
	case 7:
		return 'G', true
	case 9:
		return 'A', true
	case 11:
		return 'B', true
	}
	return 0, false
}

// New builds a pitch from a letter (A-G, either case), a signed accidental
// count (+1 sharp, -1 flat) and an octave number.
func New(letter byte, accidental, octave int) (Pitch, error) {
	base, ok := letterBase(upper(letter))
	if !ok {
		return 0, &ParseError{Input: string(letter), Reason: "unrecognized letter"}
	}
	return Pitch(base + accidental + 12*octave), nil
}

// Semitone returns the integer semitone value of p.
func Semitone(p Pitch) int {
	return int(p)
}

// Class returns the pitch class of p in [0, 12).
func (p Pitch) Class() int {
	return mod(int(p), 12)
}

// Octave returns the Scientific Pitch Notation octave that contains p.
func (p Pitch) Octave() int {
	return floorDiv(int(p), 12)
}

// Transpose returns p moved by n semitones.
func (p Pitch) Transpose(n int) Pitch {
	return p + Pitch(n)
}

// Hz returns the equal-tempered frequency of p.
func (p Pitch) Hz() float64 {
	return Hz(float64(p))
}

func (p Pitch) String() string {
	return Format(p, Fifths)
}

// Hz returns the frequency of a (possibly fractional) semitone value
// relative to A4 = 440 Hz.
func Hz(semitones float64) float64 {
	return A4Hz * math.Exp2((semitones-float64(A4))/12)
}

// FromHz returns the fractional semitone value of a frequency. The
// frequency must be positive.
func FromHz(freq float64) float64 {
	return float64(A4) + 12*math.Log2(freq/A4Hz)
}

// RelativeOctave returns the number of whole octaves from base up to p,
// rounding toward negative infinity.
func RelativeOctave(p, base Pitch) int {
	return floorDiv(int(p-base), 12)
}

// Parse reads a note name such as "C4", "fs3", "Eb", "Bbb2" or "G##5".
// Accidentals may be written '#'/'s' (sharp) or 'b'/'f' (flat) and may be
// doubled, but not mixed. Without an octave number the octave is 0, so
// the result is a pitch class counted from C.
func Parse(text string) (Pitch, error) {
	p, _, err := parse(text)
	return p, err
}

// ParseAbsolute is like Parse but requires an octave number.
func ParseAbsolute(text string) (Pitch, error) {
	p, hasOctave, err := parse(text)
	if err != nil {
		return 0, err
	}
	if !hasOctave {
		return 0, &ParseError{Input: text, Reason: "missing octave number"}
	}
	return p, nil
}

// MustParse is Parse for static note names; it panics on error.
func MustParse(text string) Pitch {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

func parse(text string) (Pitch, bool, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false, &ParseError{Input: text, Reason: "empty note name"}
	}

	base, ok := letterBase(upper(s[0]))
	if !ok {
		return 0, false, &ParseError{Input: text, Reason: "unrecognized letter " + strconv.Quote(s[:1])}
	}

	i := 1
	sharps, flats := 0, 0
scan:
	for ; i < len(s); i++ {
		switch s[i] {
		case '#', 's':
			sharps++
		case 'b', 'f':
			flats++
		default:
			break scan
		}
	}
	if sharps > 0 && flats > 0 {
		return 0, false, &ParseError{Input: text, Reason: "mixed sharp and flat accidentals"}
	}
	if sharps > 2 || flats > 2 {
		return 0, false, &ParseError{Input: text, Reason: "more than two accidentals"}
	}

	rest := s[i:]
	if rest == "" {
		return Pitch(base + sharps - flats), false, nil
	}
	if !isDigit(rest[0]) && rest[0] != '-' {
		return 0, false, &ParseError{Input: text, Reason: "bad accidental " + strconv.Quote(rest)}
	}

	digits, sign := rest, 1
	if digits[0] == '-' {
		digits, sign = digits[1:], -1
	}
	if digits == "" {
		return 0, false, &ParseError{Input: text, Reason: "bad octave " + strconv.Quote(rest)}
	}
	octave := 0
	for j := 0; j < len(digits); j++ {
		if !isDigit(digits[j]) {
			return 0, false, &ParseError{Input: text, Reason: "bad octave " + strconv.Quote(rest)}
		}
		octave = octave*10 + int(digits[j]-'0')
		if octave > MaxOctave+1 {
			return 0, false, &ParseError{Input: text, Reason: "octave out of range " + strconv.Quote(rest)}
		}
	}
	octave *= sign
	if octave < MinOctave-1 {
		return 0, false, &ParseError{Input: text, Reason: "octave out of range " + strconv.Quote(rest)}
	}

	p := Pitch(base + sharps - flats + 12*octave)
	if p < MinPitch || p > MaxPitch {
		return 0, false, &ParseError{Input: text, Reason: "pitch out of range C-1..B10"}
	}
	return p, true, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
