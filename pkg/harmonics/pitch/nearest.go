package pitch

import "math"

// Tie decides which way a value exactly halfway between two tempered
// pitches is rounded.
type Tie int

const (
	// TieDown rounds a half step down, so the result reads +50 cents and
	// every deviation lies in (-50, +50].
	TieDown Tie = iota
	// TieUp rounds a half step up, so the result reads -50 cents and every
	// deviation lies in [-50, +50).
	TieUp
)

// tieEpsilon absorbs floating point noise from log2 when deciding whether
// a value sits on a half step.
const tieEpsilon = 1e-9

// ParseTie reads "down" or "up".
func ParseTie(s string) (Tie, bool) {
	switch s {
	case "", "down", "flat":
		return TieDown, true
	case "up", "sharp":
		return TieUp, true
	}
	return TieDown, false
}

func (t Tie) String() string {
	if t == TieUp {
		return "up"
	}
	return "down"
}

// Match is a tempered pitch together with the signed deviation, in cents,
// of an exact pitch from it. Positive cents means the exact pitch is sharp
// of Pitch.
type Match struct {
	Pitch Pitch   `json:"pitch"`
	Cents float64 `json:"cents"`
}

// RoundedCents returns Cents rounded to the nearest whole cent.
func (m Match) RoundedCents() int {
	return int(math.Round(m.Cents))
}

// Nearest rounds a fractional semitone value to the closest tempered pitch.
func Nearest(semitones float64, tie Tie) Match {
	lo := math.Floor(semitones)
	frac := semitones - lo

	if math.Abs(frac-0.5) <= tieEpsilon {
		if tie == TieUp {
			return Match{Pitch: Pitch(lo + 1), Cents: -50}
		}
		return Match{Pitch: Pitch(lo), Cents: 50}
	}

	n := lo
	if frac > 0.5 {
		n = lo + 1
	}
	cents := 100 * (semitones - n)
	if math.Abs(cents) < 100*tieEpsilon {
		cents = 0
	}
	return Match{Pitch: Pitch(n), Cents: cents}
}
