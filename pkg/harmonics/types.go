package harmonics

import (
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/acoustic"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

// NoRegion selects every fingering-position octave.
const NoRegion = acoustic.NoRegion

// Node is a valid touch point of a harmonic, mapped to its nearest
// fingered note.
type Node = acoustic.Node

// Tuning lists the open-string pitches of an instrument in the caller's
// order. String index 0 is the first entry.
type Tuning []pitch.Pitch

// HarmonicRow describes harmonic N on one open string.
type HarmonicRow struct {
	Harmonic int         `json:"harmonic"`
	Interval float64     `json:"interval"` // exact semitones above the open string
	Steps    int         `json:"steps"`    // tempered semitones from the open string to Sounding.Pitch
	Sounding pitch.Match `json:"sounding"`
	Nodes    []Node      `json:"nodes"`
}

// Position is one way to play a target pitch as a natural harmonic.
type Position struct {
	String   int         `json:"string"` // index into the tuning
	Open     pitch.Pitch `json:"open"`
	Harmonic int         `json:"harmonic"`
	Sounding pitch.Match `json:"sounding"` // the harmonic's pitch and deviation from the target
	Node     Node        `json:"node"`
}

// ChartEntry places one node on a fingerboard chart, alongside the pitch
// of the harmonic it produces.
type ChartEntry struct {
	Harmonic int         `json:"harmonic"`
	Sounding pitch.Match `json:"sounding"`
	Node     Node        `json:"node"`
}

// RegionChart holds every node that falls in one fingering-position
// octave of a string, ordered up the fingerboard.
type RegionChart struct {
	Region  int          `json:"region"`
	Entries []ChartEntry `json:"entries"`
}

// NoteChart lists every harmonic fingering of one target note, nearest
// the nut first.
type NoteChart struct {
	Note      pitch.Pitch `json:"note"`
	Positions []Position  `json:"positions"`
}
