// Package acoustic computes where natural harmonics sound and where their
// nodes lie on a string, in tempered semitones relative to the open string.
package acoustic

import (
	"math"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

// HarmonicInterval returns the exact interval, in semitones, between the
// open string and its nth harmonic: 12*log2(n). The first harmonic is the
// open string itself, so HarmonicInterval(1) is 0.
func HarmonicInterval(n int) (float64, error) {
	if n < 1 {
		return 0, &DomainError{Field: "harmonic", Value: n, Reason: "must be a positive integer"}
	}
	return 12 * math.Log2(float64(n)), nil
}

// SoundingPitch returns the tempered pitch closest to the nth harmonic of
// the open string, with the harmonic's deviation from it in cents.
func SoundingPitch(open pitch.Pitch, n int, tie pitch.Tie) (pitch.Match, error) {
	if err := CheckHarmonic(n); err != nil {
		return pitch.Match{}, err
	}
	if err := CheckOpenString(open); err != nil {
		return pitch.Match{}, err
	}
	interval, _ := HarmonicInterval(n)
	return pitch.Nearest(float64(open)+interval, tie), nil
}

// CheckHarmonic rejects harmonic numbers below 2. Harmonic 1 is the open
// string and has no nodes.
func CheckHarmonic(n int) error {
	if n < 2 {
		return &DomainError{Field: "harmonic", Value: n, Reason: "must be at least 2"}
	}
	return nil
}

// CheckOpenString rejects open-string pitches at or below C0.
func CheckOpenString(open pitch.Pitch) error {
	if open <= 0 {
		return &DomainError{Field: "open string", Value: int(open), Reason: "must be above C0"}
	}
	return nil
}
