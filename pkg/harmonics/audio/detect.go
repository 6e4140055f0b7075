package audio

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

const (
	MinWindowSize = 1024
	MaxWindowSize = 1 << 16
	// MinFrequency excludes DC and sub-audio drift from peak picking.
	MinFrequency = 20.0
	silence      = 1e-6
)

var ErrNoSignal = errors.New("no pitched signal found")

func Hamming(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

func MagnitudeSpectrum(spectrum []complex128) []float64 {
	half := len(spectrum) / 2
	mag := make([]float64, half)
	for i := 0; i < half; i++ {
		mag[i] = cmplx.Abs(spectrum[i])
	}
	return mag
}

// windowSize is the largest power of two that fits in n samples, capped at
// MaxWindowSize.
func windowSize(n int) int {
	size := MinWindowSize
	for size*2 <= n && size*2 <= MaxWindowSize {
		size *= 2
	}
	return size
}

// DetectFrequency returns the frequency of the strongest spectral peak in
// the middle of samples. The peak bin is refined by parabolic
// interpolation of the log magnitudes around it.
func DetectFrequency(samples []float64, sampleRate int) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if len(samples) < MinWindowSize {
		return 0, fmt.Errorf("need at least %d samples, got %d", MinWindowSize, len(samples))
	}

	size := windowSize(len(samples))
	start := (len(samples) - size) / 2
	window := Hamming(size)
	frame := make([]float64, size)
	for i := range frame {
		frame[i] = samples[start+i] * window[i]
	}

	mag := MagnitudeSpectrum(fft.FFTReal(frame))
	binHz := float64(sampleRate) / float64(size)

	lo := int(math.Ceil(MinFrequency / binHz))
	if lo < 1 {
		lo = 1
	}
	peak := -1
	for k := lo; k < len(mag)-1; k++ {
		if peak < 0 || mag[k] > mag[peak] {
			peak = k
		}
	}
	if peak < 0 || mag[peak] < silence*float64(size) {
		return 0, ErrNoSignal
	}

	a := math.Log(mag[peak-1] + silence)
	b := math.Log(mag[peak] + silence)
	c := math.Log(mag[peak+1] + silence)
	offset := 0.0
	if d := a - 2*b + c; d != 0 {
		offset = 0.5 * (a - c) / d
	}
	return (float64(peak) + offset) * binHz, nil
}

// DetectPitch maps the strongest frequency in samples to the nearest
// tempered pitch.
func DetectPitch(samples []float64, sampleRate int, tie pitch.Tie) (pitch.Match, float64, error) {
	hz, err := DetectFrequency(samples, sampleRate)
	if err != nil {
		return pitch.Match{}, 0, err
	}
	return pitch.Nearest(pitch.FromHz(hz), tie), hz, nil
}
