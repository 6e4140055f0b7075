package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

func centsBetween(a, b float64) float64 {
	return 1200 * math.Log2(a/b)
}

func TestHamming(t *testing.T) {
	w := Hamming(1024)
	if len(w) != 1024 {
		t.Fatalf("Expected 1024 coefficients, got %d", len(w))
	}
	if math.Abs(w[0]-0.08) > 1e-9 || math.Abs(w[1023]-0.08) > 1e-9 {
		t.Errorf("Expected 0.08 at both ends, got %f and %f", w[0], w[1023])
	}
	if w[511] < 0.99 {
		t.Errorf("Expected a peak near 1 in the middle, got %f", w[511])
	}
}

func TestWindowSize(t *testing.T) {
	tests := map[int]int{1024: 1024, 2047: 1024, 44100: 32768, 1 << 20: MaxWindowSize}
	for n, want := range tests {
		if got := windowSize(n); got != want {
			t.Errorf("windowSize(%d) = %d, expected %d", n, got, want)
		}
	}
}

func TestDetectFrequency(t *testing.T) {
	for _, hz := range []float64{196, 220, 440, 987.77, 1100, 3520} {
		samples, err := Synthesize([]float64{hz}, ToneConfig{Duration: time.Second})
		if err != nil {
			t.Fatalf("Synthesize(%v) failed: %v", hz, err)
		}
		got, err := DetectFrequency(samples, DefaultSampleRate)
		if err != nil {
			t.Fatalf("DetectFrequency(%v) failed: %v", hz, err)
		}
		if c := centsBetween(got, hz); math.Abs(c) > 2 {
			t.Errorf("Detected %.3f Hz for %.3f Hz (%.2f cents off)", got, hz, c)
		}
	}
}

func TestDetectPitchOfFifthHarmonic(t *testing.T) {
	hz := HarmonicHz(pitch.MustParse("A3"), 5)
	if math.Abs(hz-1100) > 1e-9 {
		t.Fatalf("Expected 1100 Hz, got %f", hz)
	}

	samples, err := Synthesize([]float64{hz}, ToneConfig{Duration: time.Second})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	match, detected, err := DetectPitch(samples, DefaultSampleRate, pitch.TieDown)
	if err != nil {
		t.Fatalf("DetectPitch failed: %v", err)
	}
	if match.Pitch != pitch.MustParse("C#6") {
		t.Errorf("Expected C#6, got %s (%.2f Hz)", match.Pitch, detected)
	}
	if math.Abs(match.Cents-(-13.69)) > 1 {
		t.Errorf("Expected about -13.7 cents, got %.2f", match.Cents)
	}
}

func TestDetectFrequencyErrors(t *testing.T) {
	if _, err := DetectFrequency(make([]float64, 100), DefaultSampleRate); err == nil {
		t.Error("Expected an error for too few samples")
	}
	if _, err := DetectFrequency(make([]float64, 4096), 0); err == nil {
		t.Error("Expected an error for a zero sample rate")
	}
	if _, err := DetectFrequency(make([]float64, 4096), DefaultSampleRate); !errors.Is(err, ErrNoSignal) {
		t.Errorf("Expected ErrNoSignal for silence, got %v", err)
	}
}

func TestSynthesize(t *testing.T) {
	samples, err := Synthesize([]float64{220, 330, 440}, ToneConfig{Duration: 500 * time.Millisecond, Amplitude: 0.9})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(samples) != DefaultSampleRate/2 {
		t.Errorf("Expected %d samples, got %d", DefaultSampleRate/2, len(samples))
	}
	if samples[0] != 0 || samples[len(samples)-1] != 0 {
		t.Error("Expected the fades to start and end at zero")
	}
	for i, s := range samples {
		if math.Abs(s) > 0.9+1e-9 {
			t.Fatalf("Sample %d = %f exceeds the amplitude", i, s)
		}
	}

	bad := []struct {
		name  string
		freqs []float64
		cfg   ToneConfig
	}{
		{"no frequencies", nil, ToneConfig{}},
		{"above nyquist", []float64{30000}, ToneConfig{}},
		{"negative frequency", []float64{-440}, ToneConfig{}},
		{"amplitude above one", []float64{440}, ToneConfig{Amplitude: 1.5}},
	}
	for _, tt := range bad {
		if _, err := Synthesize(tt.freqs, tt.cfg); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestRenderToneRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a4.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	if err := RenderTone(f, []float64{pitch.A4.Hz()}, ToneConfig{Duration: time.Second}); err != nil {
		f.Close()
		t.Fatalf("RenderTone failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	samples, rate, err := ReadWavAsFloat64(path)
	if err != nil {
		t.Fatalf("ReadWavAsFloat64 failed: %v", err)
	}
	if rate != DefaultSampleRate {
		t.Errorf("Expected sample rate %d, got %d", DefaultSampleRate, rate)
	}
	if len(samples) != DefaultSampleRate {
		t.Errorf("Expected %d samples, got %d", DefaultSampleRate, len(samples))
	}
	for _, s := range samples {
		if s < -1 || s > 1 {
			t.Fatalf("Sample %f outside [-1, 1]", s)
		}
	}

	match, _, err := DetectPitch(samples, rate, pitch.TieDown)
	if err != nil {
		t.Fatalf("DetectPitch failed: %v", err)
	}
	if match.Pitch != pitch.A4 || math.Abs(match.Cents) > 2 {
		t.Errorf("Expected A4 within 2 cents, got %s %+.2f", match.Pitch, match.Cents)
	}
}

func TestReadWavInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.wav")
	if err := os.WriteFile(path, []byte("INVALID HEADER DATA"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, _, err := ReadWavAsFloat64(path); err == nil {
		t.Error("ReadWavAsFloat64 should fail on an invalid file")
	}
	if _, _, err := ReadWavAsFloat64(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("ReadWavAsFloat64 should fail on a missing file")
	}
}
