// Package audio renders harmonic tones to WAV and detects the pitch of
// recorded notes.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

const (
	DefaultSampleRate = 44100
	bitDepth          = 16
	pcmFormat         = 1
	fadeTime          = 10 * time.Millisecond
)

type ToneConfig struct {
	SampleRate int
	Duration   time.Duration
	Amplitude  float64 // peak level in (0, 1]
}

func (c ToneConfig) withDefaults() ToneConfig {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Duration == 0 {
		c.Duration = 2 * time.Second
	}
	if c.Amplitude == 0 {
		c.Amplitude = 0.8
	}
	return c
}

// HarmonicHz returns the frequency of harmonic n of an open string.
func HarmonicHz(open pitch.Pitch, n int) float64 {
	return open.Hz() * float64(n)
}

// Synthesize returns mono samples in [-1, 1] of equal-amplitude sines at
// freqs, with short fades at both ends.
func Synthesize(freqs []float64, cfg ToneConfig) ([]float64, error) {
	cfg = cfg.withDefaults()
	if len(freqs) == 0 {
		return nil, errors.New("no frequencies to render")
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", cfg.SampleRate)
	}
	if cfg.Duration < 0 || cfg.Amplitude < 0 || cfg.Amplitude > 1 {
		return nil, fmt.Errorf("invalid tone duration %v or amplitude %v", cfg.Duration, cfg.Amplitude)
	}
	nyquist := float64(cfg.SampleRate) / 2
	for _, f := range freqs {
		if f <= 0 || f >= nyquist {
			return nil, fmt.Errorf("frequency %.2f Hz outside (0, %.0f) Hz", f, nyquist)
		}
	}

	n := int(cfg.Duration.Seconds() * float64(cfg.SampleRate))
	fade := int(fadeTime.Seconds() * float64(cfg.SampleRate))
	if fade > n/2 {
		fade = n / 2
	}

	scale := cfg.Amplitude / float64(len(freqs))
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / float64(cfg.SampleRate)
		var v float64
		for _, f := range freqs {
			v += math.Sin(2 * math.Pi * f * t)
		}
		gain := 1.0
		if i < fade {
			gain = float64(i) / float64(fade)
		} else if n-1-i < fade {
			gain = float64(n-1-i) / float64(fade)
		}
		samples[i] = v * scale * gain
	}
	return samples, nil
}

// RenderTone writes a 16-bit mono PCM WAV of summed sines at freqs.
func RenderTone(w io.WriteSeeker, freqs []float64, cfg ToneConfig) error {
	cfg = cfg.withDefaults()
	samples, err := Synthesize(freqs, cfg)
	if err != nil {
		return err
	}
	return WriteWav(w, samples, cfg.SampleRate)
}

// WriteWav encodes mono float samples in [-1, 1] as 16-bit PCM.
func WriteWav(w io.WriteSeeker, samples []float64, sampleRate int) error {
	const full = 1<<(bitDepth-1) - 1

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: bitDepth,
	}
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		buf.Data[i] = int(math.Round(s * full))
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, pcmFormat)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return nil
}
