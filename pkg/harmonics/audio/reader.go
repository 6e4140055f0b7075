package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

// ReadWavAsFloat64 reads a PCM WAV file and returns mono samples
// normalized to [-1, 1] together with the sample rate. Multi-channel
// audio is mixed down by averaging.
func ReadWavAsFloat64(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	return ReadWav(f)
}

func ReadWav(r io.ReadSeeker) ([]float64, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, errors.New("not a valid WAV file")
	}
	if dec.WavAudioFormat != pcmFormat {
		return nil, 0, fmt.Errorf("unsupported WAV audio format %d: only PCM supported", dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding PCM samples: %w", err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, 0, errors.New("WAV file has no channels")
	}
	depth := int(dec.BitDepth)
	if depth < 8 || depth > 32 {
		return nil, 0, fmt.Errorf("unsupported bits per sample: %d", depth)
	}
	scale := 1.0 / float64(int64(1)<<(depth-1))

	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		out[i] = sum / float64(channels) * scale
	}

	return out, int(dec.SampleRate), nil
}
