package harmonics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/acoustic"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

// Validate rejects open strings at or below C0.
func (t Tuning) Validate() error {
	for i, open := range t {
		if err := acoustic.CheckOpenString(open); err != nil {
			return fmt.Errorf("string %d: %w", i+1, err)
		}
	}
	return nil
}

// Names formats every open string.
func (t Tuning) Names(s pitch.Spelling) []string {
	names := make([]string, len(t))
	for i, p := range t {
		names[i] = pitch.Format(p, s)
	}
	return names
}

// ParseTuning reads open-string names, each of which must carry an octave.
func ParseTuning(names []string) (Tuning, error) {
	tuning := make(Tuning, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p, err := pitch.ParseAbsolute(name)
		if err != nil {
			return nil, err
		}
		tuning = append(tuning, p)
	}
	if len(tuning) == 0 {
		return nil, domainError("tuning", strings.Join(names, ","), "no open strings given")
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	return tuning, nil
}

// Open strings from the highest (string I) down.
var instruments = map[string][]string{
	"violin": {"E5", "A4", "D4", "G3"},
	"viola":  {"A4", "D4", "G3", "C3"},
	"cello":  {"A3", "D3", "G2", "C2"},
	"bass":   {"G2", "D2", "A1", "E1"},
	"guitar": {"E4", "B3", "G3", "D3", "A2", "E2"},
}

// Instrument returns the standard tuning of a named instrument, highest
// string first.
func Instrument(name string) (Tuning, error) {
	names, ok := instruments[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unrecognized instrument %q (known: %s)", name, strings.Join(InstrumentNames(), ", "))
	}
	return ParseTuning(names)
}

// InstrumentNames lists the instruments Instrument knows, sorted.
func InstrumentNames() []string {
	names := make([]string, 0, len(instruments))
	for name := range instruments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveTuning accepts either an instrument name or a comma-separated
// list of open strings.
func ResolveTuning(text string) (Tuning, error) {
	if _, ok := instruments[strings.ToLower(strings.TrimSpace(text))]; ok {
		return Instrument(text)
	}
	return ParseTuning(strings.Split(text, ","))
}
