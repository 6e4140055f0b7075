package harmonics

import "github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"

// Service answers harmonic queries with a fixed configuration.
type Service interface {
	Table(open pitch.Pitch) ([]HarmonicRow, error)
	TableInRegion(open pitch.Pitch, region int) ([]HarmonicRow, error)
	Positions(tuning Tuning, target pitch.Pitch) ([]Position, error)
	PositionsWithin(tuning Tuning, target pitch.Pitch, toleranceCents float64) ([]Position, error)
	Fingerboard(open pitch.Pitch, regions []int) ([]RegionChart, error)
	Notes(notes []pitch.Pitch, tuning Tuning) ([]NoteChart, error)
	Format(p pitch.Pitch) string
	Config() Config
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
