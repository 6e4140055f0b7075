package harmonics

import (
	"fmt"
	"math"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
	"github.com/himanishpuri/StringHarmonics/pkg/logger"
)

// harmonicService is the default implementation of the Service interface.
// It holds configuration only; every call is a pure computation.
type harmonicService struct {
	log    Logger
	config *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	if err := checkMaxHarmonic(cfg.MaxHarmonic); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if math.IsNaN(cfg.Tolerance) || cfg.Tolerance < 0 {
		return nil, fmt.Errorf("invalid configuration: %w", domainError("tolerance", cfg.Tolerance, "must be a non-negative number of cents"))
	}

	return &harmonicService{
		log:    cfg.Logger,
		config: cfg,
	}, nil
}

func (s *harmonicService) Table(open pitch.Pitch) ([]HarmonicRow, error) {
	s.log.Debugf("Harmonics table: string=%s max=%d", s.Format(open), s.config.MaxHarmonic)
	rows, err := HarmonicsTable(open, s.config.MaxHarmonic, s.config.Tie)
	if err != nil {
		return nil, fmt.Errorf("harmonics table for %s: %w", s.Format(open), err)
	}
	return rows, nil
}

func (s *harmonicService) TableInRegion(open pitch.Pitch, region int) ([]HarmonicRow, error) {
	s.log.Debugf("Harmonics table: string=%s region=%d max=%d", s.Format(open), region, s.config.MaxHarmonic)
	rows, err := HarmonicsTableInRegion(open, s.config.MaxHarmonic, region, s.config.Tie)
	if err != nil {
		return nil, fmt.Errorf("harmonics table for %s, %s octave: %w", s.Format(open), pitch.Ordinal(region), err)
	}
	return rows, nil
}

func (s *harmonicService) Positions(tuning Tuning, target pitch.Pitch) ([]Position, error) {
	return s.PositionsWithin(tuning, target, s.config.Tolerance)
}

func (s *harmonicService) PositionsWithin(tuning Tuning, target pitch.Pitch, toleranceCents float64) ([]Position, error) {
	positions, err := PositionsNearPitch(tuning, target, s.config.MaxHarmonic, toleranceCents, s.config.Tie)
	if err != nil {
		return nil, fmt.Errorf("positions for %s: %w", s.Format(target), err)
	}
	s.log.Debugf("Found %d positions for %s within %.1f cents", len(positions), s.Format(target), toleranceCents)
	return positions, nil
}

func (s *harmonicService) Fingerboard(open pitch.Pitch, regions []int) ([]RegionChart, error) {
	charts, err := FingerboardChart(open, regions, s.config.MaxHarmonic, s.config.Tie)
	if err != nil {
		return nil, fmt.Errorf("fingerboard chart for %s: %w", s.Format(open), err)
	}
	return charts, nil
}

func (s *harmonicService) Notes(notes []pitch.Pitch, tuning Tuning) ([]NoteChart, error) {
	charts, err := NotesChart(notes, tuning, s.config.MaxHarmonic, s.config.Tie)
	if err != nil {
		return nil, fmt.Errorf("notes chart: %w", err)
	}
	for _, c := range charts {
		if len(c.Positions) == 0 {
			s.log.Warnf("No harmonic fingering of %s up to harmonic %d", s.Format(c.Note), s.config.MaxHarmonic)
		}
	}
	return charts, nil
}

// Format spells p with the configured spelling.
func (s *harmonicService) Format(p pitch.Pitch) string {
	return pitch.Format(p, s.config.Spelling)
}

func (s *harmonicService) Config() Config {
	return *s.config
}
