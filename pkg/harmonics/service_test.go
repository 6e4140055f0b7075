package harmonics

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) record(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debugf(format string, args ...any) { l.record("DEBUG", format, args...) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.record("INFO", format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.record("WARN", format, args...) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.record("ERROR", format, args...) }

func (l *recordingLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func setupService(t *testing.T, opts ...Option) (Service, *recordingLogger) {
	t.Helper()
	log := &recordingLogger{}
	svc, err := NewService(append([]Option{WithLogger(log)}, opts...)...)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return svc, log
}

func TestNewServiceDefaults(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	cfg := svc.Config()
	if cfg.MaxHarmonic != DefaultMaxHarmonic {
		t.Errorf("Expected max harmonic %d, got %d", DefaultMaxHarmonic, cfg.MaxHarmonic)
	}
	if cfg.Tolerance != 50 {
		t.Errorf("Expected tolerance 50, got %v", cfg.Tolerance)
	}
	if cfg.Tie != pitch.TieDown {
		t.Errorf("Expected TieDown, got %v", cfg.Tie)
	}
	if cfg.Logger == nil {
		t.Error("Expected a default logger")
	}
}

func TestNewServiceInvalidConfig(t *testing.T) {
	if _, err := NewService(WithMaxHarmonic(1)); !errors.Is(err, ErrDomain) {
		t.Errorf("Expected ErrDomain for max harmonic 1, got %v", err)
	}
	if _, err := NewService(WithTolerance(-5)); !errors.Is(err, ErrDomain) {
		t.Errorf("Expected ErrDomain for negative tolerance, got %v", err)
	}
	if _, err := NewService(WithTolerance(math.NaN())); !errors.Is(err, ErrDomain) {
		t.Errorf("Expected ErrDomain for NaN tolerance, got %v", err)
	}
	if _, err := NewService(WithMaxHarmonic(MaxHarmonicLimit + 1)); !errors.Is(err, ErrDomain) {
		t.Errorf("Expected ErrDomain for max harmonic above the limit, got %v", err)
	}
}

func TestServiceTable(t *testing.T) {
	svc, log := setupService(t, WithMaxHarmonic(8))

	rows, err := svc.Table(pitch.MustParse("A3"))
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	if len(rows) != 7 {
		t.Errorf("Expected 7 rows, got %d", len(rows))
	}
	if !log.contains("string=A3") {
		t.Error("Expected the table query to be logged")
	}

	inRegion, err := svc.TableInRegion(pitch.MustParse("A3"), 1)
	if err != nil {
		t.Fatalf("TableInRegion failed: %v", err)
	}
	if len(inRegion) != 5 {
		t.Errorf("Expected 5 rows in the 2nd octave, got %d", len(inRegion))
	}

	_, err = svc.Table(0)
	if !errors.Is(err, ErrDomain) {
		t.Fatalf("Expected ErrDomain, got %v", err)
	}
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("Expected a *DomainError in %v", err)
	}
}

func TestServicePositions(t *testing.T) {
	svc, _ := setupService(t)
	cello, err := Instrument("cello")
	if err != nil {
		t.Fatalf("Instrument failed: %v", err)
	}

	positions, err := svc.Positions(cello, pitch.MustParse("D5"))
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if len(positions) != 10 {
		t.Errorf("Expected 10 positions, got %d", len(positions))
	}

	exact, err := svc.PositionsWithin(cello, pitch.MustParse("D5"), 0)
	if err != nil {
		t.Fatalf("PositionsWithin failed: %v", err)
	}
	if len(exact) != 2 || exact[0].Harmonic != 4 {
		t.Errorf("Expected the two nodes of harmonic 4 on D3, got %+v", exact)
	}
}

func TestServiceNotesWarnsOnUnplayable(t *testing.T) {
	svc, log := setupService(t)
	cello, _ := Instrument("cello")

	charts, err := svc.Notes([]pitch.Pitch{pitch.MustParse("C#2")}, cello)
	if err != nil {
		t.Fatalf("Notes failed: %v", err)
	}
	if len(charts) != 1 || len(charts[0].Positions) != 0 {
		t.Errorf("Expected one empty chart, got %+v", charts)
	}
	if !log.contains("WARN No harmonic fingering of C#2") {
		t.Errorf("Expected a warning, got %v", log.lines)
	}
}

func TestServiceFormatUsesSpelling(t *testing.T) {
	svc, _ := setupService(t, WithSpelling(pitch.Flat))
	if got := svc.Format(pitch.MustParse("C#4")); got != "Db4" {
		t.Errorf("Expected Db4, got %s", got)
	}

	charts, err := svc.Fingerboard(pitch.MustParse("D4"), []int{0, 1})
	if err != nil {
		t.Fatalf("Fingerboard failed: %v", err)
	}
	if len(charts) != 2 || charts[1].Region != 1 {
		t.Errorf("Unexpected fingerboard charts %+v", charts)
	}
}
