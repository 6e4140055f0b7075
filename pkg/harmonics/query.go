package harmonics

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/acoustic"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

// HarmonicsTable returns harmonics 2..maxN of the open string, each with
// its sounding pitch and its valid nodes. Rows ascend by harmonic number
// and nodes by k, which is also ascending position and stopped pitch.
func HarmonicsTable(open pitch.Pitch, maxN int, tie pitch.Tie) ([]HarmonicRow, error) {
	return harmonicsTable(open, maxN, acoustic.NoRegion, tie)
}

// HarmonicsTableInRegion is HarmonicsTable restricted to the nodes in one
// fingering-position octave. Harmonics with no node there are omitted.
func HarmonicsTableInRegion(open pitch.Pitch, maxN, region int, tie pitch.Tie) ([]HarmonicRow, error) {
	if region < 0 {
		return nil, domainError("region", region, "must not be negative")
	}
	return harmonicsTable(open, maxN, region, tie)
}

func harmonicsTable(open pitch.Pitch, maxN, region int, tie pitch.Tie) ([]HarmonicRow, error) {
	if err := checkMaxHarmonic(maxN); err != nil {
		return nil, err
	}
	if err := acoustic.CheckOpenString(open); err != nil {
		return nil, err
	}

	rows := make([]HarmonicRow, 0, maxN-1)
	for n := 2; n <= maxN; n++ {
		row, err := harmonicRow(open, n, tie)
		if err != nil {
			return nil, fmt.Errorf("harmonic %d: %w", n, err)
		}
		if region != acoustic.NoRegion {
			row.Nodes = slices.DeleteFunc(row.Nodes, func(node Node) bool {
				return node.Region != region
			})
			if len(row.Nodes) == 0 {
				continue
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func harmonicRow(open pitch.Pitch, n int, tie pitch.Tie) (HarmonicRow, error) {
	interval, err := acoustic.HarmonicInterval(n)
	if err != nil {
		return HarmonicRow{}, err
	}
	sounding, err := acoustic.SoundingPitch(open, n, tie)
	if err != nil {
		return HarmonicRow{}, err
	}
	nodes, err := acoustic.Nodes(open, n, tie)
	if err != nil {
		return HarmonicRow{}, err
	}
	return HarmonicRow{
		Harmonic: n,
		Interval: interval,
		Steps:    int(sounding.Pitch - open),
		Sounding: sounding,
		Nodes:    nodes,
	}, nil
}

// PositionsNearPitch finds every string, harmonic and node whose harmonic
// rounds to exactly the target pitch (letter-independent, octave included)
// and sounds within toleranceCents of it. Results are ordered by string
// index, then by the harmonic's |cents|, then by harmonic number, then by
// node.
func PositionsNearPitch(tuning Tuning, target pitch.Pitch, maxN int, toleranceCents float64, tie pitch.Tie) ([]Position, error) {
	if err := checkMaxHarmonic(maxN); err != nil {
		return nil, err
	}
	if math.IsNaN(toleranceCents) || toleranceCents < 0 {
		return nil, domainError("tolerance", toleranceCents, "must be a non-negative number of cents")
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}

	var positions []Position
	for si, open := range tuning {
		var group []Position
		for n := 2; n <= maxN; n++ {
			sounding, err := acoustic.SoundingPitch(open, n, tie)
			if err != nil {
				return nil, err
			}
			if sounding.Pitch != target || math.Abs(sounding.Cents) > toleranceCents {
				continue
			}
			nodes, err := acoustic.Nodes(open, n, tie)
			if err != nil {
				return nil, err
			}
			for _, node := range nodes {
				group = append(group, Position{
					String:   si,
					Open:     open,
					Harmonic: n,
					Sounding: sounding,
					Node:     node,
				})
			}
		}
		slices.SortStableFunc(group, func(a, b Position) int {
			return cmp.Or(
				cmp.Compare(math.Abs(a.Sounding.Cents), math.Abs(b.Sounding.Cents)),
				cmp.Compare(a.Harmonic, b.Harmonic),
				cmp.Compare(a.Node.Index, b.Node.Index),
			)
		})
		positions = append(positions, group...)
	}
	return positions, nil
}

// FingerboardChart lists, for each requested fingering-position octave of
// the open string, every node of harmonics 2..maxN that falls there,
// ordered by fingered note, then by deviation, then by harmonic number.
func FingerboardChart(open pitch.Pitch, regions []int, maxN int, tie pitch.Tie) ([]RegionChart, error) {
	for _, r := range regions {
		if r < 0 {
			return nil, domainError("region", r, "must not be negative")
		}
	}
	rows, err := HarmonicsTable(open, maxN, tie)
	if err != nil {
		return nil, err
	}

	charts := make([]RegionChart, 0, len(regions))
	for _, r := range regions {
		chart := RegionChart{Region: r, Entries: []ChartEntry{}}
		for _, row := range rows {
			for _, node := range row.Nodes {
				if node.Region != r {
					continue
				}
				chart.Entries = append(chart.Entries, ChartEntry{
					Harmonic: row.Harmonic,
					Sounding: row.Sounding,
					Node:     node,
				})
			}
		}
		slices.SortStableFunc(chart.Entries, func(a, b ChartEntry) int {
			return cmp.Or(
				cmp.Compare(a.Node.Steps, b.Node.Steps),
				cmp.Compare(a.Node.Match.Cents, b.Node.Match.Cents),
				cmp.Compare(a.Harmonic, b.Harmonic),
			)
		})
		charts = append(charts, chart)
	}
	return charts, nil
}

// NotesChart lists, for each note, every harmonic fingering of it on the
// tuning, nearest the nut first (fewest semitones above the open string),
// then by string index.
func NotesChart(notes []pitch.Pitch, tuning Tuning, maxN int, tie pitch.Tie) ([]NoteChart, error) {
	charts := make([]NoteChart, 0, len(notes))
	for _, note := range notes {
		positions, err := PositionsNearPitch(tuning, note, maxN, 50, tie)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(positions, func(a, b Position) int {
			return cmp.Or(
				cmp.Compare(a.Node.Steps, b.Node.Steps),
				cmp.Compare(a.String, b.String),
			)
		})
		if positions == nil {
			positions = []Position{}
		}
		charts = append(charts, NoteChart{Note: note, Positions: positions})
	}
	return charts, nil
}

func checkMaxHarmonic(maxN int) error {
	if maxN < 2 || maxN > MaxHarmonicLimit {
		return domainError("max harmonic", maxN, fmt.Sprintf("must be between 2 and %d", MaxHarmonicLimit))
	}
	return nil
}
