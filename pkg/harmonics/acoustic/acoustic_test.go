package acoustic

import (
	"errors"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

const floatTolerance = 1e-9

func TestHarmonicInterval(t *testing.T) {
	if got, err := HarmonicInterval(1); err != nil || got != 0 {
		t.Errorf("HarmonicInterval(1) = %f, %v; expected 0, nil", got, err)
	}
	if got, _ := HarmonicInterval(2); got != 12 {
		t.Errorf("HarmonicInterval(2) = %f, expected 12", got)
	}
	if got, _ := HarmonicInterval(4); got != 24 {
		t.Errorf("HarmonicInterval(4) = %f, expected 24", got)
	}

	prev := -1.0
	for n := 1; n <= 64; n++ {
		got, err := HarmonicInterval(n)
		if err != nil {
			t.Fatalf("HarmonicInterval(%d) failed: %v", n, err)
		}
		if got <= prev {
			t.Errorf("HarmonicInterval(%d) = %f is not above HarmonicInterval(%d) = %f", n, got, n-1, prev)
		}
		prev = got
	}

	for _, n := range []int{0, -3} {
		if _, err := HarmonicInterval(n); !errors.Is(err, ErrDomain) {
			t.Errorf("HarmonicInterval(%d): expected ErrDomain, got %v", n, err)
		}
	}
}

func TestHarmonicIntervalRounded(t *testing.T) {
	// Steps and cents relative to the open string.
	tests := []struct {
		n, steps, cents int
	}{
		{2, 12, 0},
		{3, 19, 2},
		{4, 24, 0},
		{5, 28, -14},
		{6, 31, 2},
		{7, 34, -31},
		{8, 36, 0},
		{9, 38, 4},
	}
	for _, tt := range tests {
		interval, _ := HarmonicInterval(tt.n)
		m := pitch.Nearest(interval, pitch.TieDown)
		if int(m.Pitch) != tt.steps || m.RoundedCents() != tt.cents {
			t.Errorf("harmonic %d: got (%d, %d), expected (%d, %d)", tt.n, m.Pitch, m.RoundedCents(), tt.steps, tt.cents)
		}
	}
}

func TestSoundingPitch(t *testing.T) {
	a3 := pitch.MustParse("A3")

	m, err := SoundingPitch(a3, 5, pitch.TieDown)
	if err != nil {
		t.Fatalf("SoundingPitch(A3, 5) failed: %v", err)
	}
	// Two octaves and a major third above A3.
	if m.Pitch != a3+28 {
		t.Errorf("SoundingPitch(A3, 5).Pitch = %d, expected %d", m.Pitch, a3+28)
	}
	if got := pitch.Format(m.Pitch, pitch.Sharp); got != "C#6" {
		t.Errorf("SoundingPitch(A3, 5) = %s, expected C#6", got)
	}
	if got := pitch.Format(m.Pitch, pitch.Flat); got != "Db6" {
		t.Errorf("SoundingPitch(A3, 5) flat spelling = %s, expected Db6", got)
	}
	want := 100 * (12*math.Log2(5) - 28)
	if math.Abs(m.Cents-want) > floatTolerance {
		t.Errorf("SoundingPitch(A3, 5).Cents = %f, expected %f", m.Cents, want)
	}
	if m.RoundedCents() != -14 {
		t.Errorf("SoundingPitch(A3, 5) rounded cents = %d, expected -14", m.RoundedCents())
	}

	for _, n := range []int{1, 0, -1} {
		if _, err := SoundingPitch(a3, n, pitch.TieDown); !errors.Is(err, ErrDomain) {
			t.Errorf("SoundingPitch(A3, %d): expected ErrDomain, got %v", n, err)
		}
	}
	if _, err := SoundingPitch(0, 3, pitch.TieDown); !errors.Is(err, ErrDomain) {
		t.Errorf("SoundingPitch(C0, 3): expected ErrDomain, got %v", err)
	}
	var de *DomainError
	if _, err := SoundingPitch(a3, 1, pitch.TieDown); !errors.As(err, &de) || de.Field != "harmonic" {
		t.Errorf("SoundingPitch(A3, 1) error = %v, expected harmonic DomainError", err)
	}
}

func TestValidNodes(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{1, []int{}},
		{0, []int{}},
		{2, []int{1}},
		{3, []int{1, 2}},
		{4, []int{1, 3}},
		{6, []int{1, 5}},
		{12, []int{1, 5, 7, 11}},
		{7, []int{1, 2, 3, 4, 5, 6}},
	}
	for _, tt := range tests {
		got := ValidNodes(tt.n)
		if !slices.Equal(got, tt.want) {
			t.Errorf("ValidNodes(%d) = %v, expected %v", tt.n, got, tt.want)
		}
	}
}

func TestValidNodesTotient(t *testing.T) {
	for n := 2; n <= 64; n++ {
		if got, want := len(ValidNodes(n)), totient(n); got != want {
			t.Errorf("len(ValidNodes(%d)) = %d, expected phi = %d", n, got, want)
		}
	}
}

func TestValidNodesMemoIsolation(t *testing.T) {
	first := ValidNodes(10)
	first[0] = 99
	second := ValidNodes(10)
	if second[0] != 1 {
		t.Errorf("mutating a returned slice changed the memo: %v", second)
	}
}

func TestValidNodesConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 2; n <= 40; n++ {
				if len(ValidNodes(n)) != totient(n) {
					t.Errorf("concurrent ValidNodes(%d) mismatch", n)
				}
			}
		}()
	}
	wg.Wait()
}

func TestNodeStoppedInterval(t *testing.T) {
	for n := 2; n <= 32; n++ {
		prev := 0.0
		for k := 1; k < n; k++ {
			got, err := NodeStoppedInterval(k, n)
			if err != nil {
				t.Fatalf("NodeStoppedInterval(%d, %d) failed: %v", k, n, err)
			}
			want := 12 * math.Log2(float64(n)/float64(n-k))
			if math.Abs(got-want) > floatTolerance {
				t.Errorf("NodeStoppedInterval(%d, %d) = %f, expected %f", k, n, got, want)
			}
			if got <= prev {
				t.Errorf("NodeStoppedInterval(%d, %d) = %f not above previous %f", k, n, got, prev)
			}
			prev = got
		}
	}

	bad := [][2]int{{0, 5}, {5, 5}, {6, 5}, {1, 1}, {-1, 4}}
	for _, kn := range bad {
		if _, err := NodeStoppedInterval(kn[0], kn[1]); !errors.Is(err, ErrDomain) {
			t.Errorf("NodeStoppedInterval(%d, %d): expected ErrDomain, got %v", kn[0], kn[1], err)
		}
	}
}

func TestNodesOfSmallHarmonics(t *testing.T) {
	// Relative to the open string: (k, steps, cents).
	tests := map[int][][3]int{
		2: {{1, 12, 0}},
		3: {{1, 7, 2}, {2, 19, 2}},
		4: {{1, 5, -2}, {3, 24, 0}},
	}
	open := pitch.MustParse("C2")
	for n, want := range tests {
		nodes, err := Nodes(open, n, pitch.TieDown)
		if err != nil {
			t.Fatalf("Nodes(%d) failed: %v", n, err)
		}
		if len(nodes) != len(want) {
			t.Fatalf("Nodes(%d) returned %d nodes, expected %d", n, len(nodes), len(want))
		}
		for i, w := range want {
			got := [3]int{nodes[i].Index, nodes[i].Steps, nodes[i].Match.RoundedCents()}
			if got != w {
				t.Errorf("Nodes(%d)[%d] = %v, expected %v", n, i, got, w)
			}
		}
	}
}

func TestNodePositionFifthHarmonic(t *testing.T) {
	a3 := pitch.MustParse("A3")

	node, err := NodePosition(a3, 1, 5, pitch.TieDown)
	if err != nil {
		t.Fatalf("NodePosition(A3, 1, 5) failed: %v", err)
	}

	exact := float64(a3) + 12*math.Log2(5.0/4.0)
	wantPitch := pitch.Pitch(math.Round(exact))
	wantCents := 100 * (exact - float64(wantPitch))

	if node.Match.Pitch != wantPitch {
		t.Errorf("node pitch = %s, expected %s", node.Match.Pitch, wantPitch)
	}
	if math.Abs(node.Match.Cents-wantCents) > floatTolerance {
		t.Errorf("node cents = %f, expected %f", node.Match.Cents, wantCents)
	}
	if node.Position != 0.2 {
		t.Errorf("node position = %f, expected 0.2", node.Position)
	}
	if node.Region != 0 {
		t.Errorf("node region = %d, expected 0", node.Region)
	}

	nodes, err := Nodes(a3, 5, pitch.TieDown)
	if err != nil {
		t.Fatalf("Nodes(A3, 5) failed: %v", err)
	}
	want := []struct {
		name   string
		cents  int
		region int
	}{
		{"C#4", -14, 0},
		{"F#4", -16, 0},
		{"C#5", -14, 1},
		{"C#6", -14, 2},
	}
	for i, w := range want {
		n := nodes[i]
		if got := pitch.Format(n.Match.Pitch, pitch.Fifths); got != w.name {
			t.Errorf("node %d pitch = %s, expected %s", n.Index, got, w.name)
		}
		if n.Match.RoundedCents() != w.cents {
			t.Errorf("node %d cents = %d, expected %d", n.Index, n.Match.RoundedCents(), w.cents)
		}
		if n.Region != w.region {
			t.Errorf("node %d region = %d, expected %d", n.Index, n.Region, w.region)
		}
	}
}

func TestNodesOrdering(t *testing.T) {
	open := pitch.MustParse("G2")
	for n := 2; n <= 32; n++ {
		nodes, err := Nodes(open, n, pitch.TieDown)
		if err != nil {
			t.Fatalf("Nodes(G2, %d) failed: %v", n, err)
		}
		for i := 1; i < len(nodes); i++ {
			if nodes[i].Index <= nodes[i-1].Index {
				t.Errorf("harmonic %d: k not ascending at %d", n, i)
			}
			if nodes[i].Position <= nodes[i-1].Position {
				t.Errorf("harmonic %d: position not ascending at %d", n, i)
			}
			if nodes[i].Match.Pitch < nodes[i-1].Match.Pitch {
				t.Errorf("harmonic %d: pitch descending at %d", n, i)
			}
		}
		for _, node := range nodes {
			if !(node.Match.Cents > -50 && node.Match.Cents <= 50) {
				t.Errorf("harmonic %d node %d cents %f out of range", n, node.Index, node.Match.Cents)
			}
			if !IsValidNode(node.Index, n) {
				t.Errorf("harmonic %d returned invalid node %d", n, node.Index)
			}
		}
	}
}

func TestNodesErrors(t *testing.T) {
	if _, err := Nodes(pitch.MustParse("A3"), 1, pitch.TieDown); !errors.Is(err, ErrDomain) {
		t.Errorf("Nodes(A3, 1): expected ErrDomain, got %v", err)
	}
	if _, err := Nodes(-5, 4, pitch.TieDown); !errors.Is(err, ErrDomain) {
		t.Errorf("Nodes(-5, 4): expected ErrDomain, got %v", err)
	}
	if _, err := NodePosition(0, 1, 4, pitch.TieDown); !errors.Is(err, ErrDomain) {
		t.Errorf("NodePosition(C0, 1, 4): expected ErrDomain, got %v", err)
	}
}

func TestRegions(t *testing.T) {
	tests := []struct {
		x    float64
		want int
	}{
		{0, 0},
		{0.2, 0},
		{0.4999, 0},
		{0.5, 1},
		{0.6, 1},
		{0.75, 2},
		{0.8, 2},
		{0.875, 3},
		{1, NoRegion},
		{-0.1, NoRegion},
		{math.NaN(), NoRegion},
	}
	for _, tt := range tests {
		if got := ClassifyPositionRegion(tt.x); got != tt.want {
			t.Errorf("ClassifyPositionRegion(%f) = %d, expected %d", tt.x, got, tt.want)
		}
	}

	for n := 2; n <= 64; n++ {
		for k := 1; k < n; k++ {
			exact := RegionOf(k, n)
			if got := ClassifyPositionRegion(float64(k) / float64(n)); got != exact {
				t.Errorf("ClassifyPositionRegion(%d/%d) = %d, RegionOf = %d", k, n, got, exact)
			}
			interval, _ := NodeStoppedInterval(k, n)
			if got := StoppedRegion(interval); got != exact {
				t.Errorf("StoppedRegion(%d/%d) = %d, RegionOf = %d", k, n, got, exact)
			}
		}
	}

	if RegionOf(5, 5) != NoRegion || RegionOf(-1, 5) != NoRegion {
		t.Error("RegionOf should reject positions off the string")
	}
}

// totient is Euler's phi by the product formula over prime factors.
func totient(n int) int {
	result := n
	m := n
	for p := 2; p*p <= m; p++ {
		if m%p == 0 {
			for m%p == 0 {
				m /= p
			}
			result -= result / p
		}
	}
	if m > 1 {
		result -= result / m
	}
	return result
}
