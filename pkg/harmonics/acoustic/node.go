package acoustic

import (
	"math"
	"slices"
	"strconv"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
	"github.com/patrickmn/go-cache"
)

// Node is a touch point of one harmonic: the point k/N of the way from the
// nut to the bridge, mapped to the fingered note that would sound if the
// string were stopped there.
type Node struct {
	Harmonic int         `json:"harmonic"`
	Index    int         `json:"index"`
	Position float64     `json:"position"` // k/N, fraction of the string length from the nut
	Interval float64     `json:"interval"` // exact stopped interval above the open string, in semitones
	Steps    int         `json:"steps"`    // tempered semitones from the open string to Match.Pitch
	Match    pitch.Match `json:"match"`
	Region   int         `json:"region"`
}

// nodeSets memoises ValidNodes. Values depend on N alone and are never
// modified after Set, so a concurrent duplicate fill is harmless.
var nodeSets = cache.New(cache.NoExpiration, 0)

// ValidNodes returns, in ascending order, every k in [1, n-1] with
// gcd(k, n) = 1. Other multiples of 1/n are also nodes of the lower
// harmonic n/gcd(k, n), which is what touching there produces, so they
// are left out. The result is empty for n <= 1.
func ValidNodes(n int) []int {
	if n <= 1 {
		return []int{}
	}
	key := strconv.Itoa(n)
	if v, ok := nodeSets.Get(key); ok {
		return slices.Clone(v.([]int))
	}

	ks := make([]int, 0, n-1)
	for k := 1; k < n; k++ {
		if gcd(k, n) == 1 {
			ks = append(ks, k)
		}
	}
	nodeSets.Set(key, ks, cache.NoExpiration)
	return slices.Clone(ks)
}

// IsValidNode reports whether k/n is a node that sounds harmonic n.
func IsValidNode(k, n int) bool {
	return n >= 2 && k >= 1 && k < n && gcd(k, n) == 1
}

// NodeStoppedInterval returns the interval, in semitones, produced by
// stopping the string at k/n of its length: 12*log2(n/(n-k)). It grows
// strictly with k and is always positive.
func NodeStoppedInterval(k, n int) (float64, error) {
	if err := CheckHarmonic(n); err != nil {
		return 0, err
	}
	if k < 1 || k >= n {
		return 0, &DomainError{Field: "node", Value: k, Reason: "must lie in [1, " + strconv.Itoa(n-1) + "]"}
	}
	return 12 * math.Log2(float64(n)/float64(n-k)), nil
}

// NodePosition maps node k of harmonic n on the given open string to its
// nearest fingered note.
func NodePosition(open pitch.Pitch, k, n int, tie pitch.Tie) (Node, error) {
	if err := CheckOpenString(open); err != nil {
		return Node{}, err
	}
	interval, err := NodeStoppedInterval(k, n)
	if err != nil {
		return Node{}, err
	}
	m := pitch.Nearest(float64(open)+interval, tie)
	return Node{
		Harmonic: n,
		Index:    k,
		Position: float64(k) / float64(n),
		Interval: interval,
		Steps:    int(m.Pitch - open),
		Match:    m,
		Region:   RegionOf(k, n),
	}, nil
}

// Nodes returns every valid node of harmonic n, ascending by k.
func Nodes(open pitch.Pitch, n int, tie pitch.Tie) ([]Node, error) {
	if err := CheckHarmonic(n); err != nil {
		return nil, err
	}
	if err := CheckOpenString(open); err != nil {
		return nil, err
	}
	ks := ValidNodes(n)
	nodes := make([]Node, 0, len(ks))
	for _, k := range ks {
		node, err := NodePosition(open, k, n, tie)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
