package acoustic

import "math"

// NoRegion is returned for positions off the playable string.
const NoRegion = -1

// ClassifyPositionRegion returns the 0-based fingering-position octave that
// a fractional string position x falls in: region r covers
// [1-2^-r, 1-2^-(r+1)), so region 0 is the first octave above the open
// string, region 1 the second, and so on. This is the octave, counted from
// the open string, of the pitch the string sounds when stopped at x.
func ClassifyPositionRegion(x float64) int {
	if math.IsNaN(x) || x < 0 || x >= 1 {
		return NoRegion
	}
	return int(math.Floor(-math.Log2(1 - x)))
}

// RegionOf is ClassifyPositionRegion(k/n) in exact integer arithmetic:
// the largest r with (n-k)*2^r <= n.
func RegionOf(k, n int) int {
	if n < 1 || k < 0 || k >= n {
		return NoRegion
	}
	d := n - k
	r := 0
	for d<<(r+1) <= n {
		r++
	}
	return r
}

// StoppedRegion classifies a stopped interval (semitones above the open
// string) by octave. It agrees with ClassifyPositionRegion for the
// position that produces the interval.
func StoppedRegion(interval float64) int {
	if math.IsNaN(interval) || interval < 0 {
		return NoRegion
	}
	return int(math.Floor(interval / 12))
}
