package pitch

import (
	"fmt"
	"strconv"
)

var intervalNames = [12]string{"", "m2", "M2", "m3", "M3", "P4", "d5", "P5", "m6", "M6", "m7", "M7"}

// Interval names an ascending interval of n semitones: "m3", "P5", and
// "M3+1" for a major third plus one octave. Whole octaves are "+k".
func Interval(n int) string {
	s := intervalNames[mod(n, 12)]
	if octaves := floorDiv(n, 12); octaves > 0 {
		s += fmt.Sprintf("+%d", octaves)
	}
	return s
}

// Ordinal returns the English ordinal for a 0-based index: 0 is "1st".
func Ordinal(n int) string {
	n1 := n + 1
	suffix := "th"
	if n1%100 < 11 || n1%100 > 13 {
		switch n1 % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n1) + suffix
}

// Signed formats n with an explicit sign: "+0", "+2", "-14".
func Signed(n int) string {
	if n < 0 {
		return strconv.Itoa(n)
	}
	return "+" + strconv.Itoa(n)
}
