package filter

import "math"

// Test helper functions shared across filter tests.

// approxEqual compares two floats with tolerance.
func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// solidRow returns a row of n copies of one RGBA pixel.
func solidRow(n int, r, g, b, a uint8) []uint8 {
	row := make([]uint8, 0, n*4)
	for range n {
		row = append(row, r, g, b, a)
	}
	return row
}
