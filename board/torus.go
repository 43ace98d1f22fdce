package board

import "math"

// wrapIndex maps i onto [0, n).
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

// wrapAxis folds a local coordinate back into [0, extent) and returns how many
// cells it moved. A single crossing subtracts or adds exactly one extent.
func wrapAxis(x, extent float64) (float64, int) {
	if x >= 0 && x < extent {
		return x, 0
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, 0
	}

	shift := 0
	if x >= extent && x < 2*extent {
		x -= extent
		shift = 1
	} else if x < 0 && x >= -extent {
		x += extent
		shift = -1
	} else {
		f := math.Floor(x / extent)
		x -= f * extent
		shift = int(f)
	}

	// Rounding can land exactly on an edge
	for x < 0 {
		x += extent
		shift--
	}
	for x >= extent {
		x -= extent
		shift++
	}
	return x, shift
}
