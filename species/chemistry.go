package species

import "math/rand/v2"

// Successors builds a random bijection on [0, n) decomposed into disjoint cycles.
//
// A chain is opened at the lowest index without a successor. Each step draws
// uniformly over 1+len(remaining) choices: 0 closes the chain back onto its anchor
// (a 1-cycle when the chain is just the anchor), anything else extends the chain
// to that remaining index.
func Successors(n int, rng *rand.Rand) []int {
	succ := make([]int, n)
	if n == 0 {
		return succ
	}

	remaining := make([]int, n-1)
	for i := range remaining {
		remaining[i] = i + 1
	}
	anchor, end := 0, 0

	for {
		k := rng.IntN(len(remaining) + 1)
		if k == 0 {
			succ[end] = anchor
			if len(remaining) == 0 {
				return succ
			}
			anchor, end = remaining[0], remaining[0]
			remaining = remaining[1:]
			continue
		}

		next := remaining[k-1]
		// Keep remaining sorted so choice k maps to the k-th lowest index
		remaining = append(remaining[:k-1], remaining[k:]...)
		succ[end] = next
		end = next
	}
}

// RandomCatalysts draws a non-empty catalyst set over n species.
// Each entry is a fair coin; an all-false draw is discarded and redrawn whole.
func RandomCatalysts(n int, rng *rand.Rand) []bool {
	catalysts := make([]bool, n)
	for {
		found := false
		for i := range catalysts {
			catalysts[i] = rng.Uint64()&1 == 1
			found = found || catalysts[i]
		}
		if found {
			return catalysts
		}
	}
}

// Cycles splits a successor table into its cycles, each starting at its lowest index.
func Cycles(succ []int) [][]int {
	seen := make([]bool, len(succ))
	var cycles [][]int
	for start := range succ {
		if seen[start] {
			continue
		}
		var cycle []int
		for i := start; !seen[i]; i = succ[i] {
			seen[i] = true
			cycle = append(cycle, i)
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}
