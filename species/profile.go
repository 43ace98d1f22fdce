package species

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Node count bounds for a generated profile (inclusive).
const (
	MinNodes = 2
	MaxNodes = 5
)

// Profile is a piecewise-linear radial acceleration curve for one ordered species pair.
//
// Control points are (0, Accels[0]) and (Radii[m-1], Accels[m]) for m >= 1, with the
// value after the last radius implicitly 0. len(Accels) == len(Radii) and Radii is
// sorted ascending. Positive values attract, negative values repel.
type Profile struct {
	Radii  []float64 `yaml:"radii"`
	Accels []float64 `yaml:"accels"`
}

// At evaluates the profile at distance d. Distances at or past the last radius yield 0.
func (p Profile) At(d float64) float64 {
	// First breakpoint strictly greater than d
	idx := sort.Search(len(p.Radii), func(i int) bool { return p.Radii[i] > d })
	if idx >= len(p.Radii) {
		return 0
	}

	left := 0.0
	if idx > 0 {
		left = p.Radii[idx-1]
	}
	right := p.Radii[idx]
	t := (d - left) / (right - left)

	accLeft := p.Accels[idx]
	accRight := 0.0
	if idx+1 < len(p.Accels) {
		accRight = p.Accels[idx+1]
	}

	return accLeft*(1-t) + accRight*t
}

// Reach returns the distance past which the profile is always 0.
func (p Profile) Reach() float64 {
	if len(p.Radii) == 0 {
		return 0
	}
	return p.Radii[len(p.Radii)-1]
}

// RandomProfile draws a profile with 2..5 nodes.
// The first two accelerations are repulsive so every pair pushes apart near contact.
func RandomProfile(rng *rand.Rand, maxPullingAcc, maxPushingAcc, maxRadius float64) Profile {
	nodes := MinNodes + rng.IntN(MaxNodes-MinNodes+1)

	repel := distuv.Uniform{Min: -maxPushingAcc, Max: 0, Src: rng}
	free := distuv.Uniform{Min: -maxPushingAcc, Max: maxPullingAcc, Src: rng}
	radius := distuv.Uniform{Min: 0, Max: maxRadius, Src: rng}

	accels := make([]float64, nodes)
	accels[0] = repel.Rand()
	accels[1] = repel.Rand()
	for i := 2; i < nodes; i++ {
		accels[i] = free.Rand()
	}

	radii := make([]float64, nodes)
	for i := range radii {
		radii[i] = radius.Rand()
	}
	sort.Float64s(radii)

	return Profile{Radii: radii, Accels: accels}
}
