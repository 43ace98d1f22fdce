// Package species generates the per-species interaction rules: pairwise force
// profiles and the optional conversion chemistry.
package species

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
)

// Conversion describes what a species turns into when catalyzed.
// The zero value is inert.
type Conversion struct {
	Converts  bool
	Target    int
	Catalysts []bool // indexed by catalyst species; nil when inert
}

// Inert reports whether the species never converts.
func (c Conversion) Inert() bool {
	return !c.Converts
}

// CatalyzedBy reports whether contact with species s triggers the conversion.
func (c Conversion) CatalyzedBy(s int) bool {
	return c.Converts && c.Catalysts[s]
}

// Type is one species. Types are immutable once generated.
type Type struct {
	Color      color.RGBA
	Profiles   []Profile // indexed by the other particle's species
	Conversion Conversion
}

// Params controls rule generation.
type Params struct {
	Count         int
	MaxPullingAcc float64
	MaxPushingAcc float64
	MaxRadius     float64
	Chemistry     bool
}

func (p Params) validate() error {
	if p.Count < 1 {
		return fmt.Errorf("species count must be >= 1, got %d", p.Count)
	}
	for _, v := range []struct {
		name     string
		val      float64
		positive bool
	}{
		{"max pulling acceleration", p.MaxPullingAcc, false},
		{"max pushing acceleration", p.MaxPushingAcc, true},
		{"max radius", p.MaxRadius, true},
	} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return fmt.Errorf("%s must be finite, got %v", v.name, v.val)
		}
		if v.positive && v.val < 0 {
			return fmt.Errorf("%s must be non-negative, got %v", v.name, v.val)
		}
	}
	return nil
}

// Generate builds Count species from rng.
//
// The conversion graph and catalyst sets are always drawn first and only kept when
// Chemistry is set, so the force profiles for a given seed do not depend on it.
// Colors are left zero; see Paint.
func Generate(p Params, rng *rand.Rand) ([]Type, error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("generating species: %w", err)
	}

	succ := Successors(p.Count, rng)
	catalysts := make([][]bool, p.Count)
	for i, target := range succ {
		if target != i {
			catalysts[i] = RandomCatalysts(p.Count, rng)
		}
	}

	types := make([]Type, p.Count)
	for i := range types {
		if p.Chemistry && succ[i] != i {
			types[i].Conversion = Conversion{Converts: true, Target: succ[i], Catalysts: catalysts[i]}
		}

		profiles := make([]Profile, p.Count)
		for j := range profiles {
			profiles[j] = RandomProfile(rng, p.MaxPullingAcc, p.MaxPushingAcc, p.MaxRadius)
		}
		types[i].Profiles = profiles
	}

	return types, nil
}

// Paint assigns colors[i] to types[i].
func Paint(types []Type, colors []color.RGBA) error {
	if len(colors) != len(types) {
		return fmt.Errorf("painting species: %d colors for %d types", len(colors), len(types))
	}
	for i := range types {
		types[i].Color = colors[i]
	}
	return nil
}

// SuccessorTable returns the conversion target of every species, i for inert ones.
func SuccessorTable(types []Type) []int {
	succ := make([]int, len(types))
	for i, t := range types {
		succ[i] = i
		if t.Conversion.Converts {
			succ[i] = t.Conversion.Target
		}
	}
	return succ
}

// Summary describes the chemistry of a species set.
type Summary struct {
	Species      int     `yaml:"species"`
	Inert        int     `yaml:"inert"`
	Cycles       int     `yaml:"cycles"` // cycles of length >= 2
	LongestCycle int     `yaml:"longest_cycle"`
	MaxReach     float64 `yaml:"max_reach"` // largest distance at which any profile is non-zero
}

// Summarize computes the chemistry summary of types.
func Summarize(types []Type) Summary {
	s := Summary{Species: len(types)}
	for _, cycle := range Cycles(SuccessorTable(types)) {
		if len(cycle) == 1 {
			s.Inert++
			continue
		}
		s.Cycles++
		s.LongestCycle = max(s.LongestCycle, len(cycle))
	}
	for _, t := range types {
		for _, p := range t.Profiles {
			s.MaxReach = max(s.MaxReach, p.Reach())
		}
	}
	return s
}
