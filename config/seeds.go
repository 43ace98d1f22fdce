package config

import (
	"math/rand/v2"
	"time"
)

// Seeds holds the resolved RNG seeds of a run.
type Seeds struct {
	Color        uint64 `yaml:"color" json:"color"`
	Rule         uint64 `yaml:"rule" json:"rule"`
	InitialState uint64 `yaml:"initial_state" json:"initial_state"`
}

// ResolveSeeds fills every unset seed from a time-seeded generator and returns the
// full set. The config is updated in place so a snapshot reproduces the run.
func (c *Config) ResolveSeeds() Seeds {
	now := uint64(time.Now().UnixNano())
	rng := rand.New(rand.NewPCG(now, now>>17))

	fill := func(p **uint64) uint64 {
		if *p == nil {
			v := rng.Uint64()
			*p = &v
		}
		return **p
	}

	return Seeds{
		Color:        fill(&c.Seeds.Color),
		Rule:         fill(&c.Seeds.Rule),
		InitialState: fill(&c.Seeds.InitialState),
	}
}

// SetSeed overrides a seed pointer with v. Used for CLI overrides.
func SetSeed(p **uint64, v uint64) {
	*p = &v
}
