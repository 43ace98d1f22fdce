package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/reactor/board"
)

// Census is the population of a board at one instant.
type Census struct {
	Particles      int
	InertParticles int // particles of species that never convert
	ActiveSpecies  int // species with at least one particle
	SpeciesCounts  []int

	// Speed distribution
	MeanSpeed float64
	SpeedP50  float64
	SpeedP90  float64
	MaxSpeed  float64

	Entropy       float64 // Shannon entropy of the species mix, in nats
	DominantShare float64 // share of the most common species
}

// TakeCensus samples every particle on the board.
func TakeCensus(b *board.Board) Census {
	types := b.Species()
	c := Census{SpeciesCounts: make([]int, len(types))}

	speeds := make([]float64, 0, b.Count())
	b.Each(func(v board.CellView) {
		for i := 0; i < v.Len(); i++ {
			p := v.At(i)
			c.SpeciesCounts[p.Species]++
			if types[p.Species].Conversion.Inert() {
				c.InertParticles++
			}
			speeds = append(speeds, r2.Norm(p.Vel))
		}
	})

	c.Particles = len(speeds)
	if c.Particles == 0 {
		return c
	}

	sort.Float64s(speeds)
	c.MeanSpeed = stat.Mean(speeds, nil)
	c.SpeedP50 = stat.Quantile(0.5, stat.Empirical, speeds, nil)
	c.SpeedP90 = stat.Quantile(0.9, stat.Empirical, speeds, nil)
	c.MaxSpeed = speeds[len(speeds)-1]

	shares := c.Shares()
	for _, n := range c.SpeciesCounts {
		if n > 0 {
			c.ActiveSpecies++
		}
	}
	c.Entropy = stat.Entropy(shares)
	c.DominantShare = floats.Max(shares)

	return c
}

// Shares returns each species' fraction of the population.
func (c Census) Shares() []float64 {
	shares := make([]float64, len(c.SpeciesCounts))
	if c.Particles == 0 {
		return shares
	}
	for s, n := range c.SpeciesCounts {
		shares[s] = float64(n)
	}
	floats.Scale(1/float64(c.Particles), shares)
	return shares
}

// SpeciesCountCSV is one row of the long-format species census.
type SpeciesCountCSV struct {
	WindowEnd uint64  `csv:"window_end"`
	Species   int     `csv:"species"`
	Count     int     `csv:"count"`
	Share     float64 `csv:"share"`
}

// SpeciesRecords returns one row per species.
func (c Census) SpeciesRecords(windowEnd uint64) []SpeciesCountCSV {
	shares := c.Shares()
	rows := make([]SpeciesCountCSV, len(c.SpeciesCounts))
	for s, n := range c.SpeciesCounts {
		rows[s] = SpeciesCountCSV{WindowEnd: windowEnd, Species: s, Count: n, Share: shares[s]}
	}
	return rows
}

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	// Population at window end
	Particles      int `csv:"particles"`
	InertParticles int `csv:"inert_particles"`
	ActiveSpecies  int `csv:"active_species"`

	// Events during window
	Contacts           int     `csv:"contacts"`
	Triggers           int     `csv:"triggers"`
	Conversions        int     `csv:"conversions"`
	Migrations         int     `csv:"migrations"`
	ConversionsPerTick float64 `csv:"conversions_per_tick"`

	// Motion (sampled at window end)
	MeanSpeed float64 `csv:"mean_speed"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	MaxSpeed  float64 `csv:"max_speed"`

	// Species mix
	Entropy       float64 `csv:"entropy"`
	DominantShare float64 `csv:"dominant_share"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Int("particles", s.Particles),
		slog.Int("inert_particles", s.InertParticles),
		slog.Int("active_species", s.ActiveSpecies),
		slog.Int("contacts", s.Contacts),
		slog.Int("triggers", s.Triggers),
		slog.Int("conversions", s.Conversions),
		slog.Int("migrations", s.Migrations),
		slog.Float64("conversions_per_tick", s.ConversionsPerTick),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("entropy", s.Entropy),
		slog.Float64("dominant_share", s.DominantShare),
	)
}
