package telemetry

import "github.com/pthm-cable/reactor/board"

// Collector accumulates tick events within windows and produces WindowStats.
type Collector struct {
	windowTicks     uint64
	windowStartTick uint64
	totals          board.TickStats
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: uint64(windowTicks)}
}

// StartAt discards the current window and opens a new one at tick.
func (c *Collector) StartAt(tick uint64) {
	c.windowStartTick = tick
	c.totals = board.TickStats{}
}

// Record adds one tick's events to the current window.
func (c *Collector) Record(s board.TickStats) {
	c.totals.Add(s)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the window totals and census, then starts a
// new window at currentTick.
func (c *Collector) Flush(currentTick uint64, census Census) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Particles:      census.Particles,
		InertParticles: census.InertParticles,
		ActiveSpecies:  census.ActiveSpecies,

		Contacts:    c.totals.Contacts,
		Triggers:    c.totals.Triggers,
		Conversions: c.totals.Conversions,
		Migrations:  c.totals.Migrations,

		MeanSpeed: census.MeanSpeed,
		SpeedP50:  census.SpeedP50,
		SpeedP90:  census.SpeedP90,
		MaxSpeed:  census.MaxSpeed,

		Entropy:       census.Entropy,
		DominantShare: census.DominantShare,
	}
	if ticks := currentTick - c.windowStartTick; ticks > 0 {
		stats.ConversionsPerTick = float64(c.totals.Conversions) / float64(ticks)
	}

	c.windowStartTick = currentTick
	c.totals = board.TickStats{}

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 {
	return c.windowTicks
}
