package config

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError collects multiple validation issues.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid config: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return "invalid config: " + e.Issues[0]
	}
	return "invalid config: " + strings.Join(e.Issues, "; ")
}

// Add records an issue.
func (e *ValidationError) Add(format string, args ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, args...))
}

// HasIssues reports whether any issue was recorded.
func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// Validate checks the values the simulation core consumes.
// Returns a *ValidationError listing every problem, or nil.
func (c *Config) Validate() error {
	err := &ValidationError{}

	if c.Species.TypeCount < 1 {
		err.Add("species.type_count must be >= 1, got %d", c.Species.TypeCount)
	}
	if c.Board.GridCols < 1 {
		err.Add("board.grid_cols must be >= 1, got %d", c.Board.GridCols)
	}
	if c.Board.GridRows < 1 {
		err.Add("board.grid_rows must be >= 1, got %d", c.Board.GridRows)
	}
	if c.Board.ParticleCount < 0 {
		err.Add("board.particle_count must be >= 0, got %d", c.Board.ParticleCount)
	}
	positive(err, "board.width", c.Board.Width)
	positive(err, "board.height", c.Board.Height)

	nonNegative(err, "physics.touching_pushing_acc", c.Physics.TouchingPushingAcc)
	nonNegative(err, "physics.resistance", c.Physics.Resistance)
	nonNegative(err, "physics.max_field_pushing_acc", c.Physics.MaxFieldPushingAcc)
	nonNegative(err, "physics.max_radius", c.Physics.MaxRadius)
	if !finite(c.Physics.MaxFieldPullingAcc) {
		err.Add("physics.max_field_pulling_acc must be finite, got %v", c.Physics.MaxFieldPullingAcc)
	}
	if c.Physics.Workers < 0 {
		err.Add("physics.workers must be >= 0, got %d", c.Physics.Workers)
	}

	switch c.Colors.Mode {
	case "", ColorModeProcedural:
	case ColorModePalette:
		if len(c.Colors.Palette) == 0 {
			err.Add("colors.palette must not be empty in palette mode")
		}
	default:
		err.Add("colors.mode must be %q or %q, got %q", ColorModeProcedural, ColorModePalette, c.Colors.Mode)
	}

	if c.Telemetry.StatsWindow < 0 {
		err.Add("telemetry.stats_window must be >= 0, got %d", c.Telemetry.StatsWindow)
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(err *ValidationError, name string, v float64) {
	if !finite(v) || v <= 0 {
		err.Add("%s must be a positive finite number, got %v", name, v)
	}
}

func nonNegative(err *ValidationError, name string, v float64) {
	if !finite(v) || v < 0 {
		err.Add("%s must be a non-negative finite number, got %v", name, v)
	}
}
