// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Color modes.
const (
	ColorModeProcedural = "procedural"
	ColorModePalette    = "palette"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Board     BoardConfig     `yaml:"board"`
	Species   SpeciesConfig   `yaml:"species"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Colors    ColorsConfig    `yaml:"colors"`
	Seeds     SeedsConfig     `yaml:"seeds"`
	Run       RunConfig       `yaml:"run"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// BoardConfig holds world and grid dimensions.
// The world is split into GridCols x GridRows equally sized cells.
type BoardConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	GridCols      int     `yaml:"grid_cols"`
	GridRows      int     `yaml:"grid_rows"`
	ParticleCount int     `yaml:"particle_count"`
}

// SpeciesConfig holds species rule generation parameters.
type SpeciesConfig struct {
	TypeCount         int  `yaml:"type_count"`
	GenerateChemistry bool `yaml:"generate_chemistry"`
}

// PhysicsConfig holds interaction and integration parameters.
type PhysicsConfig struct {
	TouchingPushingAcc float64 `yaml:"touching_pushing_acc"` // Contact repulsion at zero distance
	Resistance         float64 `yaml:"resistance"`           // Quadratic drag coefficient
	MaxFieldPullingAcc float64 `yaml:"max_field_pulling_acc"`
	MaxFieldPushingAcc float64 `yaml:"max_field_pushing_acc"`
	MaxRadius          float64 `yaml:"max_radius"` // Upper bound for force profile breakpoints
	Workers            int     `yaml:"workers"`    // 0 = serial row-major, >= 1 = phased pass on that many workers
}

// ColorsConfig selects how species colors are produced.
type ColorsConfig struct {
	Mode    string   `yaml:"mode"`    // procedural or palette
	Palette []string `yaml:"palette"` // Hex colors, cycled when type_count exceeds its length
}

// SeedsConfig holds the three independent RNG seeds. A nil seed is drawn at startup.
type SeedsConfig struct {
	Color        *uint64 `yaml:"color,omitempty"`
	Rule         *uint64 `yaml:"rule,omitempty"`
	InitialState *uint64 `yaml:"initial_state,omitempty"`
}

// RunConfig holds driver settings.
type RunConfig struct {
	IterationsPerFrame int    `yaml:"iterations_per_frame"`
	FramesDir          string `yaml:"frames_dir"`   // Empty disables frame export
	SnapshotDir        string `yaml:"snapshot_dir"` // Where board snapshots are saved
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per telemetry window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CellWidth  float64
	CellHeight float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	return Load("")
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.CellWidth = c.Board.Width / float64(c.Board.GridCols)
	c.Derived.CellHeight = c.Board.Height / float64(c.Board.GridRows)

	if c.Run.IterationsPerFrame < 1 {
		c.Run.IterationsPerFrame = 1
	}
	if c.Colors.Mode == "" {
		c.Colors.Mode = ColorModeProcedural
	}
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
