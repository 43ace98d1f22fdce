// Package sim wires rule generation, colors, the board and telemetry into a
// runnable simulation.
package sim

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand/v2"

	"github.com/pthm-cable/reactor/board"
	"github.com/pthm-cable/reactor/config"
	"github.com/pthm-cable/reactor/palette"
	"github.com/pthm-cable/reactor/species"
	"github.com/pthm-cable/reactor/telemetry"
)

// Options holds settings that are not part of the config file.
type Options struct {
	OutputDir string // Empty disables CSV output
	LogStats  bool   // Log window and perf stats via slog

	// Resume continues a saved run instead of populating the board
	Resume *telemetry.Snapshot

	// StatsCallback is called at every window flush
	StatsCallback func(stats telemetry.WindowStats)
}

// Sim is one simulation run. It is not safe for concurrent use.
type Sim struct {
	cfg   *config.Config
	seeds config.Seeds
	rules telemetry.RuleParams
	types []species.Type
	board *board.Board

	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector // nil when stats windows are disabled
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(stats telemetry.WindowStats)
	lastStats     telemetry.WindowStats
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// New builds a run from cfg. Unset seeds in cfg are resolved in place.
func New(cfg *config.Config, opts Options) (*Sim, error) {
	if opts.Resume != nil {
		config.SetSeed(&cfg.Seeds.Color, opts.Resume.Seeds.Color)
		config.SetSeed(&cfg.Seeds.Rule, opts.Resume.Seeds.Rule)
		config.SetSeed(&cfg.Seeds.InitialState, opts.Resume.Seeds.InitialState)
	}
	seeds := cfg.ResolveSeeds()
	rules := telemetry.RuleParamsFrom(cfg)

	types, err := species.Generate(species.Params{
		Count:         cfg.Species.TypeCount,
		MaxPullingAcc: rules.MaxPullingAcc,
		MaxPushingAcc: rules.MaxPushingAcc,
		MaxRadius:     rules.MaxRadius,
		Chemistry:     rules.Chemistry,
	}, newRNG(seeds.Rule))
	if err != nil {
		return nil, err
	}

	policy, err := palette.NewPolicy(cfg.Colors.Mode == config.ColorModeProcedural, cfg.Colors.Palette)
	if err != nil {
		return nil, err
	}
	if err := species.Paint(types, policy.Colors(len(types), newRNG(seeds.Color))); err != nil {
		return nil, err
	}

	b, err := board.New(board.Params{
		Cols:               cfg.Board.GridCols,
		Rows:               cfg.Board.GridRows,
		Width:              cfg.Board.Width,
		Height:             cfg.Board.Height,
		TouchingPushingAcc: cfg.Physics.TouchingPushingAcc,
		Resistance:         cfg.Physics.Resistance,
		Workers:            cfg.Physics.Workers,
	}, types)
	if err != nil {
		return nil, err
	}

	if opts.Resume != nil {
		if err := opts.Resume.Restore(b, rules); err != nil {
			b.Close()
			return nil, err
		}
	} else {
		b.Populate(cfg.Board.ParticleCount, newRNG(seeds.InitialState))
	}

	summary := species.Summarize(types)
	cw, ch := b.CellSize()
	if cell := min(cw, ch); summary.MaxReach > cell {
		slog.Warn("force profiles reach past one cell and will be truncated",
			"max_reach", summary.MaxReach,
			"cell_size", cell,
		)
	}

	s := &Sim{
		cfg:           cfg,
		seeds:         seeds,
		rules:         rules,
		types:         types,
		board:         b,
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}
	b.SetObserver(s.perf)

	if cfg.Telemetry.StatsWindow > 0 {
		s.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow)
		s.collector.StartAt(b.Ticks())
	}

	if err := s.openOutput(opts.OutputDir); err != nil {
		b.Close()
		return nil, err
	}

	slog.Info("simulation ready",
		"seeds", seeds,
		"species", summary.Species,
		"inert", summary.Inert,
		"cycles", summary.Cycles,
		"longest_cycle", summary.LongestCycle,
		"particles", b.Count(),
		"grid", fmt.Sprintf("%dx%d", b.Cols(), b.Rows()),
		"phased", b.Phased(),
		"tick", b.Ticks(),
	)

	return s, nil
}

func (s *Sim) openOutput(dir string) error {
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		return err
	}
	if om == nil {
		return nil
	}
	if err := om.WriteConfig(s.cfg); err != nil {
		om.Close()
		return err
	}
	if err := om.WriteRules(s.seeds, s.types); err != nil {
		om.Close()
		return err
	}
	s.output = om
	slog.Info("writing output", "dir", om.Dir())
	return nil
}

// Step advances the simulation by one tick and flushes telemetry when a window ends.
func (s *Sim) Step() {
	s.perf.StartTick()
	s.board.Tick()
	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
	s.perf.EndTick()
}

// Advance runs n ticks.
func (s *Sim) Advance(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// Tick returns the number of completed ticks.
func (s *Sim) Tick() uint64 { return s.board.Ticks() }

// Board returns the underlying board. Callers must not hold views across a Step.
func (s *Sim) Board() *board.Board { return s.board }

// Species returns the species table.
func (s *Sim) Species() []species.Type { return s.types }

// Colors returns the display color of every species.
func (s *Sim) Colors() []color.RGBA {
	colors := make([]color.RGBA, len(s.types))
	for i, t := range s.types {
		colors[i] = t.Color
	}
	return colors
}

// Seeds returns the resolved seeds of the run.
func (s *Sim) Seeds() config.Seeds { return s.seeds }

// Config returns the run configuration.
func (s *Sim) Config() *config.Config { return s.cfg }

// Perf returns the performance collector, for frame timing.
func (s *Sim) Perf() *telemetry.PerfCollector { return s.perf }

// PerfStats returns the current rolling performance statistics.
func (s *Sim) PerfStats() telemetry.PerfStats { return s.perf.Stats() }

// LastStats returns the most recently flushed window.
func (s *Sim) LastStats() telemetry.WindowStats { return s.lastStats }

// Snapshot captures the current board state.
func (s *Sim) Snapshot() *telemetry.Snapshot {
	return telemetry.Capture(s.board, s.seeds, s.rules)
}

// SaveSnapshot writes the current board state to the configured snapshot directory.
func (s *Sim) SaveSnapshot() (string, error) {
	path, err := telemetry.SaveSnapshot(s.Snapshot(), s.cfg.Run.SnapshotDir)
	if err != nil {
		return "", err
	}
	slog.Info("snapshot saved", "path", path, "tick", s.Tick())
	return path, nil
}

// Close stops the board workers and closes output files.
func (s *Sim) Close() error {
	s.board.Close()
	return s.output.Close()
}
