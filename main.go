package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reactor/config"
	"github.com/pthm-cable/reactor/game"
	"github.com/pthm-cable/reactor/sim"
	"github.com/pthm-cable/reactor/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window and perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and rules")
	resume := flag.String("resume", "", "Snapshot file to continue from")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	ruleSeed := flag.Uint64("rule-seed", 0, "Seed for species rules (0 = config or random)")
	colorSeed := flag.Uint64("color-seed", 0, "Seed for species colors (0 = config or random)")
	stateSeed := flag.Uint64("state-seed", 0, "Seed for initial particle placement (0 = config or random)")
	workers := flag.Int("workers", -1, "Interaction workers (-1 = config, 0 = serial)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *ruleSeed != 0 {
		config.SetSeed(&cfg.Seeds.Rule, *ruleSeed)
	}
	if *colorSeed != 0 {
		config.SetSeed(&cfg.Seeds.Color, *colorSeed)
	}
	if *stateSeed != 0 {
		config.SetSeed(&cfg.Seeds.InitialState, *stateSeed)
	}
	if *workers >= 0 {
		cfg.Physics.Workers = *workers
	}
	if err := cfg.Refresh(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	opts := sim.Options{
		OutputDir: *outputDir,
		LogStats:  *logStats,
	}
	if *resume != "" {
		snap, err := telemetry.LoadSnapshot(*resume)
		if err != nil {
			slog.Error("failed to load snapshot", "error", err)
			os.Exit(1)
		}
		opts.Resume = snap
	}

	if *headless {
		runHeadless(cfg, opts, *maxTicks)
		return
	}
	runGraphical(cfg, opts, *maxTicks)
}

// runHeadless steps the simulation without raylib.
func runHeadless(cfg *config.Config, opts sim.Options, maxTicks uint64) {
	s, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}
	defer closeSim(s)

	slog.Info("starting headless simulation", "max_ticks", maxTicks)

	for maxTicks == 0 || s.Tick() < maxTicks {
		s.Step()
	}
	slog.Info("max ticks reached", "tick", s.Tick(), "perf", s.PerfStats())
}

func runGraphical(cfg *config.Config, opts sim.Options, maxTicks uint64) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Reactor")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	s, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		return
	}
	defer closeSim(s)

	g := game.New(s)
	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}
}

func closeSim(s *sim.Sim) {
	if err := s.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
