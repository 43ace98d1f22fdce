package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/reactor/config"
	"github.com/pthm-cable/reactor/sim"
	"github.com/pthm-cable/reactor/telemetry"
)

// Windows skipped before scoring while the initial placement settles.
const warmupWindows = 2

// FitnessEvaluator runs one short simulation per rule seed for a parameter vector
// and scores the result.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   uint64
	seeds      []uint64
	baseConfig *config.Config

	mu           sync.Mutex
	lastActivity float64
	lastDiv      float64
}

// NewFitnessEvaluator creates an evaluator. Every evaluation reuses the same rule
// seeds so candidates are compared on identical chemistries.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []uint64, base *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: base,
	}
}

// runResult holds the scores of one seed.
type runResult struct {
	activity  float64
	diversity float64
}

// Evaluate returns -(activity x diversity) averaged over seeds. Lower is better.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	results := make([]runResult, len(fe.seeds))

	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fe.runSeed(raw, seed)
		}()
	}
	wg.Wait()

	activity := make([]float64, len(results))
	diversity := make([]float64, len(results))
	products := make([]float64, len(results))
	for i, r := range results {
		activity[i] = r.activity
		diversity[i] = r.diversity
		products[i] = r.activity * r.diversity
	}

	fe.mu.Lock()
	fe.lastActivity = stat.Mean(activity, nil)
	fe.lastDiv = stat.Mean(diversity, nil)
	fe.mu.Unlock()

	return -stat.Mean(products, nil)
}

// Last returns the mean activity and diversity of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (activity, diversity float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastActivity, fe.lastDiv
}

// runSeed runs one headless simulation and scores its telemetry windows.
func (fe *FitnessEvaluator) runSeed(raw []float64, seed uint64) runResult {
	cfg := fe.configFor(raw, seed)

	var windows []telemetry.WindowStats
	s, err := sim.New(cfg, sim.Options{
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		slog.Warn("candidate rejected", "seed", seed, "error", err)
		return runResult{}
	}
	defer s.Close()

	for s.Tick() < fe.maxTicks {
		s.Step()
	}

	return score(windows, cfg.Species.TypeCount)
}

// configFor copies the base config, applies raw and pins the seeds. Runs are
// single-threaded since seeds already run in parallel.
func (fe *FitnessEvaluator) configFor(raw []float64, seed uint64) *config.Config {
	cfg := *fe.baseConfig
	cfg.Seeds = config.SeedsConfig{}
	config.SetSeed(&cfg.Seeds.Rule, seed)
	config.SetSeed(&cfg.Seeds.Color, seed)
	config.SetSeed(&cfg.Seeds.InitialState, seed+1)
	cfg.Physics.Workers = 0
	fe.params.ApplyToConfig(&cfg, raw)
	return &cfg
}

// score reduces the windows of one run. Activity is conversions per tick per
// particle; diversity is the species entropy normalized by its maximum.
func score(windows []telemetry.WindowStats, typeCount int) runResult {
	if len(windows) <= warmupWindows || typeCount < 2 {
		return runResult{}
	}
	valid := windows[warmupWindows:]

	activity := make([]float64, 0, len(valid))
	diversity := make([]float64, 0, len(valid))
	maxEntropy := math.Log(float64(typeCount))
	for _, w := range valid {
		if w.Particles == 0 {
			continue
		}
		activity = append(activity, w.ConversionsPerTick/float64(w.Particles))
		diversity = append(diversity, w.Entropy/maxEntropy)
	}
	if len(activity) == 0 {
		return runResult{}
	}
	return runResult{
		activity:  stat.Mean(activity, nil),
		diversity: stat.Mean(diversity, nil),
	}
}
