package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/reactor/config"
)

// evalRecord is one row of tune_log.csv. Parameter columns follow ParamVector order.
type evalRecord struct {
	Eval               int     `csv:"eval"`
	Fitness            float64 `csv:"fitness"`
	Activity           float64 `csv:"activity"`
	Diversity          float64 `csv:"diversity"`
	TouchingPushingAcc float64 `csv:"touching_pushing_acc"`
	Resistance         float64 `csv:"resistance"`
	MaxFieldPullingAcc float64 `csv:"max_field_pulling_acc"`
	MaxFieldPushingAcc float64 `csv:"max_field_pushing_acc"`
	MaxRadius          float64 `csv:"max_radius"`
}

func newEvalRecord(eval int, fitness, activity, diversity float64, v []float64) evalRecord {
	return evalRecord{
		Eval:               eval,
		Fitness:            fitness,
		Activity:           activity,
		Diversity:          diversity,
		TouchingPushingAcc: v[0],
		Resistance:         v[1],
		MaxFieldPullingAcc: v[2],
		MaxFieldPushingAcc: v[3],
		MaxRadius:          v[4],
	}
}

// formatDuration formats a duration as XhYYmZZs, or YmZZs when under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Uint64("max-ticks", 3000, "Ticks per run")
	seeds := flag.Int("seeds", 3, "Rule seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *seeds < 1 {
		log.Fatal("--seeds must be >= 1")
	}

	// Per-run "simulation ready" logs would drown the progress lines
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()
	if baseCfg.Telemetry.StatsWindow <= 0 {
		log.Fatal("telemetry.stats_window must be > 0 for tuning")
	}

	params := NewParamVector(min(baseCfg.Derived.CellWidth, baseCfg.Derived.CellHeight))

	evalSeeds := make([]uint64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = uint64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *maxTicks, evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.FromConfig(baseCfg))

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1.0
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			activity, diversity := evaluator.Last()
			evalCount++

			if bestParams == nil || fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			rows := []evalRecord{newEvalRecord(evalCount, fitness, activity, diversity, clamped)}
			if evalCount == 1 {
				err = gocsv.Marshal(rows, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(rows, logFile)
			}
			if err != nil {
				log.Printf("failed to write log row: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			fmt.Printf("Eval %d/%d: activity=%.5f diversity=%.3f fitness=%.6f (best=%.6f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, activity, diversity, fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	fmt.Printf("Starting CMA-ES with %d parameters, population=%d, max_evals=%d\n", dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.6f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
