package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/reactor/config"
	"github.com/pthm-cable/reactor/species"
)

// csvFile is an output CSV whose header is written with the first record.
type csvFile struct {
	name          string
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return fmt.Errorf("writing %s: %w", c.name, err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.f); err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	telemetry *csvFile
	perf      *csvFile
	species   *csvFile
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, target := range []struct {
		dst  **csvFile
		name string
	}{
		{&om.telemetry, "telemetry.csv"},
		{&om.perf, "perf.csv"},
		{&om.species, "species.csv"},
	} {
		f, err := os.Create(filepath.Join(dir, target.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", target.name, err)
		}
		*target.dst = &csvFile{name: target.name, f: f}
	}

	return om, nil
}

// WriteConfig saves the resolved configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// Rules is the resolved rule set of a run.
type Rules struct {
	Seeds   config.Seeds     `yaml:"seeds"`
	Summary species.Summary  `yaml:"summary"`
	Species []species.Record `yaml:"species"`
}

// WriteRules saves the species table and the seeds that produced it as YAML.
func (om *OutputManager) WriteRules(seeds config.Seeds, types []species.Type) error {
	if om == nil {
		return nil
	}

	data, err := yaml.Marshal(Rules{
		Seeds:   seeds,
		Summary: species.Summarize(types),
		Species: species.Records(types),
	})
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, "rules.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing rules.yaml: %w", err)
	}
	return nil
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write([]WindowStats{stats})
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd uint64) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteSpecies appends one row per species to species.csv.
func (om *OutputManager) WriteSpecies(census Census, windowEnd uint64) error {
	if om == nil || len(census.SpeciesCounts) == 0 {
		return nil
	}
	return om.species.write(census.SpeciesRecords(windowEnd))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.telemetry, om.perf, om.species} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
