package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/reactor/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Methods on a nil manager are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteSpecies(Census{SpeciesCounts: []int{1}}, 1); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should have empty dir")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, end := range []uint64{10, 20, 30} {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: end, Particles: 5}); err != nil {
			t.Fatal(err)
		}
		if err := om.WritePerf(PerfStats{}, end); err != nil {
			t.Fatal(err)
		}
		if err := om.WriteSpecies(Census{Particles: 4, SpeciesCounts: []int{3, 1}}, end); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	seeds := config.Seeds{Color: 4, Rule: 5, InitialState: 6}
	if err := om.WriteRules(seeds, testTypes()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file   string
		lines  int
		header string
	}{
		{"telemetry.csv", 4, "window_end,particles,"},
		{"perf.csv", 4, "window_end,avg_tick_us,"},
		{"species.csv", 7, "window_end,species,count,share"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != tt.lines {
				t.Errorf("got %d lines, want %d:\n%s", len(lines), tt.lines, data)
			}
			if !strings.HasPrefix(lines[0], tt.header) {
				t.Errorf("header = %q, want prefix %q", lines[0], tt.header)
			}
		})
	}

	data, err := os.ReadFile(filepath.Join(dir, "rules.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		t.Fatal(err)
	}
	if rules.Seeds != seeds || len(rules.Species) != 3 || rules.Summary.Inert != 1 {
		t.Errorf("rules = %+v", rules)
	}
	if rules.Species[0].ConvertsTo == nil || *rules.Species[0].ConvertsTo != 1 {
		t.Error("species 0 should convert to 1")
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml does not reload: %v", err)
	}
}
