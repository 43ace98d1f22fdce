package telemetry

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reactor/board"
	"github.com/pthm-cable/reactor/config"
)

var testRules = RuleParams{MaxPullingAcc: 0.002, MaxPushingAcc: 0.004, MaxRadius: 10, Chemistry: true}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	b := testBoard(t)
	b.Populate(50, rand.New(rand.NewPCG(1, 1)))
	if err := b.Place(2, 12.5, 7.25, r2.Vec{X: 0.1, Y: -0.2}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		b.Tick()
	}

	seeds := config.Seeds{Color: 1, Rule: 2, InitialState: 3}
	snapshot := Capture(b, seeds, testRules)

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_3.json"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot file not created: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.Seeds != seeds || loaded.Rules != testRules || loaded.Tick != 3 || len(loaded.Particles) != 51 {
		t.Errorf("loaded seeds=%+v tick=%d particles=%d", loaded.Seeds, loaded.Tick, len(loaded.Particles))
	}

	restored := testBoard(t)
	if err := loaded.Restore(restored, testRules); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.Ticks() != 3 || restored.Count() != 51 {
		t.Errorf("restored ticks=%d count=%d", restored.Ticks(), restored.Count())
	}

	// Continuing both boards must give identical states
	for i := 0; i < 5; i++ {
		b.Tick()
		restored.Tick()
	}
	a, r := Capture(b, seeds, testRules), Capture(restored, seeds, testRules)
	for i := range a.Particles {
		if a.Particles[i] != r.Particles[i] {
			t.Fatalf("particle %d diverged: %+v != %+v", i, a.Particles[i], r.Particles[i])
		}
	}
}

func TestSnapshotRestoreErrors(t *testing.T) {
	b := testBoard(t)
	good := Capture(b, config.Seeds{}, testRules)

	tests := []struct {
		name   string
		modify func(s *Snapshot)
	}{
		{"version", func(s *Snapshot) { s.Version = 99 }},
		{"max radius", func(s *Snapshot) { s.Rules.MaxRadius = 4 }},
		{"pulling acc", func(s *Snapshot) { s.Rules.MaxPullingAcc = 0.01 }},
		{"pushing acc", func(s *Snapshot) { s.Rules.MaxPushingAcc = 0.01 }},
		{"chemistry", func(s *Snapshot) { s.Rules.Chemistry = false }},
		{"grid", func(s *Snapshot) { s.Cols = 5 }},
		{"species", func(s *Snapshot) { s.Species = 9 }},
		{"bad cell", func(s *Snapshot) { s.Particles = []ParticleState{{Col: 7}} }},
		{"bad local", func(s *Snapshot) { s.Particles = []ParticleState{{X: 11}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := *good
			tt.modify(&s)
			target, err := board.New(board.Params{Cols: 4, Rows: 4, Width: 40, Height: 40}, testTypes())
			if err != nil {
				t.Fatal(err)
			}
			if err := s.Restore(target, testRules); err == nil {
				t.Error("expected error")
			}
		})
	}

	// Restoring onto a populated board is rejected
	if err := b.Place(0, 1, 1, r2.Vec{}); err != nil {
		t.Fatal(err)
	}
	if err := good.Restore(b, testRules); err == nil {
		t.Error("expected error for non-empty board")
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
