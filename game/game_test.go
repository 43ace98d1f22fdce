package game

import "testing"

func TestTicksThisFrame(t *testing.T) {
	tests := []struct {
		name          string
		paused        bool
		stepRequested bool
		want          int
	}{
		{"running", false, false, 3},
		{"running with step key", false, true, 3},
		{"paused", true, false, 0},
		{"single step", true, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Game{paused: tt.paused, stepRequested: tt.stepRequested, iterationsPerFrame: 3}
			if got := g.ticksThisFrame(); got != tt.want {
				t.Errorf("ticksThisFrame() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExportDue(t *testing.T) {
	tests := []struct {
		name      string
		framesDir string
		paused    bool
		ticked    bool
		want      bool
	}{
		{"disabled", "", false, true, false},
		{"running", "frames", false, true, true},
		{"single step while paused", "frames", true, true, true},
		{"paused without step", "frames", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Game{framesDir: tt.framesDir, paused: tt.paused, ticked: tt.ticked}
			if got := g.exportDue(); got != tt.want {
				t.Errorf("exportDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampIterations(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, MinIterationsPerFrame},
		{5, 5},
		{99, MaxIterationsPerFrame},
	}
	for _, tt := range tests {
		if got := clampIterations(tt.in); got != tt.want {
			t.Errorf("clampIterations(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
