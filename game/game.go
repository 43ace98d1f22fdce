// Package game is the raylib front end: it drives a simulation run frame by frame
// and draws the board.
package game

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reactor/camera"
	"github.com/pthm-cable/reactor/sim"
)

// Iterations per frame bounds for the speed control.
const (
	MinIterationsPerFrame = 1
	MaxIterationsPerFrame = 20
)

// ParticleRadius is the drawn radius in world units. Particles closer than twice
// this are in contact.
const ParticleRadius = 0.5

// Game holds the front end state of one run.
type Game struct {
	sim    *sim.Sim
	camera *camera.Camera

	screenWidth, screenHeight float64

	// Species colors, converted once
	colors []rl.Color

	// State
	paused             bool
	stepRequested      bool
	showHUD            bool
	iterationsPerFrame int
	ticked             bool // a tick ran during the current frame

	// Frame export; empty dir disables it
	framesDir string
	frame     int

	// Scratch buffer for toroidal images of one particle
	images []r2.Vec
}

// New creates the front end for s. The raylib window must already be open.
func New(s *sim.Sim) *Game {
	cfg := s.Config()
	w, h := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
	worldW, worldH := s.Board().Size()

	return &Game{
		sim:                s,
		camera:             camera.New(w, h, worldW, worldH),
		screenWidth:        w,
		screenHeight:       h,
		colors:             toRaylib(s.Colors()),
		showHUD:            true,
		iterationsPerFrame: clampIterations(cfg.Run.IterationsPerFrame),
		framesDir:          cfg.Run.FramesDir,
		images:             make([]r2.Vec, 0, 9),
	}
}

func toRaylib(colors []color.RGBA) []rl.Color {
	out := make([]rl.Color, len(colors))
	for i, c := range colors {
		out[i] = rl.NewColor(c.R, c.G, c.B, c.A)
	}
	return out
}

func clampIterations(n int) int {
	return min(max(n, MinIterationsPerFrame), MaxIterationsPerFrame)
}

// Update handles input and advances the simulation for one frame.
func (g *Game) Update() {
	g.handleInput()

	n := g.ticksThisFrame()
	g.sim.Advance(n)
	g.ticked = n > 0
	g.stepRequested = false
}

// ticksThisFrame returns how many ticks the current frame runs: the per-frame
// iterations while running, one for a single step while paused, otherwise none.
func (g *Game) ticksThisFrame() int {
	switch {
	case !g.paused:
		return g.iterationsPerFrame
	case g.stepRequested:
		return 1
	}
	return 0
}

// exportDue reports whether the current frame is written to framesDir.
func (g *Game) exportDue() bool {
	return g.framesDir != "" && g.ticked
}

// Tick returns the current simulation tick.
func (g *Game) Tick() uint64 {
	return g.sim.Tick()
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}
