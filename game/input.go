package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.paused = true
		g.stepRequested = true
	}

	// Iterations per frame with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.iterationsPerFrame = clampIterations(g.iterationsPerFrame - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.iterationsPerFrame = clampIterations(g.iterationsPerFrame + 1)
	}

	if rl.IsKeyPressed(rl.KeyH) {
		g.showHUD = !g.showHUD
	}

	if rl.IsKeyPressed(rl.KeyS) {
		g.saveSnapshot()
	}

	g.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float64(rl.GetScreenWidth())
	h := float64(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.camera.Resize(w, h)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Screen pixels per frame
	const panSpeed = 8.0

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Zoom toward the cursor with the wheel
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		g.camera.ZoomAt(1+float64(wheel)*0.1, r2.Vec{X: float64(mouse.X), Y: float64(mouse.Y)})
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

func (g *Game) saveSnapshot() {
	if _, err := g.sim.SaveSnapshot(); err != nil {
		slog.Error("failed to save snapshot", "error", err)
	}
}
