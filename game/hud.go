package game

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUD layout
const (
	hudX       = 10
	hudY       = 10
	hudWidth   = 250
	hudLineH   = 18
	hudPadding = 10
)

var hudBackground = rl.Color{R: 0, G: 0, B: 0, A: 180}

// drawHUD renders the status panel, the species legend and the run controls.
func (g *Game) drawHUD() {
	types := g.sim.Species()
	stats := g.sim.LastStats()
	perf := g.sim.PerfStats()

	legendRows := (len(types) + 1) / 2
	panelH := int32(hudPadding*2 + hudLineH*6 + legendRows*hudLineH + 80)
	rl.DrawRectangle(hudX, hudY, hudWidth, panelH, hudBackground)
	rl.DrawRectangleLines(hudX, hudY, hudWidth, panelH, rl.DarkGray)

	x := int32(hudX + hudPadding)
	y := int32(hudY + hudPadding)
	line := func(text string, color rl.Color) {
		rl.DrawText(text, x, y, 14, color)
		y += hudLineH
	}

	status, statusColor := "running", rl.Green
	if g.paused {
		status, statusColor = "PAUSED", rl.Yellow
	}
	line(fmt.Sprintf("Tick %d  [%s]", g.sim.Tick(), status), statusColor)
	line(fmt.Sprintf("Particles %d  Species %d", g.sim.Board().Count(), len(types)), rl.White)
	line(fmt.Sprintf("TPS %.0f  FPS %d  x%d", perf.TicksPerSecond, rl.GetFPS(), g.iterationsPerFrame), rl.White)
	line(fmt.Sprintf("Conversions/tick %.1f", stats.ConversionsPerTick), rl.LightGray)
	line(fmt.Sprintf("Entropy %.2f  Dominant %.0f%%", stats.Entropy, stats.DominantShare*100), rl.LightGray)
	seeds := g.sim.Seeds()
	line(fmt.Sprintf("Seeds r%d c%d s%d", seeds.Rule%1000, seeds.Color%1000, seeds.InitialState%1000), rl.Gray)

	// Legend: species color and conversion target
	for i, t := range types {
		col := int32(i % 2)
		row := int32(i / 2)
		lx := x + col*(hudWidth/2-hudPadding)
		ly := y + row*hudLineH
		rl.DrawCircle(lx+6, ly+7, 6, g.colors[i])
		label := fmt.Sprintf("%d", i)
		if t.Conversion.Converts {
			label = fmt.Sprintf("%d > %d", i, t.Conversion.Target)
		}
		rl.DrawText(label, lx+18, ly, 14, rl.White)
	}
	y += int32(legendRows)*hudLineH + 6

	// Controls
	bx := float32(x)
	by := float32(y)
	pauseLabel := "Pause"
	if g.paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: bx, Y: by, Width: 70, Height: 24}, pauseLabel) {
		g.paused = !g.paused
	}
	if gui.Button(rl.Rectangle{X: bx + 76, Y: by, Width: 70, Height: 24}, "Step") {
		g.paused = true
		g.stepRequested = true
	}
	if gui.Button(rl.Rectangle{X: bx + 152, Y: by, Width: 78, Height: 24}, "Snapshot") {
		g.saveSnapshot()
	}

	by += 34
	rl.DrawText("Speed", x, int32(by)+3, 14, rl.LightGray)
	value := gui.SliderBar(
		rl.Rectangle{X: bx + 50, Y: by, Width: 140, Height: 20},
		"", fmt.Sprintf("%d", g.iterationsPerFrame),
		float32(g.iterationsPerFrame), MinIterationsPerFrame, MaxIterationsPerFrame,
	)
	g.iterationsPerFrame = clampIterations(int(math.Round(float64(value))))
}
