package game

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reactor/board"
)

// Draw renders one frame.
func (g *Game) Draw() {
	g.sim.Perf().RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.drawParticles()

	// Exported frames never include the HUD
	if g.exportDue() {
		g.exportFrame()
	}

	if g.showHUD {
		g.drawHUD()
	}

	rl.EndDrawing()
}

// drawParticles renders every particle as a filled circle in its species color,
// once per toroidal image that overlaps the screen.
func (g *Game) drawParticles() {
	radius := float32(max(ParticleRadius*g.camera.Zoom, 1))

	g.sim.Board().Each(func(v board.CellView) {
		for i := 0; i < v.Len(); i++ {
			color := g.colors[v.At(i).Species]
			g.images = g.camera.Images(v.World(i), ParticleRadius, g.images[:0])
			for _, s := range g.images {
				rl.DrawCircleV(rl.Vector2{X: float32(s.X), Y: float32(s.Y)}, radius, color)
			}
		}
	})
}

// exportFrame writes the current framebuffer to framesDir as frame_NNNN.png.
func (g *Game) exportFrame() {
	if g.frame == 0 {
		if err := os.MkdirAll(g.framesDir, 0755); err != nil {
			slog.Error("frame export disabled", "dir", g.framesDir, "error", err)
			g.framesDir = ""
			return
		}
	}

	// Reading the framebuffer does not flush queued shapes
	rl.DrawRenderBatchActive()
	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)

	path := filepath.Join(g.framesDir, fmt.Sprintf("frame_%04d.png", g.frame))
	if !rl.ExportImage(*img, path) {
		slog.Error("frame export disabled", "path", path, "error", "export failed")
		g.framesDir = ""
		return
	}
	g.frame++
}
