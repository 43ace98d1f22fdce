// Package camera maps the toroidal world onto the screen.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Camera controls the viewport into the world.
// Supports pan and zoom with toroidal wrapping.
type Camera struct {
	// Center is the camera center in world coordinates
	Center r2.Vec

	// Zoom is screen pixels per world unit
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// World dimensions (for toroidal wrapping)
	WorldW, WorldH float64

	// Zoom constraints. MinZoom fills the viewport with exactly one world copy in
	// its limiting dimension.
	MinZoom, MaxZoom float64
}

// maxZoomFactor bounds magnification relative to MinZoom.
const maxZoomFactor = 32

// New creates a camera centered on the world and zoomed to fit.
func New(viewportW, viewportH, worldW, worldH float64) *Camera {
	c := &Camera{
		WorldW: worldW,
		WorldH: worldH,
	}
	c.setViewport(viewportW, viewportH)
	c.Reset()
	return c
}

func (c *Camera) setViewport(w, h float64) {
	c.ViewportW = w
	c.ViewportH = h
	c.MinZoom = max(w/c.WorldW, h/c.WorldH)
	c.MaxZoom = c.MinZoom * maxZoomFactor
}

// WorldToScreen converts a world position to the screen position of its image
// nearest the camera center.
func (c *Camera) WorldToScreen(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: c.ViewportW/2 + toroidalDelta(p.X, c.Center.X, c.WorldW)*c.Zoom,
		Y: c.ViewportH/2 + toroidalDelta(p.Y, c.Center.Y, c.WorldH)*c.Zoom,
	}
}

// ScreenToWorld converts a screen position to a world position in [0,W)x[0,H).
func (c *Camera) ScreenToWorld(s r2.Vec) r2.Vec {
	return r2.Vec{
		X: mod(c.Center.X+(s.X-c.ViewportW/2)/c.Zoom, c.WorldW),
		Y: mod(c.Center.Y+(s.Y-c.ViewportH/2)/c.Zoom, c.WorldH),
	}
}

// IsVisible reports whether any image of a circle at p could be on screen.
func (c *Camera) IsVisible(p r2.Vec, radius float64) bool {
	var buf [9]r2.Vec
	return len(c.Images(p, radius, buf[:0])) > 0
}

// Images appends to dst the screen positions of every image of a circle at
// world position p that overlaps the viewport. Near the edges of the visible
// area a particle can show up to four times.
func (c *Camera) Images(p r2.Vec, radius float64, dst []r2.Vec) []r2.Vec {
	dx := toroidalDelta(p.X, c.Center.X, c.WorldW)
	dy := toroidalDelta(p.Y, c.Center.Y, c.WorldH)
	r := radius * c.Zoom

	for ky := -1; ky <= 1; ky++ {
		sy := c.ViewportH/2 + (dy+float64(ky)*c.WorldH)*c.Zoom
		if sy < -r || sy > c.ViewportH+r {
			continue
		}
		for kx := -1; kx <= 1; kx++ {
			sx := c.ViewportW/2 + (dx+float64(kx)*c.WorldW)*c.Zoom
			if sx < -r || sx > c.ViewportW+r {
				continue
			}
			dst = append(dst, r2.Vec{X: sx, Y: sy})
		}
	}
	return dst
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float64) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.setViewport(viewportW, viewportH)
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.Center.X = mod(c.Center.X+dx/c.Zoom, c.WorldW)
	c.Center.Y = mod(c.Center.Y+dy/c.Zoom, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = min(max(zoom, c.MinZoom), c.MaxZoom)
}

// ZoomBy multiplies the current zoom by factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt multiplies the zoom by factor keeping the world point under the screen
// position s fixed.
func (c *Camera) ZoomAt(factor float64, s r2.Vec) {
	before := c.ScreenToWorld(s)
	c.ZoomBy(factor)
	after := c.ScreenToWorld(s)
	c.Center.X = mod(c.Center.X+toroidalDelta(before.X, after.X, c.WorldW), c.WorldW)
	c.Center.Y = mod(c.Center.Y+toroidalDelta(before.Y, after.Y, c.WorldH), c.WorldH)
}

// Reset centers the camera on the world and zooms to fit.
func (c *Camera) Reset() {
	c.Center = r2.Vec{X: c.WorldW / 2, Y: c.WorldH / 2}
	c.Zoom = c.MinZoom
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float64) float64 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo.
func mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}
