// Package palette assigns display colors to species, either procedurally spaced in
// a luma/chroma space or cycled from a fixed list.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat/distuv"
)

// Chroma channel extents of the YUV model used for spacing.
const (
	UMax = 0.436
	VMax = 0.615
)

// YUV is a point in the luma/chroma space.
type YUV struct {
	Y, U, V float64
}

// Dist returns the Euclidean distance between two points.
func (a YUV) Dist(b YUV) float64 {
	dy, du, dv := a.Y-b.Y, a.U-b.U, a.V-b.V
	return math.Sqrt(dy*dy + du*du + dv*dv)
}

// RGB converts to unclamped linear RGB.
func (a YUV) RGB() colorful.Color {
	return colorful.Color{
		R: a.Y + 1.28033*a.V,
		G: a.Y - 0.21482*a.U - 0.38059*a.V,
		B: a.Y + 2.12798*a.U,
	}
}

// MinSeparation returns the minimum pairwise distance required for n colors.
func MinSeparation(n int) float64 {
	return 0.8 / math.Sqrt(float64(n))
}

// invSmoothstep is the inverse of 3t^2-2t^3 on [0,1].
func invSmoothstep(t float64) float64 {
	return 0.5 - math.Sin(math.Asin(1-2*t)/3)
}

// warp pushes chroma samples away from neutral gray, preserving sign.
func warp(x float64) float64 {
	return math.Copysign(invSmoothstep(math.Pow(math.Abs(x), 2.2)), x)
}

// ProceduralYUV draws n points with every pair at least MinSeparation(n) apart.
// A batch with any violating pair is discarded whole and redrawn.
func ProceduralYUV(n int, rng *rand.Rand) []YUV {
	minDelta := MinSeparation(n)
	chroma := distuv.Uniform{Min: -1, Max: 1, Src: rng}
	luma := distuv.Uniform{Min: 0.4, Max: 1, Src: rng}

	batch := make([]YUV, n)
	for {
		for i := range batch {
			ru := chroma.Rand()
			rv := chroma.Rand()
			batch[i] = YUV{
				Y: luma.Rand(),
				U: warp(ru) * UMax,
				V: warp(rv) * VMax,
			}
		}
		if separated(batch, minDelta) {
			return batch
		}
	}
}

func separated(points []YUV, minDelta float64) bool {
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if points[i].Dist(points[j]) < minDelta {
				return false
			}
		}
	}
	return true
}

// ToRGBA clamps c to [0,1] per channel and scales to 8 bits.
func ToRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Procedural returns n procedurally spaced colors.
func Procedural(n int, rng *rand.Rand) []color.RGBA {
	points := ProceduralYUV(n, rng)
	colors := make([]color.RGBA, n)
	for i, p := range points {
		colors[i] = ToRGBA(p.RGB())
	}
	return colors
}

// ParseHex parses a list of "#rrggbb" strings.
func ParseHex(hex []string) ([]color.RGBA, error) {
	colors := make([]color.RGBA, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		colors[i] = ToRGBA(c)
	}
	return colors, nil
}

// Policy selects between procedural colors and a fixed palette.
// A nil or empty Fixed means procedural.
type Policy struct {
	Fixed []color.RGBA
}

// NewPolicy builds a policy from a color mode and hex palette.
func NewPolicy(procedural bool, hex []string) (Policy, error) {
	if procedural {
		return Policy{}, nil
	}
	fixed, err := ParseHex(hex)
	if err != nil {
		return Policy{}, err
	}
	if len(fixed) == 0 {
		return Policy{}, fmt.Errorf("fixed palette is empty")
	}
	return Policy{Fixed: fixed}, nil
}

// Colors returns n colors. The fixed palette is cycled; rng is only used when procedural.
func (p Policy) Colors(n int, rng *rand.Rand) []color.RGBA {
	if len(p.Fixed) == 0 {
		return Procedural(n, rng)
	}
	colors := make([]color.RGBA, n)
	for i := range colors {
		colors[i] = p.Fixed[i%len(p.Fixed)]
	}
	return colors
}
