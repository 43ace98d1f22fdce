package palette

import (
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestInvSmoothstep(t *testing.T) {
	for _, x := range []float64{0, 0.1, 0.25, 0.5, 0.75, 1} {
		s := 3*x*x - 2*x*x*x
		if got := invSmoothstep(s); math.Abs(got-x) > 1e-9 {
			t.Errorf("invSmoothstep(smoothstep(%v)) = %v", x, got)
		}
	}
}

func TestWarpOddAndBounded(t *testing.T) {
	for _, x := range []float64{0.05, 0.3, 0.6, 0.99, 1} {
		w := warp(x)
		if math.Abs(warp(-x)+w) > 1e-12 {
			t.Errorf("warp(-%v) = %v, want %v", x, warp(-x), -w)
		}
		if w < 0 || w > 1 {
			t.Errorf("warp(%v) = %v outside [0,1]", x, w)
		}
	}
	if warp(0) != 0 {
		t.Errorf("warp(0) = %v, want 0", warp(0))
	}
}

func TestProceduralSeparation(t *testing.T) {
	for _, n := range []int{1, 2, 5, 8, 12} {
		points := ProceduralYUV(n, newRNG(uint64(n)))
		if len(points) != n {
			t.Fatalf("got %d points, want %d", len(points), n)
		}
		minDelta := MinSeparation(n)
		for i := range points {
			p := points[i]
			if p.Y < 0.4 || p.Y > 1 {
				t.Errorf("luma %v outside [0.4,1]", p.Y)
			}
			if math.Abs(p.U) > UMax || math.Abs(p.V) > VMax {
				t.Errorf("chroma (%v,%v) outside range", p.U, p.V)
			}
			for j := i + 1; j < n; j++ {
				if d := p.Dist(points[j]); d < minDelta {
					t.Errorf("n=%d: points %d,%d are %v apart, want >= %v", n, i, j, d, minDelta)
				}
			}
		}
	}
}

func TestProceduralDeterministic(t *testing.T) {
	a := Procedural(6, newRNG(42))
	b := Procedural(6, newRNG(42))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("color %d differs: %v != %v", i, a[i], b[i])
		}
	}
}

func TestYUVToRGB(t *testing.T) {
	tests := []struct {
		name string
		in   YUV
		want color.RGBA
	}{
		{"white", YUV{Y: 1}, color.RGBA{255, 255, 255, 255}},
		{"gray", YUV{Y: 0.5}, color.RGBA{128, 128, 128, 255}},
		{"black", YUV{Y: 0}, color.RGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToRGBA(tt.in.RGB())
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToRGBAClamps(t *testing.T) {
	got := ToRGBA(colorful.Color{R: 1.7, G: -0.3, B: 0.5})
	if got.R != 255 || got.G != 0 || got.B != 128 {
		t.Errorf("ToRGBA = %v, want {255 0 128}", got)
	}
}

func TestPolicyFixedCycles(t *testing.T) {
	policy, err := NewPolicy(false, []string{"#ff0000", "#00ff00"})
	if err != nil {
		t.Fatal(err)
	}
	colors := policy.Colors(5, nil)
	want := []color.RGBA{
		{255, 0, 0, 255}, {0, 255, 0, 255}, {255, 0, 0, 255}, {0, 255, 0, 255}, {255, 0, 0, 255},
	}
	for i := range want {
		if colors[i] != want[i] {
			t.Errorf("color %d = %v, want %v", i, colors[i], want[i])
		}
	}
}

func TestPolicyErrors(t *testing.T) {
	if _, err := NewPolicy(false, []string{"not-a-color"}); err == nil {
		t.Error("expected error for malformed hex")
	}
	if _, err := NewPolicy(false, nil); err == nil {
		t.Error("expected error for empty fixed palette")
	}
	p, err := NewPolicy(true, []string{"garbage"})
	if err != nil {
		t.Fatalf("procedural policy should ignore the palette: %v", err)
	}
	if len(p.Colors(3, newRNG(1))) != 3 {
		t.Error("procedural policy returned wrong number of colors")
	}
}
