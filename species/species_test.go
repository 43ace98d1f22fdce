package species

import (
	"image/color"
	"math"
	"math/rand/v2"
	"reflect"
	"sort"
	"testing"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func defaultParams(n int, chemistry bool) Params {
	return Params{
		Count:         n,
		MaxPullingAcc: 0.002,
		MaxPushingAcc: 0.004,
		MaxRadius:     10,
		Chemistry:     chemistry,
	}
}

func TestProfileAt(t *testing.T) {
	p := Profile{Radii: []float64{2, 4, 8}, Accels: []float64{-1, -0.5, 1}}

	tests := []struct {
		name string
		d    float64
		want float64
	}{
		{"zero", 0, -1},
		{"first segment midpoint", 1, -0.75},
		{"on breakpoint", 2, -0.5},
		{"second segment", 3, 0.25},
		{"third segment tail", 6, 0.5},
		{"last breakpoint", 8, 0},
		{"beyond reach", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.At(tt.d)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("At(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestProfileEmpty(t *testing.T) {
	var p Profile
	if got := p.At(0.5); got != 0 {
		t.Errorf("empty profile At(0.5) = %v, want 0", got)
	}
	if p.Reach() != 0 {
		t.Errorf("empty profile reach = %v, want 0", p.Reach())
	}
}

func TestRandomProfileShape(t *testing.T) {
	rng := newRNG(1)
	const maxPull, maxPush, maxRadius = 0.3, 0.5, 12.0

	for i := 0; i < 500; i++ {
		p := RandomProfile(rng, maxPull, maxPush, maxRadius)

		n := len(p.Radii)
		if n < MinNodes || n > MaxNodes {
			t.Fatalf("node count %d outside [%d,%d]", n, MinNodes, MaxNodes)
		}
		if len(p.Accels) != n {
			t.Fatalf("len(Accels) = %d, want %d", len(p.Accels), n)
		}
		if !sort.Float64sAreSorted(p.Radii) {
			t.Fatalf("radii not sorted: %v", p.Radii)
		}
		for _, r := range p.Radii {
			if r < 0 || r >= maxRadius {
				t.Fatalf("radius %v outside [0,%v)", r, maxRadius)
			}
		}
		for k, a := range p.Accels {
			if k < 2 && (a >= 0 || a < -maxPush) {
				t.Fatalf("accel[%d] = %v, want in [-%v,0)", k, a, maxPush)
			}
			if a < -maxPush || a >= maxPull {
				t.Fatalf("accel[%d] = %v outside [-%v,%v)", k, a, maxPush, maxPull)
			}
		}
	}
}

func TestSuccessorsIsBijection(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8, 17, 64} {
		for seed := uint64(0); seed < 50; seed++ {
			succ := Successors(n, newRNG(seed))
			seen := make([]bool, n)
			for i, s := range succ {
				if s < 0 || s >= n {
					t.Fatalf("n=%d seed=%d: succ[%d] = %d out of range", n, seed, i, s)
				}
				if seen[s] {
					t.Fatalf("n=%d seed=%d: %d is the image of two species: %v", n, seed, s, succ)
				}
				seen[s] = true
			}
		}
	}
}

func TestSuccessorsProducesVariedCycles(t *testing.T) {
	sawInert, sawLong := false, false
	for seed := uint64(0); seed < 200; seed++ {
		for _, c := range Cycles(Successors(6, newRNG(seed))) {
			if len(c) == 1 {
				sawInert = true
			} else {
				sawLong = true
			}
		}
	}
	if !sawInert || !sawLong {
		t.Errorf("expected both 1-cycles and longer cycles, inert=%v long=%v", sawInert, sawLong)
	}
}

func TestCycles(t *testing.T) {
	got := Cycles([]int{2, 1, 3, 0, 5, 4})
	want := [][]int{{0, 2, 3}, {1}, {4, 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Cycles = %v, want %v", got, want)
	}
}

func TestRandomCatalystsNonEmpty(t *testing.T) {
	rng := newRNG(3)
	for _, n := range []int{1, 2, 4} {
		for i := 0; i < 200; i++ {
			c := RandomCatalysts(n, rng)
			if len(c) != n {
				t.Fatalf("len = %d, want %d", len(c), n)
			}
			found := false
			for _, v := range c {
				found = found || v
			}
			if !found {
				t.Fatalf("empty catalyst set for n=%d", n)
			}
		}
	}
}

func TestGenerateChemistryInvariants(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		types, err := Generate(defaultParams(9, true), newRNG(seed))
		if err != nil {
			t.Fatal(err)
		}

		succ := SuccessorTable(types)
		images := make(map[int]bool)
		for i, tp := range types {
			images[succ[i]] = true
			if len(tp.Profiles) != len(types) {
				t.Fatalf("species %d has %d profiles, want %d", i, len(tp.Profiles), len(types))
			}
			if tp.Conversion.Converts {
				if tp.Conversion.Target == i {
					t.Fatalf("species %d converts to itself", i)
				}
				found := false
				for _, c := range tp.Conversion.Catalysts {
					found = found || c
				}
				if !found {
					t.Fatalf("species %d converts with an empty catalyst set", i)
				}
			}
		}
		if len(images) != len(types) {
			t.Fatalf("successor table %v is not a permutation", succ)
		}
	}
}

func TestGenerateSingleSpeciesIsInert(t *testing.T) {
	for _, chem := range []bool{true, false} {
		types, err := Generate(defaultParams(1, chem), newRNG(11))
		if err != nil {
			t.Fatal(err)
		}
		if !types[0].Conversion.Inert() {
			t.Errorf("chemistry=%v: single species should be inert", chem)
		}
	}
}

func TestGenerateWithoutChemistry(t *testing.T) {
	with, err := Generate(defaultParams(6, true), newRNG(5))
	if err != nil {
		t.Fatal(err)
	}
	without, err := Generate(defaultParams(6, false), newRNG(5))
	if err != nil {
		t.Fatal(err)
	}

	for i := range without {
		if !without[i].Conversion.Inert() {
			t.Errorf("species %d converts with chemistry disabled", i)
		}
		if !reflect.DeepEqual(with[i].Profiles, without[i].Profiles) {
			t.Errorf("species %d profiles depend on the chemistry flag", i)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, _ := Generate(defaultParams(7, true), newRNG(99))
	b, _ := Generate(defaultParams(7, true), newRNG(99))
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different species")
	}
}

func TestGenerateRejectsBadParams(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"zero count", Params{Count: 0, MaxRadius: 1}},
		{"negative push", Params{Count: 2, MaxPushingAcc: -1, MaxRadius: 1}},
		{"negative radius", Params{Count: 2, MaxRadius: -1}},
		{"nan pull", Params{Count: 2, MaxPullingAcc: math.NaN(), MaxRadius: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Generate(tt.p, newRNG(1)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPaintAndRecords(t *testing.T) {
	types, err := Generate(defaultParams(3, true), newRNG(8))
	if err != nil {
		t.Fatal(err)
	}
	colors := []color.RGBA{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}}
	if err := Paint(types, colors); err != nil {
		t.Fatal(err)
	}
	if err := Paint(types, colors[:2]); err == nil {
		t.Error("Paint with too few colors should fail")
	}

	records := Records(types)
	if records[0].Color != "#ff0000" {
		t.Errorf("record color = %q, want #ff0000", records[0].Color)
	}
	for i, r := range records {
		if types[i].Conversion.Converts != (r.ConvertsTo != nil) {
			t.Errorf("record %d conversion mismatch", i)
		}
	}
}

func TestSummarize(t *testing.T) {
	types := make([]Type, 4)
	types[0].Conversion = Conversion{Converts: true, Target: 1, Catalysts: []bool{true, false, false, false}}
	types[1].Conversion = Conversion{Converts: true, Target: 0, Catalysts: []bool{true, false, false, false}}
	types[2].Profiles = []Profile{{Radii: []float64{1, 7}, Accels: []float64{-1, -1}}}

	s := Summarize(types)
	if s.Inert != 2 || s.Cycles != 1 || s.LongestCycle != 2 {
		t.Errorf("Summarize = %+v, want 2 inert, 1 cycle of length 2", s)
	}
	if s.MaxReach != 7 {
		t.Errorf("MaxReach = %v, want 7", s.MaxReach)
	}
}
