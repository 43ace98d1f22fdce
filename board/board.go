// Package board implements the toroidal particle grid and its tick pipeline.
package board

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reactor/species"
)

// Particle is a point particle. Pos is local to the cell holding it.
type Particle struct {
	Species     int
	Catalyzable bool
	Pos         r2.Vec
	Vel         r2.Vec
}

// Params holds the immutable board configuration.
type Params struct {
	Cols, Rows         int
	Width, Height      float64
	TouchingPushingAcc float64
	Resistance         float64
	Workers            int // 0 = serial row-major, >= 1 = phased pass on that many workers
}

func (p Params) validate() error {
	var errs []error
	if p.Cols < 1 || p.Rows < 1 {
		errs = append(errs, fmt.Errorf("grid must be at least 1x1, got %dx%d", p.Cols, p.Rows))
	}
	if !finite(p.Width) || !finite(p.Height) || p.Width <= 0 || p.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive and finite, got %vx%v", p.Width, p.Height))
	}
	if !finite(p.TouchingPushingAcc) || p.TouchingPushingAcc < 0 {
		errs = append(errs, fmt.Errorf("touching pushing acceleration must be non-negative, got %v", p.TouchingPushingAcc))
	}
	if !finite(p.Resistance) || p.Resistance < 0 {
		errs = append(errs, fmt.Errorf("resistance must be non-negative, got %v", p.Resistance))
	}
	if p.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", p.Workers))
	}
	return errors.Join(errs...)
}

// link is one forward neighbour of a cell and the origin offset of that
// neighbour relative to the cell.
type link struct {
	cell int
	off  r2.Vec
}

// Board is a cols x rows toroidal grid of particle buckets.
// It is not safe for concurrent use; readers must not overlap a Tick.
type Board struct {
	cols, rows         int
	width, height      float64
	cellW, cellH       float64
	touchingPushingAcc float64
	resistance         float64

	types []species.Type
	cells [][]Particle
	spare [][]Particle // migration back buffer, swapped with cells every tick
	links [][4]link

	count    int
	tick     uint64
	stats    TickStats
	scratch  counters
	observer PhaseObserver

	phases [][]int // nil when the interaction pass is serial
	pool   *workerPool
}

// New creates an empty board for the given species.
func New(p Params, types []species.Type) (*Board, error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}
	if err := validateTypes(types); err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}

	n := p.Cols * p.Rows
	b := &Board{
		cols:               p.Cols,
		rows:               p.Rows,
		width:              p.Width,
		height:             p.Height,
		cellW:              p.Width / float64(p.Cols),
		cellH:              p.Height / float64(p.Rows),
		touchingPushingAcc: p.TouchingPushingAcc,
		resistance:         p.Resistance,
		types:              types,
		cells:              make([][]Particle, n),
		spare:              make([][]Particle, n),
	}
	b.buildLinks()

	if p.Workers >= 1 {
		if b.cols%3 != 0 || b.rows%2 != 0 {
			slog.Warn("phased interaction disabled",
				"reason", "grid_cols must be a multiple of 3 and grid_rows a multiple of 2",
				"cols", b.cols, "rows", b.rows,
			)
		} else {
			b.phases = buildPhases(b.cols, b.rows)
			b.pool = newWorkerPool(p.Workers)
		}
	}

	return b, nil
}

func validateTypes(types []species.Type) error {
	n := len(types)
	if n == 0 {
		return fmt.Errorf("at least one species is required")
	}
	for i, t := range types {
		if len(t.Profiles) != n {
			return fmt.Errorf("species %d has %d profiles, want %d", i, len(t.Profiles), n)
		}
		if !t.Conversion.Converts {
			continue
		}
		c := t.Conversion
		if c.Target < 0 || c.Target >= n {
			return fmt.Errorf("species %d converts to unknown species %d", i, c.Target)
		}
		if len(c.Catalysts) != n {
			return fmt.Errorf("species %d has %d catalyst entries, want %d", i, len(c.Catalysts), n)
		}
	}
	return nil
}

// buildLinks precomputes the east, south-west, south and south-east neighbours.
// Together with same-cell pairs they cover every pair of adjacent cells once.
func (b *Board) buildLinks() {
	b.links = make([][4]link, len(b.cells))
	for row := 0; row < b.rows; row++ {
		south := wrapIndex(row+1, b.rows)
		for col := 0; col < b.cols; col++ {
			east := wrapIndex(col+1, b.cols)
			west := wrapIndex(col-1, b.cols)
			b.links[row*b.cols+col] = [4]link{
				{cell: row*b.cols + east, off: r2.Vec{X: b.cellW}},
				{cell: south*b.cols + west, off: r2.Vec{X: -b.cellW, Y: b.cellH}},
				{cell: south*b.cols + col, off: r2.Vec{Y: b.cellH}},
				{cell: south*b.cols + east, off: r2.Vec{X: b.cellW, Y: b.cellH}},
			}
		}
	}
}

// Populate places count particles at uniform random world positions with uniform
// random species. Converting species start catalyzable, inert ones start spent.
func (b *Board) Populate(count int, rng *rand.Rand) {
	if per := count / len(b.cells) * 2; per > 0 {
		for i := range b.cells {
			if cap(b.cells[i]) < per {
				b.cells[i] = make([]Particle, 0, per)
				b.spare[i] = make([]Particle, 0, per)
			}
		}
	}

	for i := 0; i < count; i++ {
		x := rng.Float64() * b.width
		y := rng.Float64() * b.height
		s := rng.IntN(len(b.types))
		b.place(s, x, y, r2.Vec{})
	}
}

// Place adds one particle of species s at world position (x, y).
func (b *Board) Place(s int, x, y float64, vel r2.Vec) error {
	if s < 0 || s >= len(b.types) {
		return fmt.Errorf("placing particle: unknown species %d", s)
	}
	if !finite(x) || !finite(y) {
		return fmt.Errorf("placing particle: position (%v, %v) is not finite", x, y)
	}
	b.place(s, x, y, vel)
	return nil
}

// PlaceInCell adds one particle of species s to cell (col, row) at cell-local
// position pos. Particles of a cell keep their insertion order.
func (b *Board) PlaceInCell(s, col, row int, pos, vel r2.Vec) error {
	if s < 0 || s >= len(b.types) {
		return fmt.Errorf("placing particle: unknown species %d", s)
	}
	if col < 0 || col >= b.cols || row < 0 || row >= b.rows {
		return fmt.Errorf("placing particle: cell (%d, %d) outside %dx%d grid", col, row, b.cols, b.rows)
	}
	if !(pos.X >= 0 && pos.X < b.cellW && pos.Y >= 0 && pos.Y < b.cellH) {
		return fmt.Errorf("placing particle: local position %v outside cell", pos)
	}
	if !finite(vel.X) || !finite(vel.Y) {
		return fmt.Errorf("placing particle: velocity %v is not finite", vel)
	}

	idx := row*b.cols + col
	b.cells[idx] = append(b.cells[idx], Particle{
		Species:     s,
		Catalyzable: b.types[s].Conversion.Converts,
		Pos:         pos,
		Vel:         vel,
	})
	b.count++
	return nil
}

// SetTicks sets the completed tick counter, for resuming a saved run.
func (b *Board) SetTicks(n uint64) { b.tick = n }

func (b *Board) place(s int, x, y float64, vel r2.Vec) {
	lx, col := wrapAxis(x, b.cellW)
	ly, row := wrapAxis(y, b.cellH)
	idx := wrapIndex(row, b.rows)*b.cols + wrapIndex(col, b.cols)

	b.cells[idx] = append(b.cells[idx], Particle{
		Species:     s,
		Catalyzable: b.types[s].Conversion.Converts,
		Pos:         r2.Vec{X: lx, Y: ly},
		Vel:         vel,
	})
	b.count++
}

// Close stops the interaction workers, if any.
func (b *Board) Close() {
	if b.pool != nil {
		b.pool.stop()
	}
}

// Cols returns the number of grid columns.
func (b *Board) Cols() int { return b.cols }

// Rows returns the number of grid rows.
func (b *Board) Rows() int { return b.rows }

// CellSize returns the width and height of one cell.
func (b *Board) CellSize() (w, h float64) { return b.cellW, b.cellH }

// Size returns the world width and height.
func (b *Board) Size() (w, h float64) { return b.width, b.height }

// Count returns the number of particles on the board.
func (b *Board) Count() int { return b.count }

// Ticks returns the number of completed ticks.
func (b *Board) Ticks() uint64 { return b.tick }

// LastTick returns the event counters of the most recent tick.
func (b *Board) LastTick() TickStats { return b.stats }

// Species returns the species table. It must not be modified.
func (b *Board) Species() []species.Type { return b.types }

// Phased reports whether the interaction pass runs in colour phases.
func (b *Board) Phased() bool { return b.phases != nil }

// SetObserver registers o to be told when each tick phase starts. nil clears it.
func (b *Board) SetObserver(o PhaseObserver) { b.observer = o }

// CellView is a read-only view of one cell. It is valid until the next Tick.
type CellView struct {
	Col, Row  int
	Origin    r2.Vec
	particles []Particle
}

// Len returns the number of particles in the cell.
func (v CellView) Len() int { return len(v.particles) }

// At returns a copy of the i-th particle.
func (v CellView) At(i int) Particle { return v.particles[i] }

// World returns the world position of the i-th particle.
func (v CellView) World(i int) r2.Vec { return r2.Add(v.Origin, v.particles[i].Pos) }

// Cell returns a view of the cell at (col, row), wrapping out of range indices.
func (b *Board) Cell(col, row int) CellView {
	col = wrapIndex(col, b.cols)
	row = wrapIndex(row, b.rows)
	return CellView{
		Col:       col,
		Row:       row,
		Origin:    r2.Vec{X: float64(col) * b.cellW, Y: float64(row) * b.cellH},
		particles: b.cells[row*b.cols+col],
	}
}

// Each calls fn for every cell in row-major order.
func (b *Board) Each(fn func(v CellView)) {
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			fn(b.Cell(col, row))
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
