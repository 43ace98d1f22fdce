package board

import "gonum.org/v1/gonum/spatial/r2"

// Tick phase names reported to a PhaseObserver.
const (
	PhaseInteraction = "interaction"
	PhaseIntegration = "integration"
	PhaseMigration   = "migration"
)

// PhaseObserver is told when each phase of a tick starts.
type PhaseObserver interface {
	StartPhase(phase string)
}

// TickStats counts the events of one tick.
type TickStats struct {
	Contacts    int // pairs closer than 1
	Triggers    int // catalyzable flags cleared by a catalyst
	Conversions int // species changes committed
	Migrations  int // particles that changed cell
}

// Add accumulates o into s.
func (s *TickStats) Add(o TickStats) {
	s.Contacts += o.Contacts
	s.Triggers += o.Triggers
	s.Conversions += o.Conversions
	s.Migrations += o.Migrations
}

// Tick advances the board by one step: interaction, integration, migration.
func (b *Board) Tick() {
	b.stats = TickStats{}

	b.startPhase(PhaseInteraction)
	if b.phases != nil {
		b.interactPhased()
	} else {
		b.interactSerial()
	}

	b.startPhase(PhaseIntegration)
	b.integrate()

	b.startPhase(PhaseMigration)
	b.migrate()

	b.tick++
}

func (b *Board) startPhase(phase string) {
	if b.observer != nil {
		b.observer.StartPhase(phase)
	}
}

// integrate applies quadratic drag, moves every particle and commits conversions.
func (b *Board) integrate() {
	drag := -b.resistance
	for i := range b.cells {
		cell := b.cells[i]
		for k := range cell {
			p := &cell[k]

			speed := r2.Norm(p.Vel)
			p.Vel = r2.Add(p.Vel, r2.Scale(speed*drag, p.Vel))
			p.Pos = r2.Add(p.Pos, p.Vel)

			if !p.Catalyzable {
				if conv := &b.types[p.Species].Conversion; conv.Converts {
					p.Species = conv.Target
					p.Catalyzable = b.types[p.Species].Conversion.Converts
					b.stats.Conversions++
				}
			}
		}
	}
}

// migrate rebuilds the cell buckets into the back buffer, moving every particle
// that left its cell into the neighbour it crossed into, then swaps buffers.
func (b *Board) migrate() {
	for i := range b.spare {
		b.spare[i] = b.spare[i][:0]
	}

	for i, cell := range b.cells {
		col, row := i%b.cols, i/b.cols
		for _, p := range cell {
			x, dc := wrapAxis(p.Pos.X, b.cellW)
			y, dr := wrapAxis(p.Pos.Y, b.cellH)

			dst := i
			if dc != 0 || dr != 0 {
				p.Pos = r2.Vec{X: x, Y: y}
				dst = wrapIndex(row+dr, b.rows)*b.cols + wrapIndex(col+dc, b.cols)
				b.stats.Migrations++
			}
			b.spare[dst] = append(b.spare[dst], p)
		}
	}

	b.cells, b.spare = b.spare, b.cells
}
