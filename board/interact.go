package board

import "gonum.org/v1/gonum/spatial/r2"

// counters accumulates interaction events. Each worker owns one.
type counters struct {
	contacts int
	triggers int
}

func (c *counters) flush(s *TickStats) {
	s.Contacts += c.contacts
	s.Triggers += c.triggers
	*c = counters{}
}

// interactSerial runs the interaction pass over every cell in row-major order.
func (b *Board) interactSerial() {
	for i := range b.cells {
		b.interactCell(i, &b.scratch)
	}
	b.scratch.flush(&b.stats)
}

// interactCell handles every pair inside cell i and every pair between cell i and
// its four forward neighbours.
func (b *Board) interactCell(i int, c *counters) {
	cell := b.cells[i]
	links := &b.links[i]

	for a := range cell {
		p := &cell[a]
		for _, l := range links {
			other := b.cells[l.cell]
			for k := range other {
				b.interact(p, &other[k], l.off, c)
			}
		}
		for k := a + 1; k < len(cell); k++ {
			b.interact(p, &cell[k], r2.Vec{}, c)
		}
	}
}

// interact applies contact chemistry, contact repulsion and both field forces to a
// pair. off is added to p2's position to bring it into p1's frame. p1 and p2 may be
// the same particle when a 1-wide grid links a cell to itself.
func (b *Board) interact(p1, p2 *Particle, off r2.Vec, c *counters) {
	delta := r2.Sub(r2.Add(p2.Pos, off), p1.Pos)
	d := r2.Norm(delta)
	s1, s2 := p1.Species, p2.Species

	if d < 1 {
		c.contacts++

		if p1.Catalyzable && b.types[s1].Conversion.CatalyzedBy(s2) {
			p1.Catalyzable = false
			c.triggers++
		}
		if p2.Catalyzable && b.types[s2].Conversion.CatalyzedBy(s1) {
			p2.Catalyzable = false
			c.triggers++
		}

		if d > 0 {
			push := r2.Scale(-b.touchingPushingAcc*(1-d)/d, delta)
			p1.Vel = r2.Add(p1.Vel, push)
			p2.Vel = r2.Sub(p2.Vel, push)
		}
	}

	// Coincident particles have no direction to push along
	if d == 0 {
		return
	}

	if acc := b.types[s1].Profiles[s2].At(d); acc != 0 {
		p1.Vel = r2.Add(p1.Vel, r2.Scale(acc/d, delta))
	}
	if acc := b.types[s2].Profiles[s1].At(d); acc != 0 {
		p2.Vel = r2.Sub(p2.Vel, r2.Scale(acc/d, delta))
	}
}
