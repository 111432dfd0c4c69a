package metrics

import (
	"github.com/san-kum/particlebox/internal/world"
)

// Energy averages total mechanical energy (kinetic plus gravitational
// above the floor) over the run. With restitution below 1 the average
// decays; a rising value points at an amplifying collision bug.
type Energy struct {
	name    string
	gravity float64
	total   float64
	samples int
}

func NewEnergy(gravity float64) *Energy {
	return &Energy{name: "energy", gravity: gravity}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *world.World, t float64) {
	e.total += w.Energy(e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// MaxSpeed tracks the fastest particle speed seen over the run.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(w *world.World, t float64) {
	for i := range w.Particles {
		if s := w.Particles[i].Vel.Length(); s > m.max {
			m.max = s
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// Overlap tracks the deepest pairwise penetration left after resolution.
// Values near the resolver slop mean the positional correction is keeping
// up; growing values mean the population is too dense for the dt.
type Overlap struct {
	name string
	max  float64
}

func NewOverlap() *Overlap {
	return &Overlap{name: "max_overlap"}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(w *world.World, t float64) {
	ps := w.Particles
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			radiusSum := ps[i].Radius + ps[j].Radius
			distSq := ps[j].Pos.Sub(ps[i].Pos).LengthSq()
			if distSq >= radiusSum*radiusSum {
				continue
			}
			pen := radiusSum - ps[j].Pos.Sub(ps[i].Pos).Length()
			if pen > o.max {
				o.max = pen
			}
		}
	}
}

func (o *Overlap) Value() float64 { return o.max }
func (o *Overlap) Reset()         { o.max = 0 }
