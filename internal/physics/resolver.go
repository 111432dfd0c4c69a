package physics

import (
	"math"

	"github.com/san-kum/particlebox/internal/world"
)

// coincidentEpsilon is the center distance below which two particles are
// treated as coincident and an arbitrary separation normal is substituted
// to avoid dividing by zero.
const coincidentEpsilon = 1e-9

// Resolver applies impulse-based collision response between particle
// pairs, assuming equal unit mass for every particle. Overlap left after
// the velocity impulse is damped out over several frames by a fractional
// positional correction rather than removed at once, which avoids jitter
// from fighting floating-point noise.
type Resolver struct {
	// Restitution is the fraction of relative normal velocity retained
	// after a collision (1.0 = perfectly elastic).
	Restitution float64
	// CorrectionPercent is the fraction of the penetration depth corrected
	// per call.
	CorrectionPercent float64
	// Slop is the penetration depth tolerated without correction.
	Slop float64
}

func NewResolver(restitution, correctionPercent, slop float64) *Resolver {
	return &Resolver{
		Restitution:       restitution,
		CorrectionPercent: correctionPercent,
		Slop:              slop,
	}
}

// Resolve detects and resolves an overlap between a and b in place.
// The common case is no overlap, rejected on squared distance alone.
// A separating pair receives no impulse; positional correction still
// applies while penetration exceeds the slop.
func (r *Resolver) Resolve(a, b *world.Particle) {
	delta := b.Pos.Sub(a.Pos)
	distSq := delta.LengthSq()
	radiusSum := a.Radius + b.Radius

	if distSq >= radiusSum*radiusSum {
		return
	}

	dist := math.Sqrt(distSq)
	var normal world.Vec2
	if dist < coincidentEpsilon {
		normal = world.Vec2{X: 1, Y: 0}
		dist = 0
	} else {
		inv := 1.0 / dist
		normal = world.Vec2{X: delta.X * inv, Y: delta.Y * inv}
	}
	penetration := radiusSum - dist

	relVel := b.Vel.Sub(a.Vel)
	velAlongNormal := relVel.Dot(normal)

	if velAlongNormal < 0 {
		// Equal masses: each body takes half the impulse.
		j := -(1 + r.Restitution) * velAlongNormal / 2
		impulse := normal.Scale(j)
		a.Vel = a.Vel.Sub(impulse)
		b.Vel = b.Vel.Add(impulse)
	}

	if penetration > r.Slop {
		correction := normal.Scale(r.CorrectionPercent * (penetration - r.Slop) / 2)
		a.Pos = a.Pos.Sub(correction)
		b.Pos = b.Pos.Add(correction)
	}
}

// ResolveAll resolves every unordered pair once, in index order. O(n^2)
// over the particle count; fine for tens to low hundreds of particles.
func (r *Resolver) ResolveAll(w *world.World) {
	ps := w.Particles
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			r.Resolve(&ps[i], &ps[j])
		}
	}
}
