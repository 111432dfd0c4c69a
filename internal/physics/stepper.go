package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/particlebox/internal/world"
)

// MaxBounceIterations caps the number of boundary bounces resolved within
// a single frame. Leftover time after the cap is dropped, which bounds
// worst-case work on pathological corner bounces.
const MaxBounceIterations = 5

// Stepper advances one particle by dt, keeping it inside
// [radius, extent-radius] on both axes. Boundary handling is
// clamp-then-reflect: the position lands on the boundary and the offending
// velocity component is negated and scaled by the restitution coefficient.
type Stepper interface {
	Step(p *world.Particle, bounds world.Vec2, dt float64)
}

// Discrete integrates a full Euler step and then clamps. Fast and good
// enough at small dt; a fast particle can tunnel a short distance past the
// boundary before the clamp pulls it back.
type Discrete struct {
	Gravity     float64
	Restitution float64
}

func NewDiscrete(gravity, restitution float64) *Discrete {
	return &Discrete{Gravity: gravity, Restitution: restitution}
}

func (d *Discrete) Step(p *world.Particle, bounds world.Vec2, dt float64) {
	p.Vel.Y += d.Gravity * dt
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	clampReflect(p, bounds, d.Restitution)
}

// Continuous estimates the exact sub-frame time each boundary is reached
// and advances in sub-steps, so a bounce consumes only the time up to
// impact and the reflected velocity spends the rest of the frame.
type Continuous struct {
	Gravity     float64
	Restitution float64
}

func NewContinuous(gravity, restitution float64) *Continuous {
	return &Continuous{Gravity: gravity, Restitution: restitution}
}

func (c *Continuous) Step(p *world.Particle, bounds world.Vec2, dt float64) {
	p.Vel.Y += c.Gravity * dt

	// A particle starting outside the legal region has no meaningful time
	// of impact; re-establish the invariant first.
	clampReflect(p, bounds, c.Restitution)

	remaining := dt
	for iter := 0; iter < MaxBounceIterations && remaining > 0; iter++ {
		tx := timeToImpact(p.Pos.X, p.Vel.X, p.Radius, bounds.X, remaining)
		ty := timeToImpact(p.Pos.Y, p.Vel.Y, p.Radius, bounds.Y, remaining)

		t := math.Min(tx, ty)
		if t > remaining {
			p.Pos = p.Pos.Add(p.Vel.Scale(remaining))
			return
		}

		p.Pos = p.Pos.Add(p.Vel.Scale(t))
		remaining -= t

		// x wins exact ties.
		if tx <= ty {
			if p.Vel.X > 0 {
				p.Pos.X = bounds.X - p.Radius
			} else {
				p.Pos.X = p.Radius
			}
			p.Vel.X = -p.Vel.X * c.Restitution
		} else {
			if p.Vel.Y > 0 {
				p.Pos.Y = bounds.Y - p.Radius
			} else {
				p.Pos.Y = p.Radius
			}
			p.Vel.Y = -p.Vel.Y * c.Restitution
		}
	}
}

// timeToImpact returns the time until pos crosses the near or far boundary
// given its velocity, or +Inf when no crossing happens within remaining.
// Zero velocity never produces a hit.
func timeToImpact(pos, vel, radius, extent, remaining float64) float64 {
	if vel > 0 {
		far := extent - radius
		if pos+vel*remaining > far {
			return (far - pos) / vel
		}
	} else if vel < 0 {
		if pos+vel*remaining < radius {
			return (radius - pos) / vel
		}
	}
	return math.Inf(1)
}

// clampReflect snaps an out-of-bounds coordinate onto the boundary and
// reflects the velocity component if it still points outward.
func clampReflect(p *world.Particle, bounds world.Vec2, restitution float64) {
	if p.Pos.X < p.Radius {
		p.Pos.X = p.Radius
		if p.Vel.X < 0 {
			p.Vel.X = -p.Vel.X * restitution
		}
	} else if p.Pos.X > bounds.X-p.Radius {
		p.Pos.X = bounds.X - p.Radius
		if p.Vel.X > 0 {
			p.Vel.X = -p.Vel.X * restitution
		}
	}

	if p.Pos.Y < p.Radius {
		p.Pos.Y = p.Radius
		if p.Vel.Y < 0 {
			p.Vel.Y = -p.Vel.Y * restitution
		}
	} else if p.Pos.Y > bounds.Y-p.Radius {
		p.Pos.Y = bounds.Y - p.Radius
		if p.Vel.Y > 0 {
			p.Vel.Y = -p.Vel.Y * restitution
		}
	}
}

// NewStepper builds a stepper by name: "discrete" or "continuous".
func NewStepper(name string, gravity, restitution float64) (Stepper, error) {
	switch name {
	case "discrete":
		return NewDiscrete(gravity, restitution), nil
	case "continuous":
		return NewContinuous(gravity, restitution), nil
	default:
		return nil, fmt.Errorf("unknown stepper: %s (available: %v)", name, StepperNames())
	}
}

func StepperNames() []string {
	return []string{"continuous", "discrete"}
}
