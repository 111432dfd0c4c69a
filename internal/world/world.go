package world

import (
	"fmt"
	"math/rand"
)

// Particle is one simulated body. Particles have no identity beyond their
// slice index.
type Particle struct {
	Pos    Vec2
	Vel    Vec2
	Radius float64
}

// World owns the flat particle collection and the rectangular bounds the
// particles live in. The slice is allocated once and mutated in place for
// the lifetime of a simulation.
type World struct {
	Particles []Particle
	Bounds    Vec2
}

// SeedConfig describes the initial particle population.
type SeedConfig struct {
	Count    int
	Width    float64
	Height   float64
	Radius   float64
	MaxSpeed float64
	Seed     int64
}

// New seeds a world from cfg. Positions are uniform inside the legal
// region [radius, extent-radius] on both axes, velocities uniform in
// [-MaxSpeed, MaxSpeed]. The same seed always produces the same world.
func New(cfg SeedConfig) (*World, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("world: particle count must be positive, got %d", cfg.Count)
	}
	if cfg.Radius <= 0 {
		return nil, fmt.Errorf("world: radius must be positive, got %f", cfg.Radius)
	}
	if cfg.Width < 2*cfg.Radius || cfg.Height < 2*cfg.Radius {
		return nil, fmt.Errorf("world: bounds %gx%g cannot hold a particle of radius %g",
			cfg.Width, cfg.Height, cfg.Radius)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	w := &World{
		Particles: make([]Particle, cfg.Count),
		Bounds:    Vec2{X: cfg.Width, Y: cfg.Height},
	}
	for i := range w.Particles {
		w.Particles[i] = Particle{
			Pos: Vec2{
				X: cfg.Radius + rng.Float64()*(cfg.Width-2*cfg.Radius),
				Y: cfg.Radius + rng.Float64()*(cfg.Height-2*cfg.Radius),
			},
			Vel: Vec2{
				X: (rng.Float64()*2 - 1) * cfg.MaxSpeed,
				Y: (rng.Float64()*2 - 1) * cfg.MaxSpeed,
			},
			Radius: cfg.Radius,
		}
	}
	return w, nil
}

func (w *World) Clone() *World {
	c := &World{
		Particles: make([]Particle, len(w.Particles)),
		Bounds:    w.Bounds,
	}
	copy(c.Particles, w.Particles)
	return c
}

// StateVector flattens the world to [x0, y0, vx0, vy0, x1, ...].
func (w *World) StateVector() []float64 {
	s := make([]float64, len(w.Particles)*4)
	for i, p := range w.Particles {
		s[i*4] = p.Pos.X
		s[i*4+1] = p.Pos.Y
		s[i*4+2] = p.Vel.X
		s[i*4+3] = p.Vel.Y
	}
	return s
}

func (w *World) IsValid() bool {
	for i := range w.Particles {
		if !w.Particles[i].Pos.IsValid() || !w.Particles[i].Vel.IsValid() {
			return false
		}
	}
	return true
}

// InBounds reports whether every particle obeys the position invariant
// radius <= pos <= extent-radius on both axes.
func (w *World) InBounds() bool {
	for i := range w.Particles {
		p := &w.Particles[i]
		if p.Pos.X < p.Radius || p.Pos.X > w.Bounds.X-p.Radius {
			return false
		}
		if p.Pos.Y < p.Radius || p.Pos.Y > w.Bounds.Y-p.Radius {
			return false
		}
	}
	return true
}

func (w *World) KineticEnergy() float64 {
	ke := 0.0
	for i := range w.Particles {
		ke += 0.5 * w.Particles[i].Vel.LengthSq()
	}
	return ke
}

// Energy is kinetic plus gravitational potential per unit mass. Screen
// coordinates grow downward, so height is measured from the floor at
// extent-radius up to the particle center.
func (w *World) Energy(gravity float64) float64 {
	e := w.KineticEnergy()
	for i := range w.Particles {
		p := &w.Particles[i]
		h := (w.Bounds.Y - p.Radius) - p.Pos.Y
		e += gravity * h
	}
	return e
}
