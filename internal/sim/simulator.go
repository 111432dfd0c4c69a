package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/particlebox/internal/physics"
	"github.com/san-kum/particlebox/internal/world"
)

// Simulator runs the update loop: step every particle, resolve every
// unordered pair, notify metrics and observers. Single-threaded and
// deterministic; all randomness lives in world seeding.
type Simulator struct {
	stepper   physics.Stepper
	resolver  *physics.Resolver
	metrics   []Metric
	observers []Observer
}

func New(stepper physics.Stepper, resolver *physics.Resolver) *Simulator {
	return &Simulator{
		stepper:  stepper,
		resolver: resolver,
		metrics:  make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Advance runs one frame in place.
func (s *Simulator) Advance(w *world.World, dt float64) {
	for i := range w.Particles {
		s.stepper.Step(&w.Particles[i], w.Bounds, dt)
	}
	s.resolver.ResolveAll(w)
}

// Run executes a fixed-dt simulation of cfg.Duration seconds, mutating w
// and recording every frame. Cancelling ctx stops the loop at the next
// frame boundary and returns the partial result with the context error.
func (s *Simulator) Run(ctx context.Context, w *world.World, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Frames:  make([][]float64, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	result.Frames = append(result.Frames, w.StateVector())
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.Advance(w, cfg.Dt)
		t += cfg.Dt

		for _, m := range s.metrics {
			m.Observe(w, t)
		}
		for _, obs := range s.observers {
			obs.OnFrame(w, t)
		}

		result.Frames = append(result.Frames, w.StateVector())
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback drives the loop for live front ends. The callback runs
// after every frame; returning false stops the loop cleanly.
func (s *Simulator) RunWithCallback(ctx context.Context, w *world.World, cfg Config, callback func(w *world.World, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Advance(w, cfg.Dt)
		t += cfg.Dt

		if !callback(w, t) {
			return nil
		}
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
