package sim

import "github.com/san-kum/particlebox/internal/world"

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(w *world.World, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed frame.
type Observer interface {
	OnFrame(w *world.World, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
}

// Result holds a completed run: one flattened state vector per frame,
// frame times, and final metric values.
type Result struct {
	Frames  [][]float64
	Times   []float64
	Metrics map[string]float64
}
