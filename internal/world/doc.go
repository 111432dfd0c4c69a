// Package world holds the particle data model: 2D vectors, particle
// records, and the World that owns the flat particle collection for the
// lifetime of a simulation.
//
// Positions are in pixels and velocities in pixels per second. The
// position invariant maintained by the physics steppers is
//
//	radius <= pos <= extent - radius
//
// on both axes after every update step.
package world
