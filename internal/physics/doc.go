// Package physics implements the per-frame particle update: boundary
// bounce with restitution and pairwise impulse-based collision response.
//
// Two steppers are available, selected by name:
//
//   - [Discrete]: Euler integrate, then clamp-and-reflect at the bounds
//   - [Continuous]: continuous collision detection, advancing to the exact
//     sub-frame time of impact (up to [MaxBounceIterations] bounces per
//     frame)
//
// Both enforce the same policy: the position lands on the boundary and the
// offending velocity component is reflected and scaled by restitution.
//
// [Resolver] handles particle-particle overlap with an equal-mass impulse
// plus a percent/slop positional correction.
package physics
