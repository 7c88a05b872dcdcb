// Package orbit provides dynamics models implementing [sat.Model].
//
//   - [TwoBody]: point-mass gravity plus Euler rigid-body rotation, the
//     model for actuated satellites
//   - [Linear]: constant-velocity translation with a constant body-rate
//     tumble, the trivial target motion profile
//   - [SGP4]: TLE-driven target motion via the go-satellite propagator
//
// All models are pure: propagation is a function of (state, command, t, dt)
// with no retained state, so one model instance may serve parallel workers.
package orbit
