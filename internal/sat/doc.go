// Package sat provides core simulation primitives for satellite bodies.
//
// The package defines the fundamental types and interfaces shared by the
// dynamics, constraint, control, and simulation packages:
//
//   - [KinematicState]: position, velocity, attitude, angular velocity
//   - [Command]: proposed force/torque actuation for one tick
//   - [Body]: a simulated object (satellite variants and targets)
//   - [Model]: dynamics model propagating a state over one time step
//   - [Policy]: capability constraint filtering commands per variant
//   - [Law]: control law computing a desired command each tick
//
// # Conventions
//
// Positions and velocities are metres and metres per second in an inertial
// frame. Attitude quaternions map body-frame vectors to the inertial frame.
// Angular velocity and commanded torque are body-frame. Commanded force is
// inertial-frame.
//
// # Thread Safety
//
// Bodies are not thread-safe; the simulator guarantees each body is touched
// by exactly one worker per tick.
package sat
