// Package control provides control laws for satellite bodies.
//
// Laws implement the [sat.Law] interface to compute an actuation command
// from the body's own state and, for tracking laws, the target's last
// committed state:
//
//   - [HoldAttitude]: PD regulator to a goal attitude
//   - [TrackTarget]: line-of-sight pointing plus standoff range keeping
//   - [StationKeep]: PID position hold with rate damping
//   - [None]: zero command
//
// Laws never see another body's in-progress state for the current tick; the
// simulator hands them the previous tick's committed snapshot.
package control
