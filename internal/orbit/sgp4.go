package orbit

import (
	"fmt"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/RussAbbott/cubesat/internal/frame"
	"github.com/RussAbbott/cubesat/internal/sat"
)

// SGP4 drives a target body along a two-line-element ephemeris. Position and
// velocity come from SGP4 propagation in the ECI frame at epoch+t; the
// attitude tumbles kinematically like Linear. Commands are ignored.
//
// go-satellite works in kilometres; states are metres.
type SGP4 struct {
	sat       satellite.Satellite
	epoch     time.Time
	QuatFloor float64
}

// NewSGP4 parses the TLE lines and anchors simulated t=0 at epoch.
func NewSGP4(line1, line2 string, epoch time.Time) *SGP4 {
	return &SGP4{
		sat:       satellite.TLEToSat(line1, line2, satellite.GravityWGS72),
		epoch:     epoch,
		QuatFloor: sat.DefaultConfig().QuatTolerance,
	}
}

func (m *SGP4) Propagate(s sat.KinematicState, _ sat.Command, t, dt float64) (sat.KinematicState, error) {
	at := m.epoch.Add(time.Duration((t + dt) * float64(time.Second))).UTC()
	year, month, day := at.Date()
	hour, min, sec := at.Clock()

	pos, vel := satellite.Propagate(m.sat, year, int(month), day, hour, min, sec)

	const kmToM = 1000.0
	s.Position = frame.Vec3{X: pos.X * kmToM, Y: pos.Y * kmToM, Z: pos.Z * kmToM}
	s.Velocity = frame.Vec3{X: vel.X * kmToM, Y: vel.Y * kmToM, Z: vel.Z * kmToM}
	s.Attitude = tumble(s.Attitude, s.AngularVelocity, dt)

	q, err := s.Attitude.Normalize(m.QuatFloor)
	if err != nil {
		return sat.KinematicState{}, fmt.Errorf("%w: attitude norm collapsed", sat.ErrInvariant)
	}
	s.Attitude = q

	if !s.IsValid() {
		return sat.KinematicState{}, fmt.Errorf("%w: non-finite state from SGP4", sat.ErrDiverged)
	}
	return s, nil
}
