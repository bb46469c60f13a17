package aircraft

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Telemetry is a cockpit-style summary of the airplane. Angles are in
// degrees.
type Telemetry struct {
	Altitude      float64
	Airspeed      float64
	VerticalSpeed float64
	AngleOfAttack float64
	Heading       float64
	Pitch         float64
	Bank          float64
	Throttle      float64
}

// Telemetry reads the current state. Angle of attack is measured at the
// first surface against the current airflow, so it is valid before the
// first Update.
func (a *Airplane) Telemetry() Telemetry {
	body := a.body
	heading, pitch, bank := body.Pose().EulerAngles()

	t := Telemetry{
		Altitude:      body.Position[1],
		Airspeed:      body.Velocity.Sub(a.wind).Len(),
		VerticalSpeed: body.Velocity[1],
		Heading:       mgl64.RadToDeg(heading),
		Pitch:         mgl64.RadToDeg(pitch),
		Bank:          mgl64.RadToDeg(bank),
		Throttle:      a.engine.Throttle,
	}
	if len(a.wings) > 0 {
		w := a.wings[0]
		airflow := body.PointVelocity(w.Offset()).Sub(a.wind)
		t.AngleOfAttack = w.AngleOfAttack(body.InverseTransformDirection(airflow))
	}
	return t
}
