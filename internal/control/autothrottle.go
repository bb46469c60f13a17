package control

import (
	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/sim"
)

// Autothrottle holds airspeed by setting the engine throttle.
type Autothrottle struct {
	Target float64 // m/s

	pid      *PID
	airplane *aircraft.Airplane
	trim     float64
	prevT    float64
	started  bool
}

func NewAutothrottle(a *aircraft.Airplane, target, kp, ki, kd float64) *Autothrottle {
	pid := NewPID(kp, ki, kd)
	pid.Min, pid.Max = 0, 1
	at := &Autothrottle{Target: target, pid: pid, airplane: a, trim: a.Engine().Throttle}
	at.Reset()
	return at
}

// OnStep reads airspeed from s and commands the throttle for the next
// frame.
func (at *Autothrottle) OnStep(s sim.Sample) {
	dt := 0.0
	if at.started {
		dt = s.Time - at.prevT
	}
	at.prevT = s.Time
	at.started = true

	airspeed := s.Velocity.Sub(at.airplane.Wind()).Len()
	at.airplane.Engine().SetThrottle(at.pid.Update(at.Target-airspeed, dt))
}

// Reset clears the loop and preloads the integral so engaging holds the
// throttle the airplane was trimmed at.
func (at *Autothrottle) Reset() {
	at.pid.Reset()
	if at.pid.Ki != 0 {
		at.pid.integral = at.trim / at.pid.Ki
	}
	at.started = false
}

func (at *Autothrottle) PID() *PID { return at.pid }
