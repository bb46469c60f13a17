package control

import "math"

// PID is a discrete PID controller. Output is clamped to [Min, Max]; the
// integral only accumulates while the output is not saturated.
type PID struct {
	Kp, Ki, Kd float64
	Min, Max   float64

	integral float64
	prevErr  float64
	primed   bool
}

// NewPID returns an unbounded controller.
func NewPID(kp, ki, kd float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, Min: math.Inf(-1), Max: math.Inf(1)}
}

// Update feeds one error sample taken dt after the previous one. The
// first call has no derivative term.
func (p *PID) Update(err, dt float64) float64 {
	if !(dt > 0) {
		return p.clamp(p.Kp*err + p.Ki*p.integral)
	}

	var derivative float64
	if p.primed {
		derivative = (err - p.prevErr) / dt
	}
	p.prevErr = err
	p.primed = true

	integral := p.integral + err*dt
	u := p.Kp*err + p.Ki*integral + p.Kd*derivative
	if u >= p.Min && u <= p.Max {
		p.integral = integral
	}
	return p.clamp(u)
}

func (p *PID) clamp(u float64) float64 {
	return math.Max(p.Min, math.Min(p.Max, u))
}

// Reset clears integral and derivative state.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.primed = false
}

// Params returns the gains for display.
func (p *PID) Params() map[string]float64 {
	return map[string]float64{"kp": p.Kp, "ki": p.Ki, "kd": p.Kd}
}
