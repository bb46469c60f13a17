package aircraft

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/flightsim/internal/dynamo"
)

// Engine pushes the body along its forward axis.
type Engine struct {
	Offset    mgl64.Vec3
	MaxThrust float64 // newtons
	Throttle  float64 // 0..1
}

// SetThrottle clamps t into [0, 1].
func (e *Engine) SetThrottle(t float64) {
	if math.IsNaN(t) {
		t = 0
	}
	e.Throttle = math.Max(0, math.Min(1, t))
}

// Thrust returns the current thrust in newtons.
func (e *Engine) Thrust() float64 {
	return e.MaxThrust * e.Throttle
}

// ApplyForces accumulates the thrust into body.
func (e *Engine) ApplyForces(body *dynamo.RigidBody) {
	thrust := e.Thrust()
	if thrust == 0 {
		return
	}
	body.AddForceAtPoint(dynamo.Forward.Mul(thrust), e.Offset)
}
