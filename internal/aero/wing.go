package aero

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/flightsim/internal/dynamo"
)

// SimplifiedPressureFactor scales v² * C * A into a force. The full
// dynamic pressure would be 0.5 * rho.
const SimplifiedPressureFactor = 1.0

// minAirspeed is the airspeed below which a surface produces no force.
const minAirspeed = 1e-6

// Body is the part of a rigid body a surface reads from and writes to.
type Body interface {
	PointVelocity(point mgl64.Vec3) mgl64.Vec3
	InverseTransformDirection(d mgl64.Vec3) mgl64.Vec3
	AddForceAtPoint(force, point mgl64.Vec3)
}

// WingParams describes a surface. A zero Normal means dynamo.Up; nil
// curves mean zero coefficients; a zero PressureFactor means
// SimplifiedPressureFactor.
type WingParams struct {
	Name           string
	Offset         mgl64.Vec3
	Area           float64
	Normal         mgl64.Vec3
	Lift           *Curve
	Drag           *Curve
	PressureFactor float64
}

// Wing is an aerodynamic surface fixed to a body. Its geometry never
// changes after construction.
type Wing struct {
	name           string
	offset         mgl64.Vec3
	area           float64
	normal         mgl64.Vec3
	span           mgl64.Vec3
	lift, drag     *Curve
	pressureFactor float64
}

// Airload is the result of one surface evaluation. Forces are in body
// space.
type Airload struct {
	Airspeed      float64
	AngleOfAttack float64 // degrees
	Lift          mgl64.Vec3
	Drag          mgl64.Vec3
}

// Total returns lift plus drag.
func (a Airload) Total() mgl64.Vec3 { return a.Lift.Add(a.Drag) }

// NewWing validates p and derives the span axis from the normal.
func NewWing(p WingParams) (*Wing, error) {
	if !(p.Area > 0) || math.IsInf(p.Area, 0) {
		return nil, fmt.Errorf("wing %q area %v: %w", p.Name, p.Area, ErrNonPositiveArea)
	}

	normal := p.Normal
	if normal.Len() == 0 {
		normal = dynamo.Up
	}
	normal = normal.Normalize()

	span := dynamo.Forward.Cross(normal)
	if span.Len() < 1e-9 {
		return nil, fmt.Errorf("wing %q: normal %v is parallel to the chord", p.Name, p.Normal)
	}

	w := &Wing{
		name:           p.Name,
		offset:         p.Offset,
		area:           p.Area,
		normal:         normal,
		span:           span.Normalize(),
		lift:           p.Lift,
		drag:           p.Drag,
		pressureFactor: p.PressureFactor,
	}
	if w.lift == nil {
		w.lift = zeroCurve
	}
	if w.drag == nil {
		w.drag = zeroCurve
	}
	if w.pressureFactor == 0 {
		w.pressureFactor = SimplifiedPressureFactor
	}
	return w, nil
}

func (w *Wing) Name() string       { return w.name }
func (w *Wing) Offset() mgl64.Vec3 { return w.offset }
func (w *Wing) Area() float64      { return w.area }
func (w *Wing) Normal() mgl64.Vec3 { return w.normal }
func (w *Wing) Span() mgl64.Vec3   { return w.span }

// LiftCoefficient samples the lift curve at aoa degrees, folded by
// FoldAngle.
func (w *Wing) LiftCoefficient(aoa float64) float64 { return w.lift.Sample(FoldAngle(aoa)) }

// DragCoefficient samples the drag curve at aoa degrees, folded by
// FoldAngle.
func (w *Wing) DragCoefficient(aoa float64) float64 { return w.drag.Sample(FoldAngle(aoa)) }

// FoldAngle maps an angle of attack in degrees onto [-90, 90]. Air
// arriving trailing edge first sees the section mirrored, so 180-a reads
// like -a and fully reversed flow reads like 0.
func FoldAngle(aoa float64) float64 {
	switch {
	case aoa > 90:
		return aoa - 180
	case aoa < -90:
		return aoa + 180
	}
	return aoa
}

// Lift returns the lift magnitude at aoa degrees and the given airspeed.
func (w *Wing) Lift(aoa, speed float64) float64 {
	return w.pressureFactor * speed * speed * w.LiftCoefficient(aoa) * w.area
}

// Drag returns the drag magnitude at aoa degrees and the given airspeed.
func (w *Wing) Drag(aoa, speed float64) float64 {
	return w.pressureFactor * speed * speed * w.DragCoefficient(aoa) * w.area
}

// AngleOfAttack returns the angle in degrees between the chord and a
// body-space velocity, measured in the chord/normal plane. It is positive
// when the air arrives from the side opposite the normal.
func (w *Wing) AngleOfAttack(velocity mgl64.Vec3) float64 {
	along := velocity.Dot(dynamo.Forward)
	across := velocity.Dot(w.normal)
	if along == 0 && across == 0 {
		return 0
	}
	return mgl64.RadToDeg(math.Atan2(-across, along))
}

// ApplyForces evaluates the surface in still air and accumulates the
// resulting forces into body.
func (w *Wing) ApplyForces(body Body) Airload {
	return w.ApplyForcesInWind(body, mgl64.Vec3{})
}

// ApplyForcesInWind evaluates the surface against a uniform world-space
// wind. Below minAirspeed nothing is applied.
func (w *Wing) ApplyForcesInWind(body Body, wind mgl64.Vec3) Airload {
	airflow := body.PointVelocity(w.offset).Sub(wind)
	local := body.InverseTransformDirection(airflow)

	speed := local.Len()
	if speed < minAirspeed {
		return Airload{}
	}

	dragDir := local.Mul(-1 / speed)
	liftDir := dragDir.Cross(w.span)
	if l := liftDir.Len(); l > 1e-9 {
		liftDir = liftDir.Mul(1 / l)
	} else {
		// airflow along the span: no lift
		liftDir = mgl64.Vec3{}
	}

	aoa := w.AngleOfAttack(local)
	load := Airload{
		Airspeed:      speed,
		AngleOfAttack: aoa,
		Lift:          liftDir.Mul(w.Lift(aoa, speed)),
		Drag:          dragDir.Mul(w.Drag(aoa, speed)),
	}

	body.AddForceAtPoint(load.Lift, w.offset)
	body.AddForceAtPoint(load.Drag, w.offset)
	return load
}
