// Package aircraft assembles a rigid body, its aerodynamic surfaces and an
// engine into an airplane that advances one frame at a time.
package aircraft

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/flightsim/internal/aero"
	"github.com/san-kum/flightsim/internal/dynamo"
)

// ErrDuplicateWing indicates two wings sharing a name, which would make
// Wing lookups ambiguous.
var ErrDuplicateWing = errors.New("aircraft: duplicate wing name")

// Params describes an airplane at construction. Zero Dimensions mean a
// unit cube for the inertia tensor. Nil Wings mean DefaultWings with zero
// coefficients.
type Params struct {
	Mass            float64
	Dimensions      mgl64.Vec3
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	DisableGravity  bool
	Wings           []aero.WingParams
	Engine          Engine
	Wind            mgl64.Vec3
}

// Airplane owns one rigid body and a fixed set of surfaces.
type Airplane struct {
	body   *dynamo.RigidBody
	wings  []*aero.Wing
	loads  []aero.Airload
	engine Engine
	wind   mgl64.Vec3
}

// DefaultWings returns the wing, elevator and rudder layout, all sharing
// the given curves.
func DefaultWings(lift, drag *aero.Curve) []aero.WingParams {
	return []aero.WingParams{
		{Name: "wing", Offset: mgl64.Vec3{0.5, 0, 0}, Area: 10, Lift: lift, Drag: drag},
		{Name: "elevator", Offset: mgl64.Vec3{-1, 0, 0}, Area: 2.5, Lift: lift, Drag: drag},
		{Name: "rudder", Offset: mgl64.Vec3{-1, 0.1, 0}, Area: 2, Normal: dynamo.Right, Lift: lift, Drag: drag},
	}
}

// New builds the body and every surface, failing if any of them is invalid.
func New(p Params) (*Airplane, error) {
	dims := p.Dimensions
	if dims == (mgl64.Vec3{}) {
		dims = mgl64.Vec3{1, 1, 1}
	}

	body, err := dynamo.NewRigidBody(dynamo.BodyParams{
		Mass:            p.Mass,
		Inertia:         dynamo.CubeInertiaTensor(dims, p.Mass),
		Position:        p.Position,
		Orientation:     p.Orientation,
		Velocity:        p.Velocity,
		AngularVelocity: p.AngularVelocity,
		DisableGravity:  p.DisableGravity,
	})
	if err != nil {
		return nil, fmt.Errorf("airplane body: %w", err)
	}

	layout := p.Wings
	if layout == nil {
		layout = DefaultWings(nil, nil)
	}

	seen := make(map[string]bool, len(layout))
	wings := make([]*aero.Wing, 0, len(layout))
	for _, wp := range layout {
		if seen[wp.Name] {
			return nil, fmt.Errorf("%q: %w", wp.Name, ErrDuplicateWing)
		}
		seen[wp.Name] = true

		w, err := aero.NewWing(wp)
		if err != nil {
			return nil, err
		}
		wings = append(wings, w)
	}

	engine := p.Engine
	engine.SetThrottle(engine.Throttle)

	return &Airplane{
		body:   body,
		wings:  wings,
		loads:  make([]aero.Airload, len(wings)),
		engine: engine,
		wind:   p.Wind,
	}, nil
}

func (a *Airplane) Body() *dynamo.RigidBody { return a.body }
func (a *Airplane) Pose() dynamo.Pose       { return a.body.Pose() }
func (a *Airplane) Engine() *Engine         { return &a.engine }
func (a *Airplane) Wind() mgl64.Vec3        { return a.wind }

// Wings returns the surfaces in evaluation order.
func (a *Airplane) Wings() []*aero.Wing {
	out := make([]*aero.Wing, len(a.wings))
	copy(out, a.wings)
	return out
}

// Wing looks a surface up by name.
func (a *Airplane) Wing(name string) (*aero.Wing, bool) {
	for _, w := range a.wings {
		if w.Name() == name {
			return w, true
		}
	}
	return nil, false
}

// Loads returns the airloads computed during the last Update, parallel to
// Wings.
func (a *Airplane) Loads() []aero.Airload {
	out := make([]aero.Airload, len(a.loads))
	copy(out, a.loads)
	return out
}

// Update accumulates every surface and the engine into the body, then
// integrates it exactly once.
func (a *Airplane) Update(dt float64) {
	for i, w := range a.wings {
		a.loads[i] = w.ApplyForcesInWind(a.body, a.wind)
	}
	a.engine.ApplyForces(a.body)
	a.body.Update(dt)
}
