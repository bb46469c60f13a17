package dynamo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Gravity is the standard gravitational acceleration in m/s².
const Gravity = 9.81

// Body-space axes.
var (
	Up       = mgl64.Vec3{0, 1, 0}
	Down     = mgl64.Vec3{0, -1, 0}
	Right    = mgl64.Vec3{0, 0, 1}
	Left     = mgl64.Vec3{0, 0, -1}
	Forward  = mgl64.Vec3{1, 0, 0}
	Backward = mgl64.Vec3{-1, 0, 0}
)

// singularDet is the determinant magnitude below which an inertia tensor is
// rejected.
const singularDet = 1e-12

// BodyParams describes a rigid body at construction. A zero Orientation is
// treated as the identity rotation.
type BodyParams struct {
	Mass            float64
	Inertia         mgl64.Mat3
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	DisableGravity  bool
}

// RigidBody integrates the 6-DOF motion of a single body.
type RigidBody struct {
	mass           float64
	inertia        mgl64.Mat3
	inverseInertia mgl64.Mat3

	// force in world space, torque in body space; zeroed by Update
	force  mgl64.Vec3
	torque mgl64.Vec3

	ApplyGravity bool

	// Position in world space.
	Position mgl64.Vec3
	// Orientation rotates body space into world space. Unit length.
	Orientation mgl64.Quat
	// Velocity in world space.
	Velocity mgl64.Vec3
	// AngularVelocity in body space.
	AngularVelocity mgl64.Vec3
}

// NewRigidBody validates p and returns a body ready to be stepped.
func NewRigidBody(p BodyParams) (*RigidBody, error) {
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return nil, fmt.Errorf("mass %v: %w", p.Mass, ErrNonPositiveMass)
	}
	det := p.Inertia.Det()
	if math.Abs(det) < singularDet || math.IsNaN(det) || math.IsInf(det, 0) {
		return nil, fmt.Errorf("det %v: %w", det, ErrSingularInertia)
	}

	orientation := p.Orientation
	if orientation.Len() == 0 {
		orientation = mgl64.QuatIdent()
	}

	return &RigidBody{
		mass:            p.Mass,
		inertia:         p.Inertia,
		inverseInertia:  p.Inertia.Inv(),
		ApplyGravity:    !p.DisableGravity,
		Position:        p.Position,
		Orientation:     orientation.Normalize(),
		Velocity:        p.Velocity,
		AngularVelocity: p.AngularVelocity,
	}, nil
}

// CubeInertiaTensor returns the body-space inertia of a solid box with the
// given edge lengths.
func CubeInertiaTensor(dimensions mgl64.Vec3, mass float64) mgl64.Mat3 {
	f := mass / 12.0
	x2, y2, z2 := dimensions[0]*dimensions[0], dimensions[1]*dimensions[1], dimensions[2]*dimensions[2]
	return mgl64.Diag3(mgl64.Vec3{
		f * (y2 + z2),
		f * (x2 + z2),
		f * (x2 + y2),
	})
}

func (b *RigidBody) Mass() float64              { return b.mass }
func (b *RigidBody) Inertia() mgl64.Mat3        { return b.inertia }
func (b *RigidBody) InverseInertia() mgl64.Mat3 { return b.inverseInertia }
func (b *RigidBody) Force() mgl64.Vec3          { return b.force }
func (b *RigidBody) Torque() mgl64.Vec3         { return b.torque }
func (b *RigidBody) Pose() Pose                 { return Pose{Position: b.Position, Orientation: b.Orientation} }

// TransformDirection rotates a direction from body space to world space.
func (b *RigidBody) TransformDirection(d mgl64.Vec3) mgl64.Vec3 {
	return b.Orientation.Rotate(d)
}

// InverseTransformDirection rotates a direction from world space to body space.
func (b *RigidBody) InverseTransformDirection(d mgl64.Vec3) mgl64.Vec3 {
	return b.Orientation.Conjugate().Rotate(d)
}

// AddForceAtPoint accumulates a body-space force applied at a body-space
// point. The force is stored in world space, the resulting torque in body
// space.
func (b *RigidBody) AddForceAtPoint(force, point mgl64.Vec3) {
	b.force = b.force.Add(b.TransformDirection(force))
	b.torque = b.torque.Add(point.Cross(force))
}

// AddForce accumulates a world-space force through the center of mass.
func (b *RigidBody) AddForce(force mgl64.Vec3) {
	b.force = b.force.Add(force)
}

// AddRelativeForce accumulates a body-space force through the center of mass.
func (b *RigidBody) AddRelativeForce(force mgl64.Vec3) {
	b.force = b.force.Add(b.TransformDirection(force))
}

// AddTorque accumulates a world-space torque.
func (b *RigidBody) AddTorque(torque mgl64.Vec3) {
	b.torque = b.torque.Add(b.InverseTransformDirection(torque))
}

// AddRelativeTorque accumulates a body-space torque.
func (b *RigidBody) AddRelativeTorque(torque mgl64.Vec3) {
	b.torque = b.torque.Add(torque)
}

// PointVelocity returns the world-space velocity of a material point given
// in body space.
func (b *RigidBody) PointVelocity(point mgl64.Vec3) mgl64.Vec3 {
	return b.Velocity.Add(b.TransformDirection(b.AngularVelocity.Cross(point)))
}

// Update advances the body by dt with semi-implicit Euler and clears the
// accumulators. Forces must be re-applied every frame.
//
// The gyroscopic term is integrated explicitly, so with a non-spherical
// inertia tensor energy is only approximately conserved and the step must
// keep dt*|AngularVelocity| well below 1. Coarser steps let the rates grow
// without bound until IsValid reports false.
func (b *RigidBody) Update(dt float64) {
	if b.ApplyGravity {
		b.force[1] -= Gravity * b.mass
	}

	acceleration := b.force.Mul(1 / b.mass)
	b.Velocity = b.Velocity.Add(acceleration.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	w := b.AngularVelocity
	gyroscopic := w.Cross(b.inertia.Mul3x1(w))
	angularAcceleration := b.inverseInertia.Mul3x1(b.torque.Sub(gyroscopic))
	b.AngularVelocity = w.Add(angularAcceleration.Mul(dt))

	spin := b.Orientation.Mul(mgl64.Quat{W: 0, V: b.AngularVelocity})
	b.Orientation = b.Orientation.Add(spin.Scale(0.5 * dt)).Normalize()

	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

// IsValid reports whether the kinematic state is free of NaN and Inf.
func (b *RigidBody) IsValid() bool {
	q := b.Orientation
	return finite(b.Position[:]...) && finite(b.Velocity[:]...) &&
		finite(b.AngularVelocity[:]...) && finite(q.W, q.V[0], q.V[1], q.V[2])
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
