// Package dynamo provides the rigid-body core of the flight model.
//
// The package defines a 6-degree-of-freedom integrator driven by forces and
// torques accumulated during a frame:
//
//   - [RigidBody]: mass, inertia, pose, velocities and per-frame accumulators
//   - [BodyParams]: construction parameters, validated by [NewRigidBody]
//   - [Pose]: read-only world position and orientation for renderers
//
// # Frame Convention
//
// Body space uses +X forward, +Y up and +Z right. Linear velocity and the
// force accumulator live in world space; angular velocity, the inertia
// tensor and the torque accumulator live in body space.
//
// # Example
//
//	body, err := dynamo.NewRigidBody(dynamo.BodyParams{
//	    Mass:    10,
//	    Inertia: dynamo.CubeInertiaTensor(mgl64.Vec3{1, 1, 1}, 10),
//	})
//	body.AddForceAtPoint(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{1, 0, 0})
//	body.Update(0.01)
//
// # Thread Safety
//
// RigidBody instances are NOT thread-safe. Forces must be accumulated and
// integrated by the goroutine that owns the body.
package dynamo
