package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is the read-only view of a body handed to renderers.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// Transform returns the body-to-world matrix.
func (p Pose) Transform() mgl64.Mat4 {
	return mgl64.Translate3D(p.Position[0], p.Position[1], p.Position[2]).Mul4(p.Orientation.Mat4())
}

// ToWorld maps a body-space point into world space.
func (p Pose) ToWorld(point mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.Orientation.Rotate(point))
}

// EulerAngles returns heading (about Y), pitch (about Z) and bank (about X)
// in radians.
func (p Pose) EulerAngles() (heading, pitch, bank float64) {
	fwd := p.Orientation.Rotate(Forward)
	up := p.Orientation.Rotate(Up)

	heading = math.Atan2(-fwd[2], fwd[0])
	pitch = math.Asin(clamp(fwd[1], -1, 1))

	// bank is the roll of the up vector about the forward axis
	level := Up.Sub(fwd.Mul(fwd[1]))
	if level.Len() < 1e-9 {
		return heading, pitch, 0
	}
	level = level.Normalize()
	bank = math.Atan2(fwd.Dot(level.Cross(up)), level.Dot(up))
	return heading, pitch, bank
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
