package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/flightsim/internal/dynamo"
)

// Vehicle is anything that owns a rigid body and advances it one frame at
// a time.
type Vehicle interface {
	Update(dt float64)
	Body() *dynamo.RigidBody
}

// Sample is a snapshot of a body's state at Time.
type Sample struct {
	Time            float64
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

func SampleOf(t float64, b *dynamo.RigidBody) Sample {
	return Sample{
		Time:            t,
		Position:        b.Position,
		Orientation:     b.Orientation,
		Velocity:        b.Velocity,
		AngularVelocity: b.AngularVelocity,
	}
}

func (s Sample) Pose() dynamo.Pose {
	return dynamo.Pose{Position: s.Position, Orientation: s.Orientation}
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Sample)

func (f ObserverFunc) OnStep(s Sample) { f(s) }

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 120,
		Duration:      10,
		ValidateState: true,
	}
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Time
	}
	return out
}

// Final returns the last recorded sample, or the zero Sample if none.
func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return dynamo.ErrInvalidState }
