package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/flightsim/internal/dynamo"
	"github.com/san-kum/flightsim/internal/sim"
)

// MechanicalEnergy is translational plus rotational kinetic energy plus
// potential energy relative to y = 0.
func MechanicalEnergy(s sim.Sample, mass float64, inertia mgl64.Mat3) float64 {
	ke := 0.5 * mass * s.Velocity.Dot(s.Velocity)
	re := 0.5 * s.AngularVelocity.Dot(inertia.Mul3x1(s.AngularVelocity))
	pe := mass * dynamo.Gravity * s.Position[1]
	return ke + re + pe
}

// Energy reports the mean mechanical energy over the run.
type Energy struct {
	name    string
	mass    float64
	inertia mgl64.Mat3
	total   float64
	samples int
}

func NewEnergy(mass float64, inertia mgl64.Mat3) *Energy {
	return &Energy{name: "energy", mass: mass, inertia: inertia}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s sim.Sample) {
	e.total += MechanicalEnergy(s, e.mass, e.inertia)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative departure from the first
// observed energy.
type EnergyDrift struct {
	name     string
	mass     float64
	inertia  mgl64.Mat3
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(mass float64, inertia mgl64.Mat3) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", mass: mass, inertia: inertia}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s sim.Sample) {
	energy := MechanicalEnergy(s, e.mass, e.inertia)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
