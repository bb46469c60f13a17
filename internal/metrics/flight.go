package metrics

import (
	"math"

	"github.com/san-kum/flightsim/internal/sim"
)

type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{name: "max_speed"} }

func (m *MaxSpeed) Name() string         { return m.name }
func (m *MaxSpeed) Observe(s sim.Sample) { m.max = math.Max(m.max, s.Velocity.Len()) }
func (m *MaxSpeed) Value() float64       { return m.max }
func (m *MaxSpeed) Reset()               { m.max = 0 }

// AltitudeChange is the height of the last observed frame minus the first.
type AltitudeChange struct {
	name        string
	first, last float64
	seen        bool
}

func NewAltitudeChange() *AltitudeChange { return &AltitudeChange{name: "altitude_change"} }

func (a *AltitudeChange) Name() string { return a.name }

func (a *AltitudeChange) Observe(s sim.Sample) {
	if !a.seen {
		a.first = s.Position[1]
		a.seen = true
	}
	a.last = s.Position[1]
}

func (a *AltitudeChange) Value() float64 { return a.last - a.first }

func (a *AltitudeChange) Reset() {
	a.first, a.last = 0, 0
	a.seen = false
}
