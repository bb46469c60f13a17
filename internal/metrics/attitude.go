package metrics

import (
	"math"

	"github.com/san-kum/flightsim/internal/sim"
)

// QuatDrift tracks the worst |‖q‖ - 1| seen.
type QuatDrift struct {
	name  string
	worst float64
}

func NewQuatDrift() *QuatDrift { return &QuatDrift{name: "quat_drift"} }

func (q *QuatDrift) Name() string { return q.name }

func (q *QuatDrift) Observe(s sim.Sample) {
	q.worst = math.Max(q.worst, math.Abs(s.Orientation.Len()-1))
}

func (q *QuatDrift) Value() float64 { return q.worst }
func (q *QuatDrift) Reset()         { q.worst = 0 }

// Stability is the fraction of frames whose angular rate stays at or
// below threshold (rad/s).
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{name: "stability", threshold: threshold}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(sm sim.Sample) {
	s.samples++
	if sm.AngularVelocity.Len() > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// AngularRate is the mean |ω| over the run.
type AngularRate struct {
	name    string
	sum     float64
	samples int
}

func NewAngularRate() *AngularRate { return &AngularRate{name: "angular_rate"} }

func (a *AngularRate) Name() string { return a.name }

func (a *AngularRate) Observe(s sim.Sample) {
	a.sum += s.AngularVelocity.Len()
	a.samples++
}

func (a *AngularRate) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *AngularRate) Reset() {
	a.sum = 0
	a.samples = 0
}
