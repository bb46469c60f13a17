package metrics

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/flightsim/internal/sim"
)

// DefaultStabilityThreshold is the angular rate (rad/s) above which a
// frame counts as unstable.
const DefaultStabilityThreshold = 1.0

type factory func(mass float64, inertia mgl64.Mat3) sim.Metric

var factories = map[string]factory{
	"energy":          func(m float64, i mgl64.Mat3) sim.Metric { return NewEnergy(m, i) },
	"energy_drift":    func(m float64, i mgl64.Mat3) sim.Metric { return NewEnergyDrift(m, i) },
	"quat_drift":      func(float64, mgl64.Mat3) sim.Metric { return NewQuatDrift() },
	"stability":       func(float64, mgl64.Mat3) sim.Metric { return NewStability(DefaultStabilityThreshold) },
	"angular_rate":    func(float64, mgl64.Mat3) sim.Metric { return NewAngularRate() },
	"max_speed":       func(float64, mgl64.Mat3) sim.Metric { return NewMaxSpeed() },
	"altitude_change": func(float64, mgl64.Mat3) sim.Metric { return NewAltitudeChange() },
}

// Names lists every metric ByName accepts.
func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ByName builds a metric for a body with the given mass properties.
func ByName(name string, mass float64, inertia mgl64.Mat3) (sim.Metric, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return f(mass, inertia), nil
}

// All builds one of every metric.
func All(mass float64, inertia mgl64.Mat3) []sim.Metric {
	out := make([]sim.Metric, 0, len(factories))
	for _, n := range Names() {
		out = append(out, factories[n](mass, inertia))
	}
	return out
}
