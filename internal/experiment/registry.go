package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/flightsim/internal/aero"
	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/config"
	"github.com/san-kum/flightsim/internal/metrics"
	"github.com/san-kum/flightsim/internal/sim"
)

type polar struct {
	lift, drag *aero.Curve
}

// Registry resolves the names used in config files: airfoils and
// scenarios.
type Registry struct {
	airfoils  map[string]polar
	scenarios map[string]func() *config.Config
}

func NewRegistry() *Registry {
	r := &Registry{
		airfoils:  make(map[string]polar),
		scenarios: make(map[string]func() *config.Config),
	}

	for _, name := range aero.AirfoilNames() {
		lift, drag, _ := aero.Airfoil(name)
		r.airfoils[name] = polar{lift: lift, drag: drag}
	}
	for _, name := range config.ListPresets() {
		r.scenarios[name] = func() *config.Config { return config.GetPreset(name) }
	}

	return r
}

// RegisterAirfoil adds or replaces a named pair of coefficient curves.
func (r *Registry) RegisterAirfoil(name string, lift, drag *aero.Curve) {
	r.airfoils[name] = polar{lift: lift, drag: drag}
}

func (r *Registry) GetAirfoil(name string) (lift, drag *aero.Curve, err error) {
	p, ok := r.airfoils[name]
	if !ok {
		return nil, nil, fmt.Errorf("%q: %w", name, aero.ErrUnknownAirfoil)
	}
	return p.lift, p.drag, nil
}

func (r *Registry) GetScenario(name string) (*config.Config, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListAirfoils() []string { return sortedKeys(r.airfoils) }

func (r *Registry) ListScenarios() []string { return sortedKeys(r.scenarios) }

// DefaultMetrics are attached to every run started from the CLI.
func (r *Registry) DefaultMetrics(a *aircraft.Airplane) []sim.Metric {
	body := a.Body()
	return []sim.Metric{
		metrics.NewEnergyDrift(body.Mass(), body.Inertia()),
		metrics.NewQuatDrift(),
		metrics.NewMaxSpeed(),
		metrics.NewAltitudeChange(),
		metrics.NewStability(metrics.DefaultStabilityThreshold),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
