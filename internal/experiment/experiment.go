// Package experiment turns a config into a ready-to-run airplane and
// simulator.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/flightsim/internal/aero"
	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/config"
	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	airplane  *aircraft.Airplane
	simulator *sim.Simulator
}

// New validates cfg and builds its airplane. The config is copied.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a, err := BuildAirplane(cfg, reg)
	if err != nil {
		return nil, err
	}
	e := &Experiment{
		cfg:       cfg,
		airplane:  a,
		simulator: sim.New(a),
	}
	if at := NewAutothrottle(cfg, a); at != nil {
		e.simulator.AddObserver(at)
	}
	return e, nil
}

// NewAutothrottle returns the airspeed hold described by cfg, or nil when
// none is configured.
func NewAutothrottle(cfg *config.Config, a *aircraft.Airplane) *control.Autothrottle {
	at := cfg.Airplane.Autothrottle
	if at == nil {
		return nil
	}
	return control.NewAutothrottle(a, at.Speed, at.Kp, at.Ki, at.Kd)
}

func (e *Experiment) Setup(metrics []sim.Metric, logger *slog.Logger) {
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	e.simulator.SetLogger(logger)
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.SimConfig())
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{Dt: e.cfg.Dt, Duration: e.cfg.Duration, ValidateState: true}
}

func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) Airplane() *aircraft.Airplane { return e.airplane }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

// BuildAirplane maps a config onto aircraft.Params. An empty wing list
// selects the default layout with the airplane's airfoil.
func BuildAirplane(cfg *config.Config, reg *Registry) (*aircraft.Airplane, error) {
	ac := cfg.Airplane

	lift, drag, err := reg.GetAirfoil(ac.Airfoil)
	if err != nil {
		return nil, err
	}

	var wings []aero.WingParams
	if len(ac.Wings) == 0 {
		wings = aircraft.DefaultWings(lift, drag)
	} else {
		wings = make([]aero.WingParams, 0, len(ac.Wings))
		for _, w := range ac.Wings {
			wl, wd := lift, drag
			if w.Airfoil != "" {
				if wl, wd, err = reg.GetAirfoil(w.Airfoil); err != nil {
					return nil, fmt.Errorf("wing %q: %w", w.Name, err)
				}
			}
			wings = append(wings, aero.WingParams{
				Name:   w.Name,
				Offset: w.Offset,
				Area:   w.Area,
				Normal: w.Normal,
				Lift:   wl,
				Drag:   wd,
			})
		}
	}
	for i := range wings {
		wings[i].PressureFactor = ac.PressureFactor
	}

	return aircraft.New(aircraft.Params{
		Mass:            ac.Mass,
		Dimensions:      ac.Dimensions,
		Position:        ac.Position,
		Orientation:     ac.Attitude.Orientation(),
		Velocity:        ac.Velocity,
		AngularVelocity: ac.AngularVelocity,
		DisableGravity:  !cfg.Gravity,
		Wings:           wings,
		Engine:          aircraft.Engine{MaxThrust: ac.MaxThrust, Throttle: ac.Throttle},
		Wind:            ac.Wind,
	})
}

// Ensemble returns n jobs whose initial velocity is jittered by up to
// ±jitter m/s per axis. Job i is seeded with cfg.Seed+i so the set is
// reproducible. A configured autothrottle is bound to each job's airplane.
func Ensemble(cfg *config.Config, reg *Registry, n int, jitter float64) []sim.Job {
	jobs := make([]sim.Job, n)
	for i := range jobs {
		seed := cfg.Seed + int64(i)
		jobs[i] = sim.Job{
			Name: fmt.Sprintf("%s#%d", cfg.Scenario, i),
			Build: func() (sim.Vehicle, error) {
				c := cfg.Clone()
				rng := rand.New(rand.NewSource(seed))
				c.Airplane.Velocity = c.Airplane.Velocity.Add(mgl64.Vec3{
					jitter * (2*rng.Float64() - 1),
					jitter * (2*rng.Float64() - 1),
					jitter * (2*rng.Float64() - 1),
				})
				a, err := BuildAirplane(c, reg)
				if err != nil {
					return nil, err
				}
				return a, nil
			},
			Observers: func(v sim.Vehicle) []sim.Observer {
				a, ok := v.(*aircraft.Airplane)
				if !ok {
					return nil
				}
				if at := NewAutothrottle(cfg, a); at != nil {
					return []sim.Observer{at}
				}
				return nil
			},
		}
	}
	return jobs
}
