// Package automation runs batches of flights: YAML scripts of scenario
// steps, and Monte Carlo ensembles over perturbed initial velocity.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/flightsim/internal/config"
	"github.com/san-kum/flightsim/internal/experiment"
	"github.com/san-kum/flightsim/internal/metrics"
	"github.com/san-kum/flightsim/internal/sim"
)

// Script is a named sequence of flights.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step starts from a scenario preset (or a config file when Config is
// set), then applies Duration, Dt and the dotted-name Set overrides.
type Step struct {
	Scenario string             `yaml:"scenario"`
	Config   string             `yaml:"config"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Set      map[string]float64 `yaml:"set"`
	Metrics  []string           `yaml:"metrics"`
	Save     bool               `yaml:"save"`
}

type StepResult struct {
	Config *config.Config
	Result *sim.Result
	RunID  string
}

// SaveFunc persists a finished step and returns its run id.
type SaveFunc func(cfg *config.Config, result *sim.Result) (string, error)

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script %q has no steps", s.Name)
	}
	return &s, nil
}

// Resolve builds the config for a step.
func (st Step) Resolve(reg *experiment.Registry) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case st.Config != "":
		cfg, err = config.Load(st.Config)
	case st.Scenario != "":
		cfg, err = reg.GetScenario(st.Scenario)
	default:
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}

	if st.Duration > 0 {
		cfg.Duration = st.Duration
	}
	if st.Dt > 0 {
		cfg.Dt = st.Dt
	}
	for name, v := range st.Set {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScript executes the steps in order and stops at the first failure.
// save may be nil, in which case Save flags are ignored.
func RunScript(ctx context.Context, script *Script, reg *experiment.Registry, logger *slog.Logger, save SaveFunc) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		cfg, err := step.Resolve(reg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		logger.Info("script step", "script", script.Name, "step", i+1, "of", len(script.Steps), "scenario", cfg.Scenario)

		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		ms := reg.DefaultMetrics(exp.Airplane())
		if len(step.Metrics) > 0 {
			body := exp.Airplane().Body()
			ms = ms[:0]
			for _, name := range step.Metrics {
				m, err := metrics.ByName(name, body.Mass(), body.Inertia())
				if err != nil {
					return results, fmt.Errorf("step %d: %w", i+1, err)
				}
				ms = append(ms, m)
			}
		}
		exp.Setup(ms, logger.With("step", i+1))

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: exp.Config(), Result: result}
		if step.Save && save != nil {
			if sr.RunID, err = save(sr.Config, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig jitters the initial velocity of Base by up to ±Jitter
// m/s per axis for each trial.
type MonteCarloConfig struct {
	Base    *config.Config
	Trials  int
	Jitter  float64
	Workers int
}

// MonteCarloResult summarizes one trial.
type MonteCarloResult struct {
	Trial   int
	Initial sim.Sample
	Final   sim.Sample
	Metrics map[string]float64
	// Stable is false when the state left finite values or ran away.
	Stable bool
}

const runawaySpeed = 1e3

// RunMonteCarlo flies every trial in parallel. Trials are not stopped on
// an invalid state so one diverging trial does not cancel the rest.
func RunMonteCarlo(ctx context.Context, mc MonteCarloConfig, reg *experiment.Registry, logger *slog.Logger) ([]MonteCarloResult, error) {
	if mc.Base == nil || mc.Trials <= 0 {
		return nil, fmt.Errorf("monte carlo needs a base config and at least one trial")
	}
	if err := mc.Base.Validate(); err != nil {
		return nil, err
	}

	jobs := experiment.Ensemble(mc.Base, reg, mc.Trials, mc.Jitter)
	for i := range jobs {
		jobs[i].Metrics = func() []sim.Metric {
			return []sim.Metric{metrics.NewAltitudeChange(), metrics.NewMaxSpeed()}
		}
	}
	cfg := sim.Config{Dt: mc.Base.Dt, Duration: mc.Base.Duration}

	runs, err := sim.RunParallel(ctx, jobs, cfg, mc.Workers, logger)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		final := r.Final()
		results[i] = MonteCarloResult{
			Trial:   i,
			Initial: r.Samples[0],
			Final:   final,
			Metrics: r.Metrics,
			Stable:  finite(final) && final.Velocity.Len() < runawaySpeed,
		}
	}
	return results, nil
}

func finite(s sim.Sample) bool {
	vals := []float64{s.Time}
	vals = append(vals, s.Position[:]...)
	vals = append(vals, s.Velocity[:]...)
	vals = append(vals, s.AngularVelocity[:]...)
	vals = append(vals, s.Orientation.W)
	vals = append(vals, s.Orientation.V[:]...)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
