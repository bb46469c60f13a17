package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/flightsim/internal/logging"
)

type Simulator struct {
	vehicle   Vehicle
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(v Vehicle) *Simulator {
	return &Simulator{
		vehicle:   v,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logging.Discard(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Vehicle() Vehicle       { return s.vehicle }

func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Steps is the number of frames needed to cover cfg.Duration.
func Steps(cfg Config) int {
	return int(math.Ceil(cfg.Duration/cfg.Dt - 1e-9))
}

// Run advances the vehicle until cfg.Duration, recording one sample per
// frame plus the initial state. Metrics and observers see the state before
// each frame. On an invalid state the partial result is returned along
// with a SimError.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := Steps(cfg)
	result := &Result{
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	body := s.vehicle.Body()
	t := 0.0
	result.Samples = append(result.Samples, SampleOf(t, body))
	s.logger.Debug("run started", "dt", cfg.Dt, "duration", cfg.Duration, "steps", steps)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.logger.Debug("run cancelled", "step", i, "t", t)
			return result, ctx.Err()
		default:
		}

		sample := SampleOf(t, body)
		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(sample)
		}

		s.vehicle.Update(cfg.Dt)
		t = float64(i+1) * cfg.Dt

		if cfg.ValidateState && !body.IsValid() {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			s.logger.Warn("run aborted", "error", err)
			s.collect(result)
			return result, err
		}

		result.StepsTaken++
		result.Samples = append(result.Samples, SampleOf(t, body))
	}

	s.collect(result)
	s.logger.Debug("run finished", "steps", result.StepsTaken, "t", t)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback advances the vehicle without recording, handing each
// pre-frame sample to callback. Returning false stops the run early.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Sample) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	body := s.vehicle.Body()
	steps := Steps(cfg)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		if !callback(SampleOf(t, body)) {
			return nil
		}

		s.vehicle.Update(cfg.Dt)

		if cfg.ValidateState && !body.IsValid() {
			return SimError{Time: t + cfg.Dt, Step: i, Message: "invalid state (NaN/Inf)"}
		}
	}

	return nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
