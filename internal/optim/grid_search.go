// Package optim sweeps config parameters over a grid and ranks the runs by
// a metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/flightsim/internal/experiment"
)

type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Maximize ranks larger metric values first.
	Maximize bool
	// Workers bounds concurrent runs; GOMAXPROCS when <= 0.
	Workers int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Points enumerates the cartesian product of every range in parameter
// order.
func (g *GridSearch) Points() []map[string]float64 {
	out := make([]map[string]float64, 0)
	g.pointsRecursive(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) pointsRecursive(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		p := make(map[string]float64, len(current))
		for k, v := range current {
			p[k] = v
		}
		*out = append(*out, p)
		return
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		g.pointsRecursive(depth+1, current, out)
	}
	delete(current, name)
}

// Search runs one experiment per grid point. Failed trials are kept with
// their error and never win. Trials come back sorted best first.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	points := g.Points()
	trials := make([]Trial, len(points))

	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, p := range points {
		eg.Go(func() error {
			trials[i] = g.runTrial(ctx, p, buildExperiment, metricName)
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, trials, err
	}

	sort.SliceStable(trials, func(i, j int) bool { return g.better(trials[i], trials[j]) })

	if len(trials) == 0 || trials[0].Err != nil {
		return nil, 0, trials, errors.New("optim: no successful trial")
	}
	return trials[0].Params, trials[0].Value, trials, nil
}

func (g *GridSearch) runTrial(
	ctx context.Context,
	params map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
) Trial {
	trial := Trial{Params: params}

	exp, err := buildExperiment(params)
	if err != nil {
		trial.Err = err
		return trial
	}

	result, err := exp.Run(ctx)
	if err != nil {
		trial.Err = err
		return trial
	}

	val, ok := result.Metrics[metricName]
	if !ok {
		trial.Err = fmt.Errorf("metric %q not recorded", metricName)
		return trial
	}
	trial.Value = val
	return trial
}

func (g *GridSearch) better(a, b Trial) bool {
	if (a.Err == nil) != (b.Err == nil) {
		return a.Err == nil
	}
	if a.Err != nil {
		return false
	}
	if math.IsNaN(a.Value) != math.IsNaN(b.Value) {
		return !math.IsNaN(a.Value)
	}
	if g.Maximize {
		return a.Value > b.Value
	}
	return a.Value < b.Value
}

// ParseValues reads either a comma list ("1,2.5,4") or an inclusive
// linear range "start:stop:count".
func ParseValues(s string) ([]float64, error) {
	if parts := strings.Split(s, ":"); len(parts) == 3 {
		start, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		stop, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		count, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err := errors.Join(err1, err2, err3); err != nil {
			return nil, fmt.Errorf("range %q: %w", s, err)
		}
		if count < 1 {
			return nil, fmt.Errorf("range %q: count must be at least 1", s)
		}
		if count == 1 {
			return []float64{start}, nil
		}
		out := make([]float64, count)
		step := (stop - start) / float64(count-1)
		for i := range out {
			out[i] = start + step*float64(i)
		}
		return out, nil
	}

	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("values %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}
