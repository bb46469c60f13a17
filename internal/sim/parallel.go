package sim

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job is one independent run. Build is called inside the worker so no
// vehicle is shared between goroutines. Observers receives the freshly
// built vehicle, so controllers can be bound to it.
type Job struct {
	Name      string
	Build     func() (Vehicle, error)
	Metrics   func() []Metric
	Observers func(v Vehicle) []Observer
}

// RunParallel runs every job with at most workers goroutines (GOMAXPROCS
// when workers <= 0). Results are indexed like jobs. The first failure
// cancels the remaining jobs.
func RunParallel(ctx context.Context, jobs []Job, cfg Config, workers int, logger *slog.Logger) ([]*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			v, err := job.Build()
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}

			s := New(v)
			if logger != nil {
				s.SetLogger(logger.With("job", job.Name))
			}
			if job.Metrics != nil {
				for _, m := range job.Metrics() {
					s.AddMetric(m)
				}
			}
			if job.Observers != nil {
				for _, o := range job.Observers(v) {
					s.AddObserver(o)
				}
			}

			res, err := s.Run(ctx, cfg)
			results[i] = res
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
