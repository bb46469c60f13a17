package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/flightsim/internal/automation"
	"github.com/san-kum/flightsim/internal/config"
	"github.com/san-kum/flightsim/internal/experiment"
	"github.com/san-kum/flightsim/internal/metrics"
	"github.com/san-kum/flightsim/internal/optim"
	"github.com/san-kum/flightsim/internal/sim"
	"github.com/san-kum/flightsim/internal/storage"
)

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tAIRFOIL\tMASS\tALTITUDE\tSPEED\tPITCH\tTHROTTLE\tDURATION")
			for _, name := range reg.ListScenarios() {
				cfg, err := reg.GetScenario(name)
				if err != nil {
					return err
				}
				ac := cfg.Airplane
				fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t%.1f\t%.1f\t%.2f\t%.0fs\n",
					name, ac.Airfoil, ac.Mass, ac.Position[1], ac.Velocity.Len(), ac.Attitude.Pitch, ac.Throttle, cfg.Duration)
			}
			return w.Flush()
		},
	}
}

func newAirfoilsCmd() *cobra.Command {
	var aoa []float64
	cmd := &cobra.Command{
		Use:   "airfoils",
		Short: "list airfoils and sample their coefficients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			header := []string{"AIRFOIL", "DOMAIN"}
			for _, a := range aoa {
				header = append(header, fmt.Sprintf("CL/CD@%g°", a))
			}
			fmt.Fprintln(w, strings.Join(header, "\t"))

			for _, name := range reg.ListAirfoils() {
				lift, drag, err := reg.GetAirfoil(name)
				if err != nil {
					return err
				}
				lo, hi := lift.Domain()
				row := []string{name, fmt.Sprintf("[%g, %g]", lo, hi)}
				for _, a := range aoa {
					row = append(row, fmt.Sprintf("%.3f/%.3f", lift.Sample(a), drag.Sample(a)))
				}
				fmt.Fprintln(w, strings.Join(row, "\t"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64SliceVar(&aoa, "aoa", []float64{-10, 0, 5, 15, 30}, "angles of attack to sample (deg)")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var (
		flags    flightFlags
		params   []string
		metric   string
		maximize bool
		workers  int
		top      int
	)
	cmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "grid search over config parameters",
		Long: `Runs one simulation per point of the parameter grid and ranks them by a metric.

Each --param takes name=values where values is a comma list or start:stop:count, e.g.
  flightsim sweep glide --param airplane.attitude.pitch=-5:10:7 --param airplane.mass=1500,2000 --metric altitude_change --maximize`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			if len(params) == 0 {
				return fmt.Errorf("at least one --param is required (known: %s)", strings.Join(config.ParamNames(), ", "))
			}

			names := make([]string, len(params))
			ranges := make([][]float64, len(params))
			for i, p := range params {
				name, raw, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("expected name=values, got %q", p)
				}
				if _, err := base.GetParam(name); err != nil {
					return err
				}
				values, err := optim.ParseValues(raw)
				if err != nil {
					return err
				}
				names[i], ranges[i] = name, values
			}

			gs := optim.NewGridSearch(names, ranges)
			gs.Maximize = maximize
			gs.Workers = workers
			logger.Info("sweep", "scenario", base.Scenario, "points", len(gs.Points()), "metric", metric)

			build := func(p map[string]float64) (*experiment.Experiment, error) {
				cfg := base.Clone()
				for name, v := range p {
					if err := cfg.SetParam(name, v); err != nil {
						return nil, err
					}
				}
				exp, err := experiment.New(cfg, reg)
				if err != nil {
					return nil, err
				}
				body := exp.Airplane().Body()
				m, err := metrics.ByName(metric, body.Mass(), body.Inertia())
				if err != nil {
					return nil, err
				}
				exp.Setup([]sim.Metric{m}, logger)
				return exp, nil
			}

			ctx, cancel := interruptContext()
			defer cancel()
			best, bestVal, trials, err := gs.Search(ctx, build, metric)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join(append(append([]string{"#"}, names...), strings.ToUpper(metric)), "\t"))
			for i, t := range trials {
				if top > 0 && i >= top {
					break
				}
				row := []string{fmt.Sprint(i + 1)}
				for _, n := range names {
					row = append(row, fmt.Sprintf("%g", t.Params[n]))
				}
				if t.Err != nil {
					row = append(row, "error: "+t.Err.Error())
				} else {
					row = append(row, fmt.Sprintf("%.6g", t.Value))
				}
				fmt.Fprintln(w, strings.Join(row, "\t"))
			}
			w.Flush()
			if err != nil {
				return err
			}

			fmt.Printf("\nbest %s = %.6g at", metric, bestVal)
			for _, n := range names {
				fmt.Printf(" %s=%g", n, best[n])
			}
			fmt.Println()
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&params, "param", nil, "parameter grid name=values (repeatable)")
	cmd.Flags().StringVar(&metric, "metric", "altitude_change", "metric to rank by ("+strings.Join(metrics.Names(), ", ")+")")
	cmd.Flags().BoolVar(&maximize, "maximize", false, "rank highest first")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel trials (default GOMAXPROCS)")
	cmd.Flags().IntVar(&top, "top", 10, "rows to print (0 for all)")
	return cmd
}

func newBenchCmd() *cobra.Command {
	var (
		flags   flightFlags
		runs    int
		jitter  float64
		workers int
	)
	cmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark the flight model",
		Long:  "Times single runs across timesteps, then flies an ensemble of jittered copies in parallel.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}

			fmt.Printf("benchmarking %s\n\n", base.Scenario)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

			for _, dt := range []float64{1.0 / 60, 1.0 / 120, 1.0 / 240} {
				cfg := base.Clone()
				cfg.Dt = dt
				exp, err := experiment.New(cfg, reg)
				if err != nil {
					return err
				}
				exp.Setup(nil, logger)

				start := time.Now()
				result, err := exp.Run(context.Background())
				elapsed := time.Since(start)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
					cfg.Duration, dt, result.StepsTaken, elapsed.Round(time.Microsecond), float64(result.StepsTaken)/elapsed.Seconds())
			}
			w.Flush()

			if runs <= 0 {
				return nil
			}
			ctx, cancel := interruptContext()
			defer cancel()
			start := time.Now()
			results, err := automation.RunMonteCarlo(ctx, automation.MonteCarloConfig{
				Base: base, Trials: runs, Jitter: jitter, Workers: workers,
			}, reg, logger)
			elapsed := time.Since(start)
			if err != nil {
				return err
			}

			var steps int
			var alt, speed []float64
			for _, r := range results {
				steps += int(math.Round(r.Final.Time / base.Dt))
				alt = append(alt, r.Metrics["altitude_change"])
				speed = append(speed, r.Metrics["max_speed"])
			}
			altLo, altHi, altMean := stats(alt)
			spLo, spHi, spMean := stats(speed)
			stable, unstable := automation.MonteCarloStats(results)

			fmt.Printf("\nensemble: %d runs, jitter ±%g m/s, %v (%.0f steps/sec), %d stable, %d unstable\n",
				runs, jitter, elapsed.Round(time.Millisecond), float64(steps)/elapsed.Seconds(), stable, unstable)
			w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "METRIC\tMIN\tMEAN\tMAX")
			fmt.Fprintf(w, "altitude_change\t%.4g\t%.4g\t%.4g\n", altLo, altMean, altHi)
			fmt.Fprintf(w, "max_speed\t%.4g\t%.4g\t%.4g\n", spLo, spMean, spHi)
			return w.Flush()
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&runs, "runs", 16, "ensemble size (0 to skip)")
	cmd.Flags().Float64Var(&jitter, "jitter", 1, "initial velocity jitter per axis (m/s)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")
	return cmd
}

func newScriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script [file.yaml]",
		Short: "run a scripted sequence of flights",
		Long: `Runs each step of a YAML script in order. Steps flagged save: true are stored.

  name: checkout
  steps:
    - scenario: glide
      duration: 30
      set: {airplane.mass: 2500}
      save: true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := automation.LoadScript(args[0])
			if err != nil {
				return err
			}
			st := storage.New(dataDir)

			ctx, cancel := interruptContext()
			defer cancel()
			results, runErr := automation.RunScript(ctx, script, reg, logger, st.Save)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tSCENARIO\tSTEPS\tFINAL ALT\tFINAL SPEED\tRUN")
			for i, r := range results {
				final := r.Result.Final()
				runID := r.RunID
				if runID == "" {
					runID = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%.1f\t%.2f\t%s\n",
					i+1, r.Config.Scenario, r.Result.StepsTaken, final.Position[1], final.Velocity.Len(), runID)
			}
			w.Flush()
			return runErr
		},
	}
}
