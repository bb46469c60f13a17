package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/flightsim/internal/config"
	"github.com/san-kum/flightsim/internal/experiment"
	"github.com/san-kum/flightsim/internal/logging"
	"github.com/san-kum/flightsim/internal/metrics"
	"github.com/san-kum/flightsim/internal/sim"
	"github.com/san-kum/flightsim/internal/storage"
	"github.com/san-kum/flightsim/internal/viz"
)

// flightFlags are shared by every command that builds an airplane.
type flightFlags struct {
	configFile string
	dt         float64
	duration   float64
	seed       int64
	mass       float64
	throttle   float64
	maxThrust  float64
	pitch      float64
	altitude   float64
	speed      float64
	airfoil    string
	noGravity  bool
	set        []string
}

func (f *flightFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fs.Float64Var(&f.dt, "dt", config.DefaultDt, "timestep (s)")
	fs.Float64Var(&f.duration, "time", config.DefaultDuration, "duration (s)")
	fs.Int64Var(&f.seed, "seed", 0, "random seed")
	fs.Float64Var(&f.mass, "mass", config.DefaultMass, "airplane mass (kg)")
	fs.Float64Var(&f.throttle, "throttle", 0, "initial throttle [0,1]")
	fs.Float64Var(&f.maxThrust, "thrust", 0, "maximum engine thrust (N)")
	fs.Float64Var(&f.pitch, "pitch", 0, "initial pitch (deg)")
	fs.Float64Var(&f.altitude, "altitude", config.DefaultAltitude, "initial altitude (m)")
	fs.Float64Var(&f.speed, "speed", config.DefaultSpeed, "initial forward speed (m/s)")
	fs.StringVar(&f.airfoil, "airfoil", config.DefaultAirfoil, "airfoil for the default wing layout")
	fs.BoolVar(&f.noGravity, "no-gravity", false, "disable gravity")
	fs.StringArrayVar(&f.set, "set", nil, "override a parameter, e.g. --set airplane.wind.x=5 (repeatable)")
}

// resolve builds the config for a command. Precedence, lowest first:
// scenario preset, config file, explicit flags, --set overrides.
func (f *flightFlags) resolve(cmd *cobra.Command, args []string) (*config.Config, error) {
	scenario := config.DefaultScenario
	if len(args) > 0 {
		scenario = args[0]
	}

	cfg, err := reg.GetScenario(scenario)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(reg.ListScenarios(), ", "))
	}
	if f.configFile != "" {
		if cfg, err = config.Load(f.configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	changed := cmd.Flags().Changed
	if changed("dt") {
		cfg.Dt = f.dt
	}
	if changed("time") {
		cfg.Duration = f.duration
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("mass") {
		cfg.Airplane.Mass = f.mass
	}
	if changed("throttle") {
		cfg.Airplane.Throttle = f.throttle
	}
	if changed("thrust") {
		cfg.Airplane.MaxThrust = f.maxThrust
	}
	if changed("pitch") {
		cfg.Airplane.Attitude.Pitch = f.pitch
	}
	if changed("altitude") {
		cfg.Airplane.Position[1] = f.altitude
	}
	if changed("speed") {
		cfg.Airplane.Velocity[0] = f.speed
	}
	if changed("airfoil") {
		cfg.Airplane.Airfoil = f.airfoil
	}
	if changed("no-gravity") {
		cfg.Gravity = !f.noGravity
	}
	for _, kv := range f.set {
		name, value, err := parseAssignment(kv)
		if err != nil {
			return nil, err
		}
		if err := cfg.SetParam(name, value); err != nil {
			return nil, fmt.Errorf("%w (known: %s)", err, strings.Join(config.ParamNames(), ", "))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseAssignment(s string) (string, float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("expected name=value, got %q", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(name), v, nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newRunCmd() *cobra.Command {
	var (
		flags       flightFlags
		metricNames []string
		noSave      bool
		saveConfig  string
	)
	cmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a headless simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			if saveConfig != "" {
				if err := config.Save(saveConfig, cfg); err != nil {
					return err
				}
			}

			exp, err := experiment.New(cfg, reg)
			if err != nil {
				return err
			}
			ms, err := selectMetrics(exp, metricNames)
			if err != nil {
				return err
			}
			runLog := logging.WithRun(logger, logging.NewRunID())
			exp.Setup(ms, runLog)

			ctx, cancel := interruptContext()
			defer cancel()

			start := time.Now()
			result, runErr := exp.Run(ctx)
			elapsed := time.Since(start)
			if result == nil {
				return runErr
			}

			var simErr sim.SimError
			if runErr != nil && !errors.As(runErr, &simErr) {
				return runErr
			}

			printSummary(cfg, result, elapsed)
			if !noSave {
				st := storage.New(dataDir)
				runID, err := st.Save(exp.Config(), result)
				if err != nil {
					return err
				}
				runLog.Info("run saved", "id", runID, "dir", st.Dir())
				printf("\nsaved: %s\n", runID)
			}
			return runErr
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default: energy_drift, quat_drift, max_speed, altitude_change, stability; known: "+strings.Join(metrics.Names(), ", ")+")")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to this yaml file")
	return cmd
}

func selectMetrics(exp *experiment.Experiment, names []string) ([]sim.Metric, error) {
	if len(names) == 0 {
		return reg.DefaultMetrics(exp.Airplane()), nil
	}
	body := exp.Airplane().Body()
	out := make([]sim.Metric, 0, len(names))
	for _, n := range names {
		m, err := metrics.ByName(n, body.Mass(), body.Inertia())
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func printSummary(cfg *config.Config, result *sim.Result, elapsed time.Duration) {
	final := result.Final()
	printf("scenario: %s\n", cfg.Scenario)
	printf("steps:    %d (%.2fs simulated in %v)\n", result.StepsTaken, final.Time, elapsed.Round(time.Millisecond))
	printf("final:    pos=(%.1f, %.1f, %.1f) m  speed=%.2f m/s\n",
		final.Position[0], final.Position[1], final.Position[2], final.Velocity.Len())
	for _, e := range result.Errors {
		printf("error:    %v\n", e)
	}

	if len(result.Metrics) == 0 {
		return
	}
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)

	printf("\n")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, n := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", n, result.Metrics[n])
	}
	w.Flush()
}

func newLiveCmd() *cobra.Command {
	var (
		flags  flightFlags
		theme  string
		camera string
		gif    string
	)
	cmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "fly a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			logger.Debug("starting live view", "scenario", cfg.Scenario, "theme", theme, "camera", camera)
			return viz.RunLive(cfg, reg, func(m *viz.Model) {
				m.SetTheme(theme)
				m.SetCamera(camera)
				m.SetGIFPath(gif)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeHUD.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	cmd.Flags().StringVar(&camera, "camera", viz.ChaseCamera.String(), "camera mode (chase, side, top)")
	cmd.Flags().StringVar(&gif, "gif", "flight.gif", "GIF recording output path")
	return cmd
}
