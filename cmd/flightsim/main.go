package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/flightsim/internal/experiment"
	"github.com/san-kum/flightsim/internal/logging"
	"github.com/san-kum/flightsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool

	logger *slog.Logger
	reg    = experiment.NewRegistry()
)

// main registers commands and flags, starts the interactive picker when no
// subcommand is given, and exits with status 1 on error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flightsim",
		Short: "rigid-body flight model lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(reg)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".flightsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides "+logging.EnvLevel)
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	rootCmd.AddCommand(
		newRunCmd(),
		newLiveCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newExportSVGCmd(),
		newAnalyzeCmd(),
		newPhaseCmd(),
		newPresetsCmd(),
		newAirfoilsCmd(),
		newSweepCmd(),
		newBenchCmd(),
		newScriptCmd(),
	)
	return rootCmd
}

func newLogger() *slog.Logger {
	level := logging.LevelFromEnv()
	if logLevel != "" {
		level = logging.ParseLevel(logLevel)
	}
	if logJSON {
		return logging.NewJSONWithWriter(os.Stderr, level)
	}
	return logging.NewWithWriter(os.Stderr, level)
}

func printf(format string, args ...any) { fmt.Fprintf(os.Stdout, format, args...) }
