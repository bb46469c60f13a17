package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/flightsim/internal/analysis"
	"github.com/san-kum/flightsim/internal/export"
	"github.com/san-kum/flightsim/internal/sim"
	"github.com/san-kum/flightsim/internal/storage"
	"github.com/san-kum/flightsim/internal/viz"
)

// loadRun resolves "latest" and reads a stored run.
func loadRun(runID string) (*storage.RunMetadata, []sim.Sample, error) {
	st := storage.New(dataDir)
	if runID == "latest" {
		id, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		runID = id
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, samples, nil
}

// outputFile opens path for writing, or stdout for "" and "-".
func outputFile(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSTEPS\tAIRFOIL\tTHROTTLE")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\t%.2f\n",
					run.ID,
					run.Scenario,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Duration,
					run.Dt,
					run.Steps,
					run.Airfoil,
					run.Throttle,
				)
			}
			return w.Flush()
		},
	}
}

var channelCaptions = map[string]string{
	"y":  "altitude (m)",
	"vx": "forward velocity (m/s)",
	"vy": "vertical velocity (m/s)",
	"vz": "lateral velocity (m/s)",
	"wx": "roll rate (rad/s)",
	"wy": "yaw rate (rad/s)",
	"wz": "pitch rate (rad/s)",
}

func newPlotCmd() *cobra.Command {
	var (
		channels      []string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "plot [run_id|latest]",
		Short: "plot run channels against time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("scenario: %s\n", meta.Scenario)
			fmt.Printf("samples: %d\n\n", len(samples))

			for _, ch := range channels {
				data, err := storage.Channel(samples, ch)
				if err != nil {
					return err
				}
				caption := channelCaptions[ch]
				if caption == "" {
					caption = ch
				}
				fmt.Println(asciigraph.Plot(data,
					asciigraph.Height(height),
					asciigraph.Width(width),
					asciigraph.Caption(caption),
				))
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&channels, "channels", []string{"y", "vx", "vy"}, "channels to plot ("+strings.Join(storage.Columns[1:], ", ")+")")
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	cmd.Flags().IntVar(&height, "height", 10, "plot height")
	return cmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [run_id|latest]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, _, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.ExportMetadata(os.Stdout, meta)
		},
	}
}

func newExportCSVCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-csv [run_id|latest]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			f, closeFn, err := outputFile(out)
			if err != nil {
				return err
			}
			if err := storage.WriteSamplesCSV(f, samples); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-json [run_id|latest]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			f, closeFn, err := outputFile(out)
			if err != nil {
				return err
			}
			if err := storage.ExportJSON(f, meta, samples); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportSVGCmd() *cobra.Command {
	var (
		out           string
		plane         string
		width, height int
		color         string
		braille       bool
	)
	cmd := &cobra.Command{
		Use:   "export-svg [run_id|latest]",
		Short: "draw the flight path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			p, err := export.ParsePlane(plane)
			if err != nil {
				return err
			}

			var svg string
			if braille {
				c := viz.NewCanvas(width/8, height/16)
				c.DrawPolyline(export.Project(samples, p))
				svg = export.CanvasToSVG(c, 4)
			} else {
				svg = export.TrajectoryToSVG(samples, p, width, height, color)
			}
			if svg == "" {
				return fmt.Errorf("not enough samples to draw")
			}

			f, closeFn, err := outputFile(out)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(f, svg); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&plane, "plane", "profile", "profile (x vs altitude) or track (ground track)")
	cmd.Flags().IntVar(&width, "width", 800, "image width")
	cmd.Flags().IntVar(&height, "height", 400, "image height")
	cmd.Flags().StringVar(&color, "color", "#00ff66", "stroke color")
	cmd.Flags().BoolVar(&braille, "braille", false, "render through the terminal canvas instead of a vector path")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var channels []string
	cmd := &cobra.Command{
		Use:   "analyze [run_id|latest]",
		Short: "oscillation analysis of run channels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			dt := meta.Dt
			if len(samples) > 1 {
				dt = samples[1].Time - samples[0].Time
			}

			fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Scenario)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CHANNEL\tMIN\tMAX\tMEAN\tSPECTRAL PERIOD\tCROSSING PERIOD")
			for _, ch := range channels {
				data, err := storage.Channel(samples, ch)
				if err != nil {
					return err
				}
				lo, hi, mean := stats(data)
				detrended := analysis.Detrend(data)
				fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%s\t%s\n", ch, lo, hi, mean,
					period(analysis.DominantPeriod(detrended, dt)),
					period(analysis.CrossingPeriod(detrended, dt)))
			}
			if len(meta.Metrics) > 0 {
				fmt.Fprintln(w)
				fmt.Fprintln(w, "METRIC\tVALUE")
				for _, name := range sortedNames(meta.Metrics) {
					fmt.Fprintf(w, "%s\t%.6g\n", name, meta.Metrics[name])
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&channels, "channels", []string{"y", "vy", "wx", "wy", "wz"}, "channels to analyze")
	return cmd
}

func period(p float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.3fs", p)
}

func stats(data []float64) (lo, hi, mean float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
		mean += v
	}
	return lo, hi, mean / float64(len(data))
}

func newPhaseCmd() *cobra.Command {
	var (
		xAxis, yAxis  string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "phase [run_id|latest]",
		Short: "plot one channel against another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			x, err := storage.Channel(samples, xAxis)
			if err != nil {
				return err
			}
			y, err := storage.Channel(samples, yAxis)
			if err != nil {
				return err
			}
			fmt.Print(analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(xAxis, x, yAxis, y), width, height))
			return nil
		},
	}
	cmd.Flags().StringVar(&xAxis, "x-axis", "x", "channel for the x axis")
	cmd.Flags().StringVar(&yAxis, "y-axis", "y", "channel for the y axis")
	cmd.Flags().IntVar(&width, "width", 60, "plot width")
	cmd.Flags().IntVar(&height, "height", 20, "plot height")
	return cmd
}
