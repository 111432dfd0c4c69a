package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlebox/internal/analysis"
	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/export"
	"github.com/san-kum/particlebox/internal/gui"
	"github.com/san-kum/particlebox/internal/metrics"
	"github.com/san-kum/particlebox/internal/physics"
	"github.com/san-kum/particlebox/internal/sim"
	"github.com/san-kum/particlebox/internal/storage"
	"github.com/san-kum/particlebox/internal/viz"
	"github.com/san-kum/particlebox/internal/world"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	particles   int
	width       float64
	height      float64
	radius      float64
	gravity     float64
	restitution float64
	maxSpeed    float64
	stepper     string
	dt          float64
	duration    float64
	seed        int64
	frameRate   int
	// Config file
	configFile string
	// Preset name
	preset string
	// SVG output path
	svgOut string
)

// main is the entry point for the particlebox CLI; it registers commands
// and flags, launches the GUI sandbox when no subcommand is given, and
// exits with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "particlebox",
		Short: "bouncing-particle physics sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the GUI sandbox when no command given
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".particlebox", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal visualization",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return viz.Run(cfg)
		},
	}
	addSimFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run simulation with high-performance GUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}
	addSimFlags(guiCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(args[0], os.Stdout)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render run trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark steppers over particle counts",
		RunE:  benchSteppers,
	}
	benchCmd.Flags().Float64Var(&duration, "time", 2.0, "duration per cell")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, liveCmd, guiCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "number of particles")
	cmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "box width (px)")
	cmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "box height (px)")
	cmd.Flags().Float64Var(&radius, "radius", config.DefaultRadius, "particle radius (px)")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity (px/s^2)")
	cmd.Flags().Float64Var(&restitution, "restitution", config.DefaultRestitution, "bounce energy retention [0,1]")
	cmd.Flags().Float64Var(&maxSpeed, "max-speed", config.DefaultMaxSpeed, "max initial speed (px/s)")
	cmd.Flags().StringVar(&stepper, "stepper", config.DefaultStepper, "boundary stepper (discrete|continuous)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: time-based)")
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "display frame rate")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves the effective configuration: defaults, then
// preset, then config file, then explicitly set CLI flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("radius") {
		cfg.Radius = radius
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("restitution") {
		cfg.Restitution = restitution
	}
	if flags.Changed("max-speed") {
		cfg.MaxSpeed = maxSpeed
	}
	if flags.Changed("stepper") {
		cfg.Stepper = stepper
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSimulator(cfg *config.Config) (*sim.Simulator, *world.World, error) {
	w, err := world.New(world.SeedConfig{
		Count:    cfg.Particles,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Radius:   cfg.Radius,
		MaxSpeed: cfg.MaxSpeed,
		Seed:     cfg.Seed,
	})
	if err != nil {
		return nil, nil, err
	}

	stepper, err := physics.NewStepper(cfg.Stepper, cfg.Gravity, cfg.Restitution)
	if err != nil {
		return nil, nil, err
	}
	resolver := &physics.Resolver{
		Restitution:       cfg.Restitution,
		CorrectionPercent: cfg.CorrectionPercent,
		Slop:              cfg.CorrectionSlop,
	}

	return sim.New(stepper, resolver), w, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	simulator, w, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	simulator.AddMetric(metrics.NewEnergy(cfg.Gravity))
	simulator.AddMetric(metrics.NewMaxSpeed())
	simulator.AddMetric(metrics.NewOverlap())

	fmt.Printf("running %d particles, %s stepper...\n", cfg.Particles, cfg.Stepper)
	start := time.Now()

	result, err := simulator.Run(context.Background(), w, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tSTEPPER\tDURATION\tDT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.2fs\t%.4fs\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Stepper,
			run.Duration,
			run.Dt,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, _, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Particles)
	fmt.Printf("samples: %d\n\n", len(frames))

	// Plot position and velocity of the first few particles.
	captions := []string{"x", "y", "vx", "vy"}
	maxParticles := 2
	n := len(frames[0]) / 4
	if n > maxParticles {
		n = maxParticles
	}

	for p := 0; p < n; p++ {
		for c := 0; c < 4; c++ {
			data := make([]float64, len(frames))
			for i := range frames {
				idx := p*4 + c
				if idx < len(frames[i]) {
					data[i] = frames[i][idx]
				}
			}

			graph := asciigraph.Plot(data,
				asciigraph.Height(8),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s%d vs time", captions[c], p)),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, _, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 || len(frames[0]) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("particles: %d, gravity: %.1f\n\n", meta.Particles, meta.Gravity)

	// Vertical position of the first particle carries the bounce cycle.
	data := make([]float64, len(frames))
	for i := range frames {
		if len(frames[i]) > 1 {
			data[i] = frames[i][1]
		}
	}

	ps := analysis.PowerSpectrum(analysis.PadPow2(data))
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (y0)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(ps, len(data), meta.Duration)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, _, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	svg := export.TrajectorySVG(frames, meta.Width, meta.Height)
	if svgOut == "" {
		fmt.Print(svg)
		return nil
	}
	return os.WriteFile(svgOut, []byte(svg), 0644)
}

func benchSteppers(cmd *cobra.Command, args []string) error {
	counts := []int{16, 64, 256}
	dts := []float64{1.0 / 60, 1.0 / 240}

	fmt.Println("benchmarking steppers")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPPER\tPARTICLES\tDT\tFRAMES\tTIME\tFRAMES/SEC")

	for _, name := range physics.StepperNames() {
		for _, count := range counts {
			for _, step := range dts {
				cfg := config.DefaultConfig()
				cfg.Particles = count
				cfg.Stepper = name
				cfg.Dt = step
				cfg.Duration = duration
				cfg.Seed = 42

				simulator, box, err := newSimulator(cfg)
				if err != nil {
					return err
				}

				start := time.Now()
				result, err := simulator.Run(context.Background(), box, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
				if err != nil {
					return err
				}
				elapsed := time.Since(start)

				frames := len(result.Frames)
				framesPerSec := float64(frames) / elapsed.Seconds()

				fmt.Fprintf(w, "%s\t%d\t%.4fs\t%d\t%v\t%.0f\n",
					name, count, step, frames, elapsed, framesPerSec)
			}
		}
	}

	return w.Flush()
}
