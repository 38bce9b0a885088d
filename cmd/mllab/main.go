package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/mllab/internal/api"
	"github.com/san-kum/mllab/internal/catalog"
	"github.com/san-kum/mllab/internal/config"
	"github.com/san-kum/mllab/internal/experiment"
	"github.com/san-kum/mllab/internal/sim"
	"github.com/san-kum/mllab/internal/tutor"
	"github.com/san-kum/mllab/internal/viz"
)

var (
	configFile    string
	dataDir       string
	verbose       bool
	seed          int64
	steps         int
	learningRate  float64
	intervalMs    int
	preset        string
	theme         string
	listen        string
	numRuns       int
	metricName    string
	outFile       string
	svgWidth      int
	svgHeight     int
	project       bool
	snapshotSteps int
	paramName     string
	paramMin      float64
	paramMax      float64
	sweepPoints   int
	gridSpec      []string
	vectors       bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "mllab",
})

func main() {
	rootCmd := &cobra.Command{
		Use:   "mllab",
		Short: "interactive machine learning lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: runInteractive,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	rootCmd.Flags().IntVar(&intervalMs, "interval", 0, "training period in ms (0 keeps each visualization's own)")
	rootCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	topicsCmd := &cobra.Command{
		Use:   "topics",
		Short: "list topics",
		RunE:  listTopics,
	}

	showCmd := &cobra.Command{
		Use:   "show [topic]",
		Short: "print a topic",
		Args:  cobra.ExactArgs(1),
		RunE:  showTopic,
	}

	liveCmd := &cobra.Command{
		Use:   "live [viz]",
		Short: "run a visualization with live view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	liveCmd.Flags().Float64Var(&learningRate, "lr", config.DefaultLearningRate, "learning rate (linear-regression)")
	liveCmd.Flags().IntVar(&intervalMs, "interval", 0, "training period in ms")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	trainCmd := &cobra.Command{
		Use:   "train [viz]",
		Short: "train a visualization headlessly and save the run",
		Args:  cobra.ExactArgs(1),
		RunE:  trainViz,
	}
	trainCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	trainCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	trainCmd.Flags().Float64Var(&learningRate, "lr", config.DefaultLearningRate, "learning rate (linear-regression)")
	trainCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	trainCmd.Flags().IntVar(&numRuns, "runs", 1, "number of runs from consecutive seeds")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "", "plot only this metric")
	plotCmd.Flags().StringVarP(&outFile, "svg", "o", "", "write the metric as SVG instead")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [viz]",
		Short: "render a visualization scene to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotViz,
	}
	snapshotCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	snapshotCmd.Flags().IntVar(&snapshotSteps, "steps", 0, "steps to apply before rendering")
	snapshotCmd.Flags().BoolVar(&project, "project", false, "project the points (pca)")
	snapshotCmd.Flags().BoolVar(&vectors, "vectors", false, "show principal components (pca)")
	snapshotCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	snapshotCmd.Flags().IntVar(&svgWidth, "width", 600, "image width")
	snapshotCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <viz>.svg)")

	askCmd := &cobra.Command{
		Use:   "ask [topic] [question...]",
		Short: "ask the tutor about a topic",
		Args:  cobra.MinimumNArgs(2),
		RunE:  askTutor,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [viz]",
		Short: "list available presets for a visualization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for visualization: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				cfg := config.GetPreset(args[0], p)
				fmt.Printf("  %-12s steps=%d seed=%d\n", p, cfg.Steps, cfg.Seed)
			}
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve topics, visualizations and the tutor over HTTP",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&listen, "listen", config.DefaultListen, "listen address")
	serveCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of training runs (yaml)",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [viz]",
		Short: "train across evenly spaced values of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&paramName, "param", "learning_rate", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0.00001, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 0.0005, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "n", 5, "number of values")
	sweepCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps per run")
	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	tuneCmd := &cobra.Command{
		Use:   "tune [viz]",
		Short: "grid search parameters for the lowest final metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().StringArrayVar(&gridSpec, "grid", []string{"learning_rate=0.00001,0.00005,0.0001,0.0002"}, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps per run")
	tuneCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	rootCmd.AddCommand(topicsCmd, showCmd, liveCmd, trainCmd, runsCmd, plotCmd, exportCSVCmd, exportJSONCmd, snapshotCmd, askCmd, presetsCmd, serveCmd, scenarioCmd, sweepCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the config file, then the preset, then explicitly set
// flags over the defaults.
func loadConfig(cmd *cobra.Command, vizName string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if vizName != "" {
		cfg.Viz = vizName
	}

	if preset != "" {
		p := config.GetPreset(cfg.Viz, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Viz))
		}
		cfg.Seed = p.Seed
		cfg.Steps = p.Steps
		cfg.IntervalMs = p.IntervalMs
		if p.LearningRate > 0 {
			cfg.LearningRate = p.LearningRate
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("lr") {
		cfg.LearningRate = learningRate
	}
	if flags.Changed("interval") {
		cfg.IntervalMs = intervalMs
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("listen") {
		cfg.Server.Listen = listen
	}
	logger.Debug("config", "viz", cfg.Viz, "seed", cfg.Seed, "steps", cfg.Steps, "data", cfg.DataDir)
	return cfg, nil
}

func newSession(cfg *config.Config, l *log.Logger, topic catalog.Topic) *tutor.Session {
	key := cfg.APIKey()
	provider := tutor.NewGemini(key, cfg.Tutor.Model, cfg.Tutor.Temperature)
	adapter := tutor.NewAdapter(provider, key, tutor.WithLogger(l))
	return tutor.NewSession(adapter, topic)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	// The TUI owns the terminal; tutor diagnostics are dropped.
	quiet := log.New(io.Discard)
	return viz.Run(viz.Options{
		Session:  newSession(cfg, quiet, catalog.First()),
		Registry: experiment.NewRegistry(),
		Seed:     cfg.Seed,
		Interval: cfg.Interval(),
		Theme:    cfg.Theme,
	})
}

func listTopics(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tVIZ\tTITLE")
	for _, t := range catalog.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Type, t.Viz, t.Title)
	}
	return w.Flush()
}

func showTopic(cmd *cobra.Command, args []string) error {
	t, err := catalog.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n\n", t.Title, strings.Repeat("=", len(t.Title)))
	fmt.Printf("[%s]\n\n%s\n\n%s\n", t.Type, t.Description, t.Content)
	for _, m := range t.Math {
		fmt.Printf("\n## %s\n%s\n", m.Title, m.Content)
		if m.Formula != "" {
			fmt.Printf("  %s\n", m.Formula)
		}
	}
	if len(t.UseCases) > 0 {
		fmt.Println("\nuse cases:")
		for _, uc := range t.UseCases {
			fmt.Printf("  - %s\n", uc)
		}
	}
	if t.Viz != sim.KindNone {
		fmt.Printf("\nvisualization: mllab live %s\n", t.Viz)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	vis, err := registry.GetVisualization(cfg.Viz)
	if err != nil {
		return err
	}
	if c, ok := vis.(sim.Configurable); ok {
		for name, v := range cfg.Params() {
			if err := c.SetParam(name, v); err != nil {
				return fmt.Errorf("param %s: %w", name, err)
			}
		}
	}
	viz.SetTheme(cfg.Theme)
	return viz.RunLive(vis, cfg.Seed, cfg.Interval(), registry.PrimaryMetric(cfg.Viz))
}

func askTutor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	topic, err := catalog.Get(args[0])
	if err != nil {
		return err
	}
	session := newSession(cfg, logger, topic)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	_, err = session.Ask(ctx, strings.Join(args[1:], " "), func(fragment string) {
		fmt.Print(fragment)
	})
	fmt.Println()
	return err
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(experiment.NewRegistry(), newSession(cfg, logger, catalog.First()), cfg.Seed, logger)
	return server.ListenAndServe(ctx, cfg.Server.Listen)
}
