package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mllab/internal/experiment"
	"github.com/san-kum/mllab/internal/export"
	"github.com/san-kum/mllab/internal/sim"
	"github.com/san-kum/mllab/internal/storage"
	"github.com/san-kum/mllab/internal/viz"
)

func trainViz(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	expCfg := experiment.Config{
		Viz:    cfg.Viz,
		Steps:  cfg.Steps,
		Seed:   cfg.Seed,
		Params: cfg.Params(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if numRuns > 1 {
		return trainEnsemble(ctx, st, registry, expCfg)
	}

	vis, err := registry.GetVisualization(cfg.Viz)
	if err != nil {
		return err
	}
	exp := experiment.New(expCfg)
	if err := exp.Setup(vis); err != nil {
		return err
	}

	fmt.Printf("training %s for %d steps...\n", cfg.Viz, cfg.Steps)
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	runID, err := st.Save(result)
	if err != nil {
		return err
	}
	logger.Debug("saved run", "id", runID, "elapsed", result.Duration)

	fmt.Printf("completed in %v\n", result.Duration)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Println("\nmetrics:")
	for _, name := range result.MetricNames() {
		if v, ok := result.Final[name]; ok {
			fmt.Printf("  %s: %.6f\n", name, v)
		}
	}
	return nil
}

func trainEnsemble(ctx context.Context, st *storage.Store, registry *experiment.Registry, cfg experiment.Config) error {
	fmt.Printf("training %s x%d from seed %d...\n", cfg.Viz, numRuns, cfg.Seed)
	results, err := experiment.NewEnsemble(registry, numRuns, cfg.Seed).Run(ctx, cfg)
	if err != nil {
		return err
	}

	metric := registry.PrimaryMetric(cfg.Viz)
	finals := make([]float64, 0, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSEED\t%s\n", metric)
	for _, r := range results {
		runID, err := st.Save(r)
		if err != nil {
			return err
		}
		v, ok := r.Final[metric]
		if !ok {
			fmt.Fprintf(w, "%s\t%d\tdiverged\n", runID, r.Seed)
			continue
		}
		finals = append(finals, v)
		fmt.Fprintf(w, "%s\t%d\t%.6f\n", runID, r.Seed, v)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(finals) == 0 {
		return fmt.Errorf("every run diverged")
	}

	mean, std := stat.MeanStdDev(finals, nil)
	fmt.Printf("\n%s: mean %.6f  std %.6f\n", metric, mean, std)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVIZ\tTIME\tSTEPS\tSEED\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%dms\n",
			run.ID,
			run.Viz,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Seed,
			run.ElapsedMs,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	columns := traj.Columns
	if metricName != "" {
		columns = []string{metricName}
	}

	if outFile != "" {
		series, ok := traj.Series(columns[0])
		if !ok {
			return fmt.Errorf("unknown metric: %s (available: %v)", columns[0], traj.Columns)
		}
		svg := export.SeriesToSVG(series, 800, 300, string(viz.CurrentTheme.Primary))
		if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("viz: %s\n", meta.Viz)
	fmt.Printf("samples: %d\n\n", len(traj.Rows))

	for _, name := range columns {
		series, ok := traj.Series(name)
		if !ok {
			return fmt.Errorf("unknown metric: %s (available: %v)", name, traj.Columns)
		}
		graph := asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

// output opens outFile, or stdout when unset.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	return st.ExportCSV(w, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	return st.ExportJSON(w, args[0])
}

func snapshotViz(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	vis, err := experiment.NewRegistry().GetVisualization(cfg.Viz)
	if err != nil {
		return err
	}

	in := sim.NewInstance(vis, cfg.Seed, 0)
	for i := 0; i < snapshotSteps; i++ {
		in.Step()
	}
	if project {
		if err := in.Project(); err != nil {
			return fmt.Errorf("project: %w", err)
		}
	}
	if vectors {
		if err := in.Vectors(); err != nil {
			return fmt.Errorf("vectors: %w", err)
		}
	}

	path := outFile
	if path == "" {
		path = cfg.Viz + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	snap := in.Snapshot()
	palette := export.ThemePalette(viz.GetTheme(cfg.Theme))
	if err := export.WriteScene(f, snap.Scene, svgWidth, svgHeight, palette); err != nil {
		return err
	}
	fmt.Printf("wrote %s (epoch %d)\n", path, snap.Epoch)
	return nil
}
