package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/mllab/internal/automation"
	"github.com/san-kum/mllab/internal/experiment"
	"github.com/san-kum/mllab/internal/optim"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	_, err = automation.RunScenario(ctx, sc, experiment.NewRegistry(), func(i int, step automation.ScenarioStep, r *experiment.Result) error {
		runID, err := st.Save(r)
		if err != nil {
			return err
		}
		label := step.SaveAs
		if label == "" {
			label = step.Viz
		}
		fmt.Printf("  [%d/%d] %-20s %s (%v)\n", i+1, len(sc.Steps), label, runID, r.Duration)
		return nil
	})
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Viz:       cfg.Viz,
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  sweepPoints,
		Steps:     cfg.Steps,
		Seed:      cfg.Seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tINITIAL\tFINAL\tSTATUS\n", strings.ToUpper(paramName))
	for _, r := range results {
		status := "converging"
		if r.Diverged {
			status = "diverged"
		}
		fmt.Fprintf(w, "%.6g\t%.4f\t%.4g\t%s\n", r.ParamValue, r.Initial, r.Final, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	converged, diverged := automation.SweepStats(results)
	fmt.Printf("\n%d converging, %d diverged (%s after %d steps)\n", converged, diverged, results[0].Metric, cfg.Steps)
	return nil
}

// parseGrid reads name=v1,v2,... specs in flag order.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("invalid grid %q: want name=v1,v2", spec)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid grid %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridSpec)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	metric := registry.PrimaryMetric(cfg.Viz)
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		vis, err := registry.GetVisualization(cfg.Viz)
		if err != nil {
			return nil, err
		}
		exp := experiment.New(experiment.Config{Viz: cfg.Viz, Steps: cfg.Steps, Seed: cfg.Seed, Params: params})
		if err := exp.Setup(vis); err != nil {
			logger.Debug("skipping grid point", "params", params, "err", err)
			return nil, err
		}
		return exp, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, value, err := optim.NewGridSearch(names, ranges).Search(ctx, build, metric)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("best %s: %.6f\n", metric, value)
	for _, k := range keys {
		fmt.Printf("  %s: %g\n", k, best[k])
	}
	return nil
}
