// Package automation runs scripted and swept batches of headless training
// runs.
package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mllab/internal/experiment"
	"github.com/san-kum/mllab/internal/metrics"
)

// Scenario defines a scripted sequence of training runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario
type ScenarioStep struct {
	Viz    string             `yaml:"viz"`
	Steps  int                `yaml:"steps"`
	Seed   int64              `yaml:"seed"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// RunScenario executes all steps in order. onStep, if set, sees each result
// as soon as its step finishes; an error from it aborts the scenario.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, onStep func(i int, step ScenarioStep, r *experiment.Result) error) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		vis, err := registry.GetVisualization(step.Viz)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(experiment.Config{
			Viz:    step.Viz,
			Steps:  step.Steps,
			Seed:   step.Seed,
			Params: step.Params,
		})
		if err := exp.Setup(vis); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)

		if onStep != nil {
			if err := onStep(i, step, result); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}

	return results, nil
}

// ParameterSweep trains one visualization across evenly spaced values of a
// single parameter.
type ParameterSweep struct {
	Viz       string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Steps     int
	Seed      int64
}

// SweepResult holds the outcome of one sweep point. Diverged is set when the
// run overflowed or the metric ended above where it started. Final is NaN
// for an overflowed run.
type SweepResult struct {
	ParamValue float64
	Metric     string
	Initial    float64
	Final      float64
	Diverged   bool
}

// RunSweep executes a parameter sweep. Every point starts from the same
// seed, so only the parameter differs.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 points, got %d", sweep.NumSteps)
	}
	metric := registry.PrimaryMetric(sweep.Viz)
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		vis, err := registry.GetVisualization(sweep.Viz)
		if err != nil {
			return nil, err
		}
		exp := experiment.New(experiment.Config{
			Viz:    sweep.Viz,
			Steps:  sweep.Steps,
			Seed:   sweep.Seed,
			Params: map[string]float64{sweep.ParamName: paramVal},
		})
		if err := exp.Setup(vis); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		initial, final := math.NaN(), math.NaN()
		if v, ok := result.Trajectory[0].Metrics[metric]; ok {
			initial = v
		}
		if v, ok := result.Final[metric]; ok {
			final = v
		}
		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metric:     metric,
			Initial:    initial,
			Final:      final,
			Diverged: result.Final[metrics.NameDiverged] == 1 ||
				math.IsNaN(final) || math.IsInf(final, 0) || final > initial,
		})
	}

	return results, nil
}

// SweepStats counts converged and diverged sweep points.
func SweepStats(results []SweepResult) (converged int, diverged int) {
	for _, r := range results {
		if r.Diverged {
			diverged++
		} else {
			converged++
		}
	}
	return
}
