package experiment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/san-kum/mllab/internal/sim"
)

var ErrNotSetup = errors.New("experiment: not setup")

type Config struct {
	Viz    string
	Steps  int
	Seed   int64
	Params map[string]float64
}

// Sample is the metric set recorded after one step.
type Sample struct {
	Epoch   int
	Metrics map[string]float64
}

type Result struct {
	Viz        string
	Seed       int64
	Steps      int
	Params     map[string]float64
	Final      map[string]float64
	Trajectory []Sample
	Duration   time.Duration
}

// MetricNames returns the sorted union of metric names in the trajectory.
func (r *Result) MetricNames() []string {
	seen := make(map[string]bool)
	for _, s := range r.Trajectory {
		for name := range s.Metrics {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Series extracts one metric across the trajectory.
func (r *Result) Series(name string) []float64 {
	out := make([]float64, 0, len(r.Trajectory))
	for _, s := range r.Trajectory {
		if v, ok := s.Metrics[name]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Experiment trains one visualization headlessly for a fixed number of steps.
type Experiment struct {
	cfg      Config
	instance *sim.Instance
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup seeds vis and applies the configured parameters.
func (e *Experiment) Setup(vis sim.Visualization) error {
	if vis.Interval() <= 0 {
		return fmt.Errorf("%s: %w", vis.Kind(), sim.ErrNotTrainable)
	}
	e.instance = sim.NewInstance(vis, e.cfg.Seed, 0)
	for name, v := range e.cfg.Params {
		if err := e.instance.SetParam(name, v); err != nil {
			return fmt.Errorf("param %s: %w", name, err)
		}
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.instance == nil {
		return nil, ErrNotSetup
	}
	if e.cfg.Steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", e.cfg.Steps)
	}

	start := time.Now()
	first := e.instance.Snapshot()
	result := &Result{
		Viz:        string(first.Kind),
		Seed:       e.cfg.Seed,
		Params:     first.Params,
		Trajectory: make([]Sample, 0, e.cfg.Steps+1),
	}
	result.Trajectory = append(result.Trajectory, Sample{Epoch: first.Epoch, Metrics: first.Metrics})

	for i := 0; i < e.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			result.Duration = time.Since(start)
			return result, ctx.Err()
		default:
		}

		e.instance.Step()
		snap := e.instance.Snapshot()
		result.Trajectory = append(result.Trajectory, Sample{Epoch: snap.Epoch, Metrics: snap.Metrics})
		result.Steps++
	}

	result.Final = result.Trajectory[len(result.Trajectory)-1].Metrics
	result.Duration = time.Since(start)
	return result, nil
}

// Instance exposes the trained instance, e.g. for rendering its final scene.
func (e *Experiment) Instance() *sim.Instance {
	return e.instance
}
