package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/mllab/internal/metrics"
	"github.com/san-kum/mllab/internal/sim"
)

type Registry struct {
	visualizations map[sim.Kind]func() sim.Visualization
	primary        map[sim.Kind]string
}

func NewRegistry() *Registry {
	r := &Registry{
		visualizations: make(map[sim.Kind]func() sim.Visualization),
		primary:        make(map[sim.Kind]string),
	}

	r.visualizations[sim.KindLinear] = func() sim.Visualization { return sim.NewLinearRegression() }
	r.visualizations[sim.KindLogistic] = func() sim.Visualization { return sim.NewLogisticRegression() }
	r.visualizations[sim.KindKMeans] = func() sim.Visualization { return sim.NewKMeans() }
	r.visualizations[sim.KindNeural] = func() sim.Visualization { return sim.NewNeuralNet() }
	r.visualizations[sim.KindPCA] = func() sim.Visualization { return sim.NewPCA() }

	r.primary[sim.KindLinear] = metrics.NameMSE
	r.primary[sim.KindLogistic] = metrics.NameLogLoss
	r.primary[sim.KindKMeans] = metrics.NameInertia
	r.primary[sim.KindNeural] = metrics.NameSignals
	r.primary[sim.KindPCA] = metrics.NameExplained

	return r
}

func (r *Registry) GetVisualization(name string) (sim.Visualization, error) {
	fn, ok := r.visualizations[sim.Kind(name)]
	if !ok {
		return nil, fmt.Errorf("unknown visualization: %s", name)
	}
	return fn(), nil
}

// ListVisualizations returns the registered kinds in sorted order.
func (r *Registry) ListVisualizations() []string {
	names := make([]string, 0, len(r.visualizations))
	for kind := range r.visualizations {
		names = append(names, string(kind))
	}
	sort.Strings(names)
	return names
}

// PrimaryMetric is the metric charted for a visualization.
func (r *Registry) PrimaryMetric(name string) string {
	return r.primary[sim.Kind(name)]
}
