package sim

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/mllab/internal/metrics"
)

// Kind selects a visualization. Values match the topic catalog's viz types.
type Kind string

const (
	KindLinear   Kind = "linear-regression"
	KindLogistic Kind = "logistic-regression"
	KindKMeans   Kind = "k-means"
	KindNeural   Kind = "neural-network"
	KindPCA      Kind = "pca"
	KindNone     Kind = "none"
)

var (
	// ErrNotTrainable is returned when Train is called on a visualization
	// without a training loop.
	ErrNotTrainable = errors.New("sim: visualization has no training loop")

	// ErrUnknownParam is returned by SetParam for a name it does not own.
	ErrUnknownParam = errors.New("sim: unknown parameter")

	// ErrUnsupported is returned when an action does not apply to a
	// visualization.
	ErrUnsupported = errors.New("sim: action not supported by visualization")
)

// Visualization is the state container of one demo. Step applies exactly one
// step of the demo's algorithm. Interval is the period of the training loop,
// or zero when the demo is manual only.
type Visualization interface {
	Kind() Kind
	Title() string
	Reset(rng *rand.Rand)
	Step()
	Epoch() int
	Interval() time.Duration
	Scene() Scene
	Metrics() map[string]float64
}

// Configurable visualizations expose tunable parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Projector is implemented by the PCA demo.
type Projector interface {
	ToggleProjection()
	ToggleVectors()
	Projected() bool
	VectorsShown() bool
}

// Observer is notified after every step applied by an Instance.
type Observer interface {
	OnStep(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnStep(s Snapshot) { f(s) }

// Snapshot is a copy of an Instance's state at one point in time.
type Snapshot struct {
	Kind     Kind               `json:"kind"`
	Title    string             `json:"title"`
	Epoch    int                `json:"epoch"`
	Training bool               `json:"training"`
	Metrics  map[string]float64 `json:"metrics"`
	Params   map[string]float64 `json:"params,omitempty"`
	Scene    Scene              `json:"scene"`
}

// Take captures the current state of v. Non-finite metrics and params are
// dropped and reported as metrics.NameDiverged; scene elements with
// non-finite coordinates are dropped.
func Take(v Visualization, training bool) Snapshot {
	s := Snapshot{
		Kind:     v.Kind(),
		Title:    v.Title(),
		Epoch:    v.Epoch(),
		Training: training,
		Metrics:  v.Metrics(),
		Scene:    finiteScene(v.Scene()),
	}
	if c, ok := v.(Configurable); ok {
		s.Params = c.GetParams()
	}
	diverged := dropNonFinite(s.Metrics)
	if dropNonFinite(s.Params) {
		diverged = true
	}
	if diverged {
		if s.Metrics == nil {
			s.Metrics = map[string]float64{}
		}
		s.Metrics[metrics.NameDiverged] = 1
	}
	return s
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func dropNonFinite(m map[string]float64) bool {
	dropped := false
	for k, v := range m {
		if !finite(v) {
			delete(m, k)
			dropped = true
		}
	}
	return dropped
}

func finiteScene(sc Scene) Scene {
	segs := sc.Segments[:0:0]
	for _, seg := range sc.Segments {
		if finite(seg.X1, seg.Y1, seg.X2, seg.Y2) {
			segs = append(segs, seg)
		}
	}
	marks := sc.Markers[:0:0]
	for _, m := range sc.Markers {
		if finite(m.X, m.Y, m.Size) {
			marks = append(marks, m)
		}
	}
	var labels []Label
	for _, l := range sc.Labels {
		if finite(l.X, l.Y) {
			labels = append(labels, l)
		}
	}
	sc.Segments, sc.Markers, sc.Labels = segs, marks, labels
	return sc
}
