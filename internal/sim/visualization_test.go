package sim

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/san-kum/mllab/internal/learn"
	"github.com/san-kum/mllab/internal/metrics"
)

func TestResetCounts(t *testing.T) {
	tests := []struct {
		name  string
		vis   Visualization
		count func(Visualization) int
		want  int
	}{
		{"linear", NewLinearRegression(), func(v Visualization) int { return len(v.(*LinearRegression).Points) }, 20},
		{"logistic", NewLogisticRegression(), func(v Visualization) int { return len(v.(*LogisticRegression).Points) }, 40},
		{"kmeans", NewKMeans(), func(v Visualization) int { return len(v.(*KMeans).Points) }, 90},
		{"pca", NewPCA(), func(v Visualization) int { return len(v.(*PCA).Points) }, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			for i := 0; i < 3; i++ {
				tt.vis.Reset(rng)
				if got := tt.count(tt.vis); got != tt.want {
					t.Errorf("reset %d: got %d points, want %d", i, got, tt.want)
				}
				if tt.vis.Epoch() != 0 {
					t.Errorf("reset %d: epoch %d, want 0", i, tt.vis.Epoch())
				}
				tt.vis.Step()
			}
		})
	}
}

func TestLinearResetZeroesModel(t *testing.T) {
	l := NewLinearRegression()
	l.Reset(rand.New(rand.NewSource(1)))
	for i := 0; i < 10; i++ {
		l.Step()
	}
	if l.Model == (learn.LinearModel{}) {
		t.Fatal("expected training to move the model")
	}
	l.Reset(rand.New(rand.NewSource(2)))
	if l.Model != (learn.LinearModel{}) {
		t.Errorf("expected zero model after reset, got %+v", l.Model)
	}
}

func TestLinearSetParam(t *testing.T) {
	l := NewLinearRegression()
	if err := l.SetParam("learning_rate", 0.001); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.GetParams()["learning_rate"] != 0.001 {
		t.Errorf("learning rate not applied")
	}
	if err := l.SetParam("momentum", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestKMeansResetUnassigned(t *testing.T) {
	k := NewKMeans()
	k.Reset(rand.New(rand.NewSource(5)))

	for i, a := range k.Assign {
		if a != learn.Unassigned {
			t.Fatalf("point %d assigned to %d before first step", i, a)
		}
	}
	if len(k.Centroids) != 3 {
		t.Fatalf("expected 3 centroids, got %d", len(k.Centroids))
	}
	for i, c := range k.Centroids {
		if c.Color != learn.CentroidColors[i] {
			t.Errorf("centroid %d color %s, want %s", i, c.Color, learn.CentroidColors[i])
		}
	}

	k.Step()
	k.Step()
	if k.Epoch() != 2 {
		t.Errorf("expected iteration 2, got %d", k.Epoch())
	}
	for i, c := range k.Centroids {
		if c.Color != learn.CentroidColors[i] {
			t.Errorf("centroid %d changed color to %s", i, c.Color)
		}
	}
}

func TestPCAToggle(t *testing.T) {
	p := NewPCA()
	p.Reset(rand.New(rand.NewSource(3)))
	before := append([]learn.PCAPoint(nil), p.Points...)

	p.ToggleProjection()
	if !p.Projected() {
		t.Fatal("expected projected state")
	}
	p.ToggleProjection()
	for i := range before {
		if p.Points[i] != before[i] {
			t.Fatalf("point %d not restored: %+v != %+v", i, p.Points[i], before[i])
		}
	}

	p.Step()
	if p.Epoch() != 0 || p.Projected() {
		t.Error("step must not change the PCA demo")
	}
	if p.Interval() != 0 {
		t.Error("PCA has no training loop")
	}
}

func TestPCAMetrics(t *testing.T) {
	p := NewPCA()
	p.Reset(rand.New(rand.NewSource(9)))
	m := p.Metrics()

	if m[metrics.NameExplained] < 0.7 || m[metrics.NameExplained] > 1 {
		t.Errorf("explained variance %f out of range", m[metrics.NameExplained])
	}
	angle, ok := m[metrics.NameAngle]
	if !ok {
		t.Fatal("expected a fitted PC1 angle")
	}
	if angle < 0 || angle > 30 {
		t.Errorf("fitted PC1 %f degrees off the diagonal", angle)
	}
}

func TestPCAScene(t *testing.T) {
	p := NewPCA()
	p.Reset(rand.New(rand.NewSource(3)))

	if s := p.Scene(); len(s.Segments) != 0 || len(s.Labels) != 0 {
		t.Errorf("plain view should have no segments, got %d", len(s.Segments))
	}
	p.ToggleVectors()
	s := p.Scene()
	if len(s.Segments) != 2 || s.Segments[0].Color != ColorOrange {
		t.Fatalf("expected PC1 and PC2 arrows, got %+v", s.Segments)
	}
	if s.Labels[0].Text != "PC1 (High Variance)" {
		t.Errorf("unexpected label %q", s.Labels[0].Text)
	}
	p.ToggleProjection()
	s = p.Scene()
	if len(s.Segments) != 2+len(p.Points) {
		t.Errorf("expected projection lines, got %d segments", len(s.Segments))
	}
}

func TestLogisticScene(t *testing.T) {
	l := NewLogisticRegression()
	l.Reset(rand.New(rand.NewSource(4)))

	l.Model = learn.LogisticModel{W1: 1, W2: 1, B: 0}
	s := l.Scene()
	if len(s.Segments) != 1 || !s.Segments[0].Dashed {
		t.Fatalf("expected one dashed boundary, got %+v", s.Segments)
	}

	l.Model = learn.LogisticModel{W1: 1, W2: 0, B: 0}
	if s := l.Scene(); len(s.Segments) != 0 {
		t.Errorf("vertical boundary must be skipped, got %+v", s.Segments)
	}

	for i := 0; i < 50; i++ {
		l.Step()
	}
	if l.Loss < 0 || math.IsNaN(l.Loss) || math.IsInf(l.Loss, 0) {
		t.Errorf("loss %f not finite and non-negative", l.Loss)
	}
}

func TestNeuralNetSignals(t *testing.T) {
	n := NewNeuralNet()
	n.Reset(rand.New(rand.NewSource(1)))

	// 2s of animation: spawns at 800ms and 1600ms, each lasting 1.5s.
	for i := 0; i < 40; i++ {
		n.Step()
	}
	if got := len(n.Signals.Signals); got != 2 {
		t.Errorf("expected 2 live signals, got %d", got)
	}
	s := n.Scene()
	nodes := 0
	for _, l := range n.Net.Layers {
		nodes += l
	}
	if len(s.Markers) != nodes+2 {
		t.Errorf("expected %d markers, got %d", nodes+2, len(s.Markers))
	}

	n.Reset(rand.New(rand.NewSource(1)))
	if len(n.Signals.Signals) != 0 || n.Epoch() != 0 {
		t.Error("reset must clear signals")
	}
}

func TestTake(t *testing.T) {
	l := NewLinearRegression()
	l.Reset(rand.New(rand.NewSource(1)))
	l.Step()

	s := Take(l, true)
	if s.Kind != KindLinear || s.Epoch != 1 || !s.Training {
		t.Errorf("unexpected snapshot header %+v", s)
	}
	if _, ok := s.Params["learning_rate"]; !ok {
		t.Error("expected params for a configurable visualization")
	}
	if _, ok := s.Metrics[metrics.NameMSE]; !ok {
		t.Error("expected mse metric")
	}
}

func TestTakeDiverged(t *testing.T) {
	l := NewLinearRegression()
	l.Reset(rand.New(rand.NewSource(1)))
	if err := l.SetParam("learning_rate", 10); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 400; i++ {
		l.Step()
	}
	if finite(l.Model.Slope) {
		t.Fatalf("expected the model to overflow, slope %f", l.Model.Slope)
	}

	s := Take(l, false)
	if s.Metrics[metrics.NameDiverged] != 1 {
		t.Errorf("expected diverged flag, got %v", s.Metrics)
	}
	for name, v := range s.Metrics {
		if !finite(v) {
			t.Errorf("metric %s is %f", name, v)
		}
	}
	for _, seg := range s.Scene.Segments {
		if !finite(seg.X1, seg.Y1, seg.X2, seg.Y2) {
			t.Errorf("non-finite segment %+v", seg)
		}
	}
	if len(s.Scene.Markers) != len(l.Points) {
		t.Errorf("data points must survive, got %d markers", len(s.Scene.Markers))
	}

	l.Reset(rand.New(rand.NewSource(1)))
	if _, ok := Take(l, false).Metrics[metrics.NameDiverged]; ok {
		t.Error("fresh state must not be flagged")
	}
}

func TestLogisticResetLoss(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		l := NewLogisticRegression()
		l.Reset(rand.New(rand.NewSource(seed)))

		want := metrics.LogLoss(l.Points, l.Model)
		if l.Loss != want || l.Loss <= 0 {
			t.Fatalf("seed %d: loss %f after reset, want %f", seed, l.Loss, want)
		}
		good := strings.Contains(l.Scene().Status, "(good)")
		if good != (l.Loss < GoodLoss) {
			t.Errorf("seed %d: status %q for loss %f", seed, l.Scene().Status, l.Loss)
		}
	}

	l := NewLogisticRegression()
	l.Reset(rand.New(rand.NewSource(1)))
	l.Model = learn.LogisticModel{}
	l.Loss = metrics.LogLoss(l.Points, l.Model)
	if math.Abs(l.Loss-math.Ln2) > 1e-9 {
		t.Errorf("untrained classifier loss %f, want ln 2", l.Loss)
	}
	if strings.Contains(l.Scene().Status, "(good)") {
		t.Errorf("untrained classifier reported as good: %q", l.Scene().Status)
	}
}
