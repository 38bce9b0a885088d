package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/mllab/internal/dataset"
	"github.com/san-kum/mllab/internal/learn"
	"github.com/san-kum/mllab/internal/metrics"
)

const (
	LogisticInterval = 50 * time.Millisecond

	// GoodLoss is the loss below which the demo shows the fit as good.
	GoodLoss = 0.3
)

// LogisticRegression trains a linear classifier on two labelled blobs.
type LogisticRegression struct {
	Points []dataset.LabeledPoint
	Model  learn.LogisticModel
	Loss   float64
	epoch  int
}

func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{}
}

func (l *LogisticRegression) Kind() Kind              { return KindLogistic }
func (l *LogisticRegression) Title() string           { return "Logistic Regression Classifier" }
func (l *LogisticRegression) Epoch() int              { return l.epoch }
func (l *LogisticRegression) Interval() time.Duration { return LogisticInterval }

// Reset regenerates the blobs and draws a random starting boundary.
func (l *LogisticRegression) Reset(rng *rand.Rand) {
	l.Points = dataset.TwoClassBlobs(rng, dataset.ClassCount)
	l.Model = learn.LogisticModel{
		W1: rng.Float64() - 0.5,
		W2: rng.Float64() - 0.5,
		B:  rng.Float64() - 0.5,
	}
	l.Loss = metrics.LogLoss(l.Points, l.Model)
	l.epoch = 0
}

func (l *LogisticRegression) Step() {
	l.Model, l.Loss = learn.LogisticStep(l.Points, l.Model)
	l.epoch++
}

func (l *LogisticRegression) Metrics() map[string]float64 {
	return map[string]float64{
		metrics.NameLogLoss:  l.Loss,
		metrics.NameAccuracy: metrics.Accuracy(l.Points, l.Model),
		"w1":                 l.Model.W1,
		"w2":                 l.Model.W2,
		"b":                  l.Model.B,
	}
}

func (l *LogisticRegression) Scene() Scene {
	quality := "high"
	if l.Loss < GoodLoss {
		quality = "good"
	}
	s := Scene{
		Title:  l.Title(),
		Status: fmt.Sprintf("Log Loss: %.4f (%s) | Epoch: %d", l.Loss, quality, l.epoch),
		Hint:   "The green dashed line represents the decision boundary (probability = 0.5).",
		Bounds: Bounds{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100},
		YUp:    true,
	}
	if a, b, ok := l.Model.Boundary(0, 100); ok {
		s.Segments = append(s.Segments, Segment{
			X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y,
			Color:  ColorEmerald,
			Dashed: true,
		})
	}
	for _, p := range l.Points {
		c := ColorRose
		if p.Label == 1 {
			c = ColorBlue
		}
		s.Markers = append(s.Markers, Marker{X: p.X, Y: p.Y, Size: 3, Color: c})
	}
	return s
}
