package learn

import (
	"math"

	"github.com/san-kum/mllab/internal/dataset"
)

const (
	// LogisticRate is fixed for the classifier demo.
	LogisticRate = 0.05

	// Probabilities are clamped to [ProbEpsilon, 1-ProbEpsilon] before log.
	ProbEpsilon = 1e-4

	// FeatureCenter and FeatureScale standardize plot coordinates in
	// [0,100] before they reach the model.
	FeatureCenter = 50.0
	FeatureScale  = 10.0

	// VerticalThreshold is the |W2| below which no boundary is drawn.
	VerticalThreshold = 1e-3
)

// LogisticModel is a linear classifier. W1, W2 and B act on standardized
// features (v-FeatureCenter)/FeatureScale, not on raw plot coordinates.
type LogisticModel struct {
	W1 float64 `json:"w1"`
	W2 float64 `json:"w2"`
	B  float64 `json:"b"`
}

// Sigmoid is the logistic function.
func Sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Standardize maps a plot coordinate to model feature space.
func Standardize(v float64) float64 {
	return (v - FeatureCenter) / FeatureScale
}

// Probability returns P(label=1) for a point in plot coordinates.
func (m LogisticModel) Probability(p dataset.Point) float64 {
	return Sigmoid(m.W1*Standardize(p.X) + m.W2*Standardize(p.Y) + m.B)
}

// CrossEntropy is the clamped binary log loss of one prediction.
func CrossEntropy(h float64, label int) float64 {
	h = math.Max(ProbEpsilon, math.Min(1-ProbEpsilon, h))
	y := float64(label)
	return -(y*math.Log(h) + (1-y)*math.Log(1-h))
}

// LogisticStep applies one gradient descent step on the mean cross-entropy
// loss and returns the loss measured before the update. An empty point set
// leaves the model unchanged with zero loss.
func LogisticStep(points []dataset.LabeledPoint, m LogisticModel) (LogisticModel, float64) {
	n := float64(len(points))
	if n == 0 {
		return m, 0
	}

	var dw1, dw2, db, total float64
	for _, p := range points {
		x1, x2 := Standardize(p.X), Standardize(p.Y)
		h := Sigmoid(m.W1*x1 + m.W2*x2 + m.B)
		total += CrossEntropy(h, p.Label)

		err := h - float64(p.Label)
		dw1 += err * x1
		dw2 += err * x2
		db += err
	}

	scale := LogisticRate / n
	next := LogisticModel{
		W1: m.W1 - scale*dw1,
		W2: m.W2 - scale*dw2,
		B:  m.B - scale*db,
	}
	return next, total / n
}

// Boundary returns the decision line w1*x' + w2*y' + b = 0 in plot
// coordinates as the segment between x=x0 and x=x1. ok is false when the
// line is too close to vertical to draw as y(x).
func (m LogisticModel) Boundary(x0, x1 float64) (a, b dataset.Point, ok bool) {
	if math.Abs(m.W2) < VerticalThreshold {
		return a, b, false
	}
	y := func(x float64) float64 {
		xs := Standardize(x)
		ys := -(m.W1*xs + m.B) / m.W2
		return ys*FeatureScale + FeatureCenter
	}
	return dataset.Point{X: x0, Y: y(x0)}, dataset.Point{X: x1, Y: y(x1)}, true
}
