// Package metrics scores the state of each visualization.
package metrics

import (
	"github.com/san-kum/mllab/internal/dataset"
	"github.com/san-kum/mllab/internal/learn"
)

// Metric names reported by the visualizations.
const (
	NameMSE       = "mse"
	NameLogLoss   = "log_loss"
	NameAccuracy  = "accuracy"
	NameInertia   = "inertia"
	NameResidual  = "residual"
	NameExplained = "explained"
	NameAngle     = "pc1_angle"
	NameSignals   = "signals"

	// NameDiverged is set to 1 when a state value overflowed to NaN or Inf.
	NameDiverged = "diverged"
)

// LowerIsBetter reports whether a smaller value of the named metric means a
// better fit.
func LowerIsBetter(name string) bool {
	switch name {
	case NameMSE, NameLogLoss, NameInertia, NameResidual:
		return true
	}
	return false
}

// MSE is the mean squared error of the line over points. Zero for an empty set.
func MSE(points []dataset.Point, m learn.LinearModel) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		e := m.Predict(p.X) - p.Y
		sum += e * e
	}
	return sum / float64(len(points))
}

// LogLoss is the mean clamped cross-entropy of the classifier.
func LogLoss(points []dataset.LabeledPoint, m learn.LogisticModel) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += learn.CrossEntropy(m.Probability(p.Point), p.Label)
	}
	return sum / float64(len(points))
}

// Accuracy is the share of points on the correct side of the boundary.
func Accuracy(points []dataset.LabeledPoint, m learn.LogisticModel) float64 {
	if len(points) == 0 {
		return 0
	}
	correct := 0
	for _, p := range points {
		predicted := 0
		if m.Probability(p.Point) >= 0.5 {
			predicted = 1
		}
		if predicted == p.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(points))
}
