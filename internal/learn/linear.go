package learn

import "github.com/san-kum/mllab/internal/dataset"

// DefaultLinearRate is the learning rate of the gradient descent demo.
const DefaultLinearRate = 0.0001

// LinearModel is the fitted line y = Slope*x + Intercept.
type LinearModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Predict evaluates the line at x.
func (m LinearModel) Predict(x float64) float64 {
	return m.Slope*x + m.Intercept
}

// LinearStep applies one batch gradient descent step on the mean squared
// error. An empty point set leaves the model unchanged.
func LinearStep(points []dataset.Point, m LinearModel, lr float64) LinearModel {
	n := float64(len(points))
	if n == 0 {
		return m
	}

	var dm, dc float64
	for _, p := range points {
		err := m.Predict(p.X) - p.Y
		dm += (2 / n) * err * p.X
		dc += (2 / n) * err
	}

	return LinearModel{
		Slope:     m.Slope - lr*dm,
		Intercept: m.Intercept - lr*dc,
	}
}
