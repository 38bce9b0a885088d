package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/mllab/internal/dataset"
	"github.com/san-kum/mllab/internal/learn"
	"github.com/san-kum/mllab/internal/metrics"
)

// LinearInterval is the training loop period of the gradient descent demo.
const LinearInterval = 20 * time.Millisecond

// LinearRegression fits a line to noisy points by gradient descent.
type LinearRegression struct {
	Points       []dataset.Point
	Model        learn.LinearModel
	LearningRate float64
	epoch        int
}

func NewLinearRegression() *LinearRegression {
	return &LinearRegression{LearningRate: learn.DefaultLinearRate}
}

func (l *LinearRegression) Kind() Kind              { return KindLinear }
func (l *LinearRegression) Title() string           { return "Gradient Descent Visualizer" }
func (l *LinearRegression) Epoch() int              { return l.epoch }
func (l *LinearRegression) Interval() time.Duration { return LinearInterval }

func (l *LinearRegression) Reset(rng *rand.Rand) {
	l.Points = dataset.LinearNoise(rng, dataset.LinearCount)
	l.Model = learn.LinearModel{}
	l.epoch = 0
}

func (l *LinearRegression) Step() {
	l.Model = learn.LinearStep(l.Points, l.Model, l.LearningRate)
	l.epoch++
}

func (l *LinearRegression) Metrics() map[string]float64 {
	return map[string]float64{
		metrics.NameMSE: metrics.MSE(l.Points, l.Model),
		"slope":         l.Model.Slope,
		"intercept":     l.Model.Intercept,
	}
}

func (l *LinearRegression) GetParams() map[string]float64 {
	return map[string]float64{"learning_rate": l.LearningRate}
}

func (l *LinearRegression) SetParam(name string, value float64) error {
	if name != "learning_rate" {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	l.LearningRate = value
	return nil
}

func (l *LinearRegression) Scene() Scene {
	s := Scene{
		Title:  l.Title(),
		Status: fmt.Sprintf("y = %.2fx + %.2f | Epoch: %d", l.Model.Slope, l.Model.Intercept, l.epoch),
		Hint:   "The pink line adjusts automatically to minimize the distance to all green points.",
		Bounds: Bounds{MinX: 0, MaxX: 100, MinY: 0, MaxY: 120},
		YUp:    true,
	}
	s.Segments = append(s.Segments, Segment{
		X1: 0, Y1: l.Model.Predict(0),
		X2: 100, Y2: l.Model.Predict(100),
		Color: ColorPink,
	})
	for _, p := range l.Points {
		s.Markers = append(s.Markers, Marker{X: p.X, Y: p.Y, Size: 3, Color: ColorEmerald})
	}
	return s
}
