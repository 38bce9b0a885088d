package learn

import (
	"math/rand"
	"testing"

	"github.com/san-kum/mllab/internal/dataset"
)

func mse(points []dataset.Point, m LinearModel) float64 {
	sum := 0.0
	for _, p := range points {
		e := m.Predict(p.X) - p.Y
		sum += e * e
	}
	return sum / float64(len(points))
}

func TestLinearStep_Empty(t *testing.T) {
	m := LinearModel{Slope: 1.5, Intercept: -2}
	if got := LinearStep(nil, m, DefaultLinearRate); got != m {
		t.Errorf("expected unchanged model, got %+v", got)
	}
}

func TestLinearStep_Gradient(t *testing.T) {
	// One point (1, 1) from the zero model: err=-1, dm=-2, dc=-2.
	points := []dataset.Point{{X: 1, Y: 1}}
	got := LinearStep(points, LinearModel{}, 0.1)
	if got.Slope != 0.2 || got.Intercept != 0.2 {
		t.Errorf("expected slope=0.2 intercept=0.2, got %+v", got)
	}
}

func TestLinearStep_DecreasesMSE(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		points := dataset.LinearNoise(rng, dataset.LinearCount)
		m := LinearModel{Slope: rng.Float64()*4 - 2, Intercept: rng.Float64()*40 - 20}

		for i := 0; i < 20; i++ {
			before := mse(points, m)
			next := LinearStep(points, m, 1e-5)
			after := mse(points, next)
			if after >= before {
				t.Fatalf("seed %d step %d: mse %f -> %f did not decrease", seed, i, before, after)
			}
			m = next
		}
	}
}

func TestLinearStep_DefaultRateConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := dataset.LinearNoise(rng, dataset.LinearCount)
	m := LinearModel{}
	start := mse(points, m)
	for i := 0; i < 500; i++ {
		m = LinearStep(points, m, DefaultLinearRate)
	}
	if end := mse(points, m); end >= start/3 {
		t.Errorf("expected mse to drop by 3x, got %f -> %f", start, end)
	}
}
