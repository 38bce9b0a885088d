package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mllab/internal/dataset"
	"github.com/san-kum/mllab/internal/learn"
)

// Residual is the mean squared distance between each original point and its
// projection onto the line through center along v.
func Residual(points []dataset.Point, center, v dataset.Point) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		q := learn.Project(p, center, v)
		dx, dy := p.X-q.X, p.Y-q.Y
		sum += dx*dx + dy*dy
	}
	return sum / float64(len(points))
}

// ExplainedVariance is the share of total variance kept by projecting onto v.
func ExplainedVariance(points []dataset.Point, v dataset.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	proj := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
		proj[i] = p.X*v.X + p.Y*v.Y
	}
	total := stat.Variance(xs, nil) + stat.Variance(ys, nil)
	if total == 0 {
		return 0
	}
	return stat.Variance(proj, nil) / total
}

// FittedDirection returns the leading eigenvector of the sample covariance,
// oriented into the x+y >= 0 half plane. ok is false with fewer than two
// points or when the factorization fails.
func FittedDirection(points []dataset.Point) (v dataset.Point, ok bool) {
	if len(points) < 2 {
		return v, false
	}
	data := mat.NewDense(len(points), 2, nil)
	for i, p := range points {
		data.Set(i, 0, p.X)
		data.Set(i, 1, p.Y)
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)

	var eig mat.EigenSym
	if !eig.Factorize(&cov, true) {
		return v, false
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come back in ascending order.
	v = dataset.Point{X: vecs.At(0, 1), Y: vecs.At(1, 1)}
	if v.X+v.Y < 0 {
		v.X, v.Y = -v.X, -v.Y
	}
	return v, true
}

// AngleDegrees is the unsigned angle between two directions, in [0, 90].
func AngleDegrees(a, b dataset.Point) float64 {
	na, nb := math.Hypot(a.X, a.Y), math.Hypot(b.X, b.Y)
	if na == 0 || nb == 0 {
		return 0
	}
	cos := math.Abs(a.X*b.X+a.Y*b.Y) / (na * nb)
	return math.Acos(math.Min(1, cos)) * 180 / math.Pi
}
