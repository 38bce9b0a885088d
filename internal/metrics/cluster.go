package metrics

import (
	"github.com/san-kum/mllab/internal/dataset"
	"github.com/san-kum/mllab/internal/learn"
)

// Inertia is the within-cluster sum of squared distances. Unassigned points
// do not contribute.
func Inertia(points []dataset.Point, assign []int, centroids []learn.Centroid) float64 {
	sum := 0.0
	for i, p := range points {
		if i >= len(assign) {
			break
		}
		k := assign[i]
		if k < 0 || k >= len(centroids) {
			continue
		}
		dx, dy := p.X-centroids[k].X, p.Y-centroids[k].Y
		sum += dx*dx + dy*dy
	}
	return sum
}
