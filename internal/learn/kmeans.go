package learn

import (
	"math"

	"github.com/san-kum/mllab/internal/dataset"
)

// Unassigned marks a point before the first assignment pass.
const Unassigned = -1

// Color tags of the three demo centroids (pink, emerald, blue).
var CentroidColors = []string{"pink", "emerald", "blue"}

// Centroid is a cluster center. Color is fixed at creation so a cluster
// keeps its color across iterations.
type Centroid struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// Nearest returns the index of the centroid closest to p. Ties go to the
// lowest index. It returns Unassigned when there are no centroids.
func Nearest(p dataset.Point, centroids []Centroid) int {
	best, bestDist := Unassigned, math.Inf(1)
	for i, c := range centroids {
		d := math.Hypot(p.X-c.X, p.Y-c.Y)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// KMeansStep runs one Lloyd iteration: assign every point to its nearest
// centroid, then move each centroid to the mean of its members. A centroid
// without members keeps its position.
func KMeansStep(points []dataset.Point, centroids []Centroid) ([]int, []Centroid) {
	assign := make([]int, len(points))
	for i, p := range points {
		assign[i] = Nearest(p, centroids)
	}

	sumX := make([]float64, len(centroids))
	sumY := make([]float64, len(centroids))
	counts := make([]int, len(centroids))
	for i, p := range points {
		k := assign[i]
		if k == Unassigned {
			continue
		}
		sumX[k] += p.X
		sumY[k] += p.Y
		counts[k]++
	}

	next := make([]Centroid, len(centroids))
	for k, c := range centroids {
		next[k] = c
		if counts[k] == 0 {
			continue
		}
		next[k].X = sumX[k] / float64(counts[k])
		next[k].Y = sumY[k] / float64(counts[k])
	}
	return assign, next
}
