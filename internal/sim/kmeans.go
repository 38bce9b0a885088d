package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/mllab/internal/dataset"
	"github.com/san-kum/mllab/internal/learn"
	"github.com/san-kum/mllab/internal/metrics"
)

// KMeansInterval paces auto-stepping. The demo itself is stepped by hand.
const KMeansInterval = 400 * time.Millisecond

// KMeans runs Lloyd's algorithm on three blobs with K=3.
type KMeans struct {
	Points    []dataset.Point
	Assign    []int
	Centroids []learn.Centroid
	iteration int
}

func NewKMeans() *KMeans {
	return &KMeans{}
}

func (k *KMeans) Kind() Kind              { return KindKMeans }
func (k *KMeans) Title() string           { return "K-Means Clustering" }
func (k *KMeans) Epoch() int              { return k.iteration }
func (k *KMeans) Interval() time.Duration { return KMeansInterval }

// Reset generates the blobs and drops one centroid per color anywhere on
// the canvas. All points start unassigned.
func (k *KMeans) Reset(rng *rand.Rand) {
	k.Points = dataset.Blobs(rng, dataset.ClusterCount, dataset.ClusterSize,
		dataset.ClusterWidth, dataset.ClusterHeight, dataset.ClusterSpread)
	k.Assign = make([]int, len(k.Points))
	for i := range k.Assign {
		k.Assign[i] = learn.Unassigned
	}
	k.Centroids = make([]learn.Centroid, len(learn.CentroidColors))
	for i, c := range learn.CentroidColors {
		p := dataset.Uniform(rng, dataset.ClusterWidth, dataset.ClusterHeight)
		k.Centroids[i] = learn.Centroid{X: p.X, Y: p.Y, Color: c}
	}
	k.iteration = 0
}

func (k *KMeans) Step() {
	k.Assign, k.Centroids = learn.KMeansStep(k.Points, k.Centroids)
	k.iteration++
}

func (k *KMeans) Metrics() map[string]float64 {
	return map[string]float64{
		metrics.NameInertia: metrics.Inertia(k.Points, k.Assign, k.Centroids),
	}
}

func (k *KMeans) Scene() Scene {
	s := Scene{
		Title:  k.Title(),
		Status: fmt.Sprintf("Iteration: %d", k.iteration),
		Hint:   "Step assigns points to the nearest color center and moves the center to the average position.",
		Bounds: Bounds{MinX: 0, MaxX: dataset.ClusterWidth, MinY: 0, MaxY: dataset.ClusterHeight},
	}
	for i, p := range k.Points {
		c := ColorSlate
		if i < len(k.Assign) && k.Assign[i] != learn.Unassigned {
			c = Color(k.Centroids[k.Assign[i]].Color)
		}
		s.Markers = append(s.Markers, Marker{X: p.X, Y: p.Y, Size: 2, Color: c})
	}
	for _, c := range k.Centroids {
		s.Markers = append(s.Markers, Marker{X: c.X, Y: c.Y, Size: 5, Color: Color(c.Color)})
	}
	return s
}
