// Package dataset generates the synthetic 2D point sets behind each
// visualization.
//
// Every generator takes an explicit *rand.Rand so a visualization instance
// can be replayed from its seed. Point sets are regenerated wholesale on
// reset; a point has no identity beyond its index within one generation.
package dataset

import (
	"math"
	"math/rand"
)

// Point is a 2D sample in plot coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LabeledPoint is a binary-class sample. Label is fixed at generation time.
type LabeledPoint struct {
	Point
	Label int `json:"label"`
}

// Sizes of the demo data sets.
const (
	LinearCount     = 20
	ClassCount      = 20
	ClusterCount    = 3
	ClusterSize     = 30
	EllipseCount    = 40
	ClusterWidth    = 400.0
	ClusterHeight   = 300.0
	ClusterSpread   = 60.0
	EllipseCenterX  = ClusterWidth / 2
	EllipseCenterY  = ClusterHeight / 2
	linearSlope     = 0.8
	linearIntercept = 10.0
	linearNoise     = 40.0
)

// LinearNoise returns n points scattered around y = 0.8x + 10 with x an
// integer in [0, 100).
func LinearNoise(rng *rand.Rand, n int) []Point {
	points := make([]Point, n)
	for i := range points {
		x := math.Floor(rng.Float64() * 100)
		noise := (rng.Float64() - 0.5) * linearNoise
		points[i] = Point{X: x, Y: linearSlope*x + linearIntercept + noise}
	}
	return points
}

// TwoClassBlobs returns n class-0 points in the bottom-left square
// [10,50)^2 followed by n class-1 points in the top-right square [50,90)^2.
func TwoClassBlobs(rng *rand.Rand, n int) []LabeledPoint {
	points := make([]LabeledPoint, 0, 2*n)
	for i := 0; i < n; i++ {
		points = append(points, LabeledPoint{
			Point: Point{X: rng.Float64()*40 + 10, Y: rng.Float64()*40 + 10},
			Label: 0,
		})
	}
	for i := 0; i < n; i++ {
		points = append(points, LabeledPoint{
			Point: Point{X: rng.Float64()*40 + 50, Y: rng.Float64()*40 + 50},
			Label: 1,
		})
	}
	return points
}

// Blobs returns k square blobs of n points each inside a w x h canvas. Blob
// centers keep a 50 unit margin from the canvas edges.
func Blobs(rng *rand.Rand, k, n int, w, h, spread float64) []Point {
	points := make([]Point, 0, k*n)
	for i := 0; i < k; i++ {
		cx := rng.Float64()*(w-100) + 50
		cy := rng.Float64()*(h-100) + 50
		for j := 0; j < n; j++ {
			points = append(points, Point{
				X: cx + (rng.Float64()-0.5)*spread,
				Y: cy + (rng.Float64()-0.5)*spread,
			})
		}
	}
	return points
}

// CorrelatedEllipse returns n points stretched along the diagonal through
// (cx, cy): 200 units of spread along the axis, 60 across it.
func CorrelatedEllipse(rng *rand.Rand, n int, cx, cy float64) []Point {
	points := make([]Point, n)
	for i := range points {
		dist := (rng.Float64() - 0.5) * 200
		noise := (rng.Float64() - 0.5) * 60
		points[i] = Point{X: cx + dist + noise, Y: cy + dist - noise}
	}
	return points
}

// Uniform returns a point drawn uniformly from [0,w) x [0,h).
func Uniform(rng *rand.Rand, w, h float64) Point {
	return Point{X: rng.Float64() * w, Y: rng.Float64() * h}
}
