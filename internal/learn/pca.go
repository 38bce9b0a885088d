package learn

import (
	"math"

	"github.com/san-kum/mllab/internal/dataset"
)

// PrincipalDirection is the unit vector along which the ellipse data is
// generated. It is fixed, not fitted from the live points.
var PrincipalDirection = dataset.Point{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}

// PCAPoint keeps the generated coordinates next to the displayed ones so a
// projection can always be undone exactly.
type PCAPoint struct {
	dataset.Point
	OX float64 `json:"ox"`
	OY float64 `json:"oy"`
}

// NewPCAPoints wraps generated points, recording them as originals.
func NewPCAPoints(points []dataset.Point) []PCAPoint {
	out := make([]PCAPoint, len(points))
	for i, p := range points {
		out[i] = PCAPoint{Point: p, OX: p.X, OY: p.Y}
	}
	return out
}

// Project returns center + ((p - center) . v) v.
func Project(p, center, v dataset.Point) dataset.Point {
	dx, dy := p.X-center.X, p.Y-center.Y
	dot := dx*v.X + dy*v.Y
	return dataset.Point{X: center.X + dot*v.X, Y: center.Y + dot*v.Y}
}

// ApplyProjection derives displayed coordinates from the stored originals:
// projected onto the line through center along v, or restored verbatim.
// The previous displayed coordinates are never read.
func ApplyProjection(points []PCAPoint, projected bool, center, v dataset.Point) []PCAPoint {
	out := make([]PCAPoint, len(points))
	for i, p := range points {
		out[i] = p
		orig := dataset.Point{X: p.OX, Y: p.OY}
		if projected {
			out[i].Point = Project(orig, center, v)
		} else {
			out[i].Point = orig
		}
	}
	return out
}
