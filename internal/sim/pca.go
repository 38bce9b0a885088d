package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/mllab/internal/dataset"
	"github.com/san-kum/mllab/internal/learn"
	"github.com/san-kum/mllab/internal/metrics"
)

var pcaCenter = dataset.Point{X: dataset.EllipseCenterX, Y: dataset.EllipseCenterY}

// PCA projects correlated points onto a fixed principal direction.
type PCA struct {
	Points      []learn.PCAPoint
	projected   bool
	showVectors bool
}

func NewPCA() *PCA {
	return &PCA{}
}

func (p *PCA) Kind() Kind              { return KindPCA }
func (p *PCA) Title() string           { return "PCA: Dimensionality Reduction" }
func (p *PCA) Epoch() int              { return 0 }
func (p *PCA) Interval() time.Duration { return 0 }

func (p *PCA) Reset(rng *rand.Rand) {
	raw := dataset.CorrelatedEllipse(rng, dataset.EllipseCount, pcaCenter.X, pcaCenter.Y)
	p.Points = learn.NewPCAPoints(raw)
	p.projected = false
	p.showVectors = false
}

// Step is a no-op; the demo changes only through its toggles.
func (p *PCA) Step() {}

func (p *PCA) ToggleProjection() {
	p.projected = !p.projected
	p.Points = learn.ApplyProjection(p.Points, p.projected, pcaCenter, learn.PrincipalDirection)
}

func (p *PCA) ToggleVectors()     { p.showVectors = !p.showVectors }
func (p *PCA) Projected() bool    { return p.projected }
func (p *PCA) VectorsShown() bool { return p.showVectors }

func (p *PCA) originals() []dataset.Point {
	out := make([]dataset.Point, len(p.Points))
	for i, pt := range p.Points {
		out[i] = dataset.Point{X: pt.OX, Y: pt.OY}
	}
	return out
}

func (p *PCA) Metrics() map[string]float64 {
	orig := p.originals()
	m := map[string]float64{
		metrics.NameResidual:  metrics.Residual(orig, pcaCenter, learn.PrincipalDirection),
		metrics.NameExplained: metrics.ExplainedVariance(orig, learn.PrincipalDirection),
	}
	if v, ok := metrics.FittedDirection(orig); ok {
		m[metrics.NameAngle] = metrics.AngleDegrees(v, learn.PrincipalDirection)
	}
	return m
}

func (p *PCA) Scene() Scene {
	status := "2D view"
	if p.projected {
		status = "projected to 1D"
	}
	s := Scene{
		Title:  p.Title(),
		Status: fmt.Sprintf("Reduce 2D data to 1D along the principal component (%s)", status),
		Hint:   "PC1 (orange) is the direction of maximum variance. Projecting onto it keeps the most information.",
		Bounds: Bounds{MinX: 0, MaxX: dataset.ClusterWidth, MinY: 0, MaxY: dataset.ClusterHeight},
	}
	if p.showVectors {
		cx, cy := pcaCenter.X, pcaCenter.Y
		s.Segments = append(s.Segments,
			Segment{X1: cx, Y1: cy, X2: cx + 100, Y2: cy + 100, Color: ColorOrange, Arrow: true},
			Segment{X1: cx, Y1: cy, X2: cx + 40, Y2: cy - 40, Color: ColorBlue, Arrow: true},
		)
		s.Labels = append(s.Labels,
			Label{X: cx + 110, Y: cy + 100, Text: "PC1 (High Variance)", Color: ColorOrange},
			Label{X: cx + 45, Y: cy - 45, Text: "PC2", Color: ColorBlue},
		)
	}
	if p.projected {
		for _, pt := range p.Points {
			s.Segments = append(s.Segments, Segment{X1: pt.OX, Y1: pt.OY, X2: pt.X, Y2: pt.Y, Color: ColorSlate, Dashed: true})
		}
	}
	for _, pt := range p.Points {
		s.Markers = append(s.Markers, Marker{X: pt.X, Y: pt.Y, Size: 3, Color: ColorEmerald})
	}
	return s
}
