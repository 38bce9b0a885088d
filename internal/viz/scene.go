package viz

import (
	"math"

	"github.com/san-kum/mllab/internal/sim"
)

// DrawScene rasterizes s onto c, scaling the scene bounds to the full
// canvas. Segments go first, then markers, then labels.
func DrawScene(c *Canvas, s sim.Scene) {
	c.Clear()
	p := newProjection(c, s)

	for _, seg := range s.Segments {
		fx0, fy0 := p.pointF(seg.X1, seg.Y1)
		fx1, fy1 := p.pointF(seg.X2, seg.Y2)
		fx0, fy0, fx1, fy1, ok := clipSegment(fx0, fy0, fx1, fy1, p.sw, p.sh)
		if !ok {
			continue
		}
		x0, y0 := round(fx0), round(fy0)
		x1, y1 := round(fx1), round(fy1)
		c.DrawLine(x0, y0, x1, y1, seg.Color, seg.Dashed)
		if seg.Arrow {
			drawArrowHead(c, x0, y0, x1, y1, seg.Color)
		}
	}
	for _, m := range s.Markers {
		x, y := p.point(m.X, m.Y)
		c.Dot(x, y, markerRadius(m.Size), m.Color)
	}
	for _, l := range s.Labels {
		x, y := p.point(l.X, l.Y)
		c.Print(x/2, y/4, l.Text, l.Color)
	}
}

type projection struct {
	b      sim.Bounds
	yUp    bool
	sw, sh float64
}

func newProjection(c *Canvas, s sim.Scene) projection {
	return projection{
		b:   s.Bounds,
		yUp: s.YUp,
		sw:  float64(c.SubWidth() - 1),
		sh:  float64(c.SubHeight() - 1),
	}
}

// pointF maps data coordinates to fractional sub-pixels.
func (p projection) pointF(x, y float64) (float64, float64) {
	w := p.b.MaxX - p.b.MinX
	h := p.b.MaxY - p.b.MinY
	if w == 0 || h == 0 {
		return 0, 0
	}
	fx := (x - p.b.MinX) / w
	fy := (y - p.b.MinY) / h
	if p.yUp {
		fy = 1 - fy
	}
	return fx * p.sw, fy * p.sh
}

func (p projection) point(x, y float64) (int, int) {
	fx, fy := p.pointF(x, y)
	return round(fx), round(fy)
}

// round maps off-canvas and non-finite values to -1, which Set ignores.
func round(v float64) int {
	if math.IsNaN(v) || v < -1 || v > 1<<20 {
		return -1
	}
	return int(math.Round(v))
}

// clipSegment clips a segment to [0,w]x[0,h] (Liang-Barsky).
func clipSegment(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	if math.IsNaN(x0) || math.IsNaN(y0) || math.IsNaN(x1) || math.IsNaN(y1) {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0},
		{dx, w - x0},
		{-dy, y0},
		{dy, h - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func markerRadius(size float64) int {
	return int(size / 2.5)
}

func drawArrowHead(c *Canvas, x0, y0, x1, y1 int, color sim.Color) {
	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	const length = 4.0
	for _, d := range []float64{math.Pi * 0.8, -math.Pi * 0.8} {
		hx := x1 + int(math.Round(length*math.Cos(angle+d)))
		hy := y1 + int(math.Round(length*math.Sin(angle+d)))
		c.DrawLine(x1, y1, hx, hy, color, false)
	}
}
