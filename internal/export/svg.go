package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/mllab/internal/sim"
	"github.com/san-kum/mllab/internal/viz"
)

const background = "#0f172a"

// Palette resolves scene color tags to SVG colors.
type Palette func(sim.Color) string

// ThemePalette uses the colors of a TUI theme.
func ThemePalette(t viz.Theme) Palette {
	return func(c sim.Color) string { return string(t.Color(c)) }
}

// SceneToSVG draws a scene into a width x height SVG document. Data-space
// coordinates are mapped through the scene bounds, flipped when YUp.
func SceneToSVG(scene sim.Scene, width, height int, palette Palette) string {
	if palette == nil {
		palette = ThemePalette(viz.ThemeSlate)
	}
	b := scene.Bounds
	dx, dy := b.MaxX-b.MinX, b.MaxY-b.MinY
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	toX := func(x float64) float64 { return (x - b.MinX) / dx * float64(width) }
	toY := func(y float64) float64 {
		f := (y - b.MinY) / dy
		if scene.YUp {
			f = 1 - f
		}
		return f * float64(height)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
	if scene.Title != "" {
		sb.WriteString(fmt.Sprintf("<title>%s</title>\n", escape(scene.Title)))
	}

	for _, s := range scene.Segments {
		if !finite(s.X1, s.Y1, s.X2, s.Y2) {
			continue
		}
		x1, y1, x2, y2 := toX(s.X1), toY(s.Y1), toX(s.X2), toY(s.Y2)
		dash := ""
		if s.Dashed {
			dash = ` stroke-dasharray="6,4"`
		}
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"%s/>
`, x1, y1, x2, y2, palette(s.Color), dash))
		if s.Arrow {
			sb.WriteString(arrowHead(x1, y1, x2, y2, palette(s.Color)))
		}
	}

	for _, m := range scene.Markers {
		if !finite(m.X, m.Y) {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, toX(m.X), toY(m.Y), m.Size, palette(m.Color)))
	}

	for _, l := range scene.Labels {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="12">%s</text>
`, toX(l.X), toY(l.Y), palette(l.Color), escape(l.Text)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteScene writes SceneToSVG to w.
func WriteScene(w io.Writer, scene sim.Scene, width, height int, palette Palette) error {
	_, err := io.WriteString(w, SceneToSVG(scene, width, height, palette))
	return err
}

func arrowHead(x1, y1, x2, y2 float64, color string) string {
	angle := math.Atan2(y2-y1, x2-x1)
	const size, spread = 10.0, math.Pi / 7
	ax := x2 - size*math.Cos(angle-spread)
	ay := y2 - size*math.Sin(angle-spread)
	bx := x2 - size*math.Cos(angle+spread)
	by := y2 - size*math.Sin(angle+spread)
	return fmt.Sprintf(`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>
`, x2, y2, ax, ay, bx, by, color)
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot in
// the color of its cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := string(theme.Color(canvas.Colors[row][col]))
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots a metric series (one value per epoch) as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	var pts []float64
	for _, v := range values {
		if finite(v) {
			pts = append(pts, v)
		}
	}
	if len(pts) < 2 {
		return ""
	}

	minY, maxY := pts[0], pts[0]
	for _, v := range pts {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2
	stepX := float64(width) / float64(len(pts)-1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i, v := range pts {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
