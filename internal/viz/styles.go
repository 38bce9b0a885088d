package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Accuracy bands of the classifier meter.
const (
	GoodAccuracy = 0.9
	FairAccuracy = 0.7
)

var (
	trendBars      = []rune("▁▂▃▄▅▆▇█")
	thinkingFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
)

// Styles are the text styles of the lab's panels. They are derived from a
// Theme, so switching themes recolors the panels as well as the canvas.
type Styles struct {
	Muted     lipgloss.Style
	Training  lipgloss.Style
	Idle      lipgloss.Style
	Recording lipgloss.Style
	Value     lipgloss.Style
	Label     lipgloss.Style
	Hint      lipgloss.Style
	Header    lipgloss.Style
	Title     lipgloss.Style
	Good      lipgloss.Style
	Fair      lipgloss.Style
	Poor      lipgloss.Style

	border lipgloss.Color
}

func NewStyles(t Theme) Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return Styles{
		Muted:     fg(t.Muted),
		Training:  fg(t.Success).Bold(true),
		Idle:      fg(t.Warning).Bold(true),
		Recording: fg(t.Error).Bold(true).Blink(true),
		Value:     fg(t.Primary).Bold(true),
		Label:     fg(t.Muted).Width(12),
		Hint:      fg(t.Muted).Italic(true),
		Header: fg(t.Text).Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Title:  fg(t.Secondary).Bold(true),
		Good:   fg(t.Success),
		Fair:   fg(t.Warning),
		Poor:   fg(t.Error),
		border: t.Muted,
	}
}

// CurrentStyles are the styles of CurrentTheme.
func CurrentStyles() Styles { return NewStyles(CurrentTheme) }

// Gradient colors each rune of text along a blend from one color to
// another in CIE-L*a*b* space.
func Gradient(text string, from, to lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, b := toColorful(from), toColorful(to)
	var out strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := lipgloss.Color(a.BlendLab(b, t).Clamped().Hex())
		out.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
	}
	return out.String()
}

// toColorful parses a hex theme color. Anything unparsable is white.
func toColorful(c lipgloss.Color) colorful.Color {
	v, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return v
}

func Spinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return thinkingFrames[frame%len(thinkingFrames)]
}

// AccuracyMeter renders a classifier accuracy in [0,1] as a bar colored by
// its band. Values outside the range are clamped; NaN draws empty.
func AccuracyMeter(acc float64, width int, st Styles) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(acc) {
		acc = 0
	}
	acc = math.Max(0, math.Min(1, acc))
	filled := int(math.Round(acc * float64(width)))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case acc >= GoodAccuracy:
		return st.Good.Render(bar)
	case acc >= FairAccuracy:
		return st.Fair.Render(bar)
	}
	return st.Poor.Render(bar)
}

// Trend renders a metric history as one row of at most width bars. Each bar
// is the mean of a contiguous bucket of samples and non-finite samples are
// ignored. With lowerIsBetter, low bars use the good style; otherwise high
// bars do.
func Trend(values []float64, width int, lowerIsBetter bool, st Styles) string {
	if width <= 0 {
		return ""
	}
	buckets := bucketMeans(values, width)
	if len(buckets) == 0 {
		return st.Muted.Render(strings.Repeat("─", width))
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range buckets {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var out strings.Builder
	for _, v := range buckets {
		norm := (v - lo) / span
		bar := string(trendBars[int(math.Round(norm*float64(len(trendBars)-1)))])
		quality := norm
		if lowerIsBetter {
			quality = 1 - norm
		}
		switch {
		case quality > 2.0/3:
			out.WriteString(st.Good.Render(bar))
		case quality > 1.0/3:
			out.WriteString(st.Fair.Render(bar))
		default:
			out.WriteString(st.Poor.Render(bar))
		}
	}
	return out.String()
}

// bucketMeans splits the finite values into at most n buckets of near-equal
// size and returns each bucket's mean.
func bucketMeans(values []float64, n int) []float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return nil
	}
	if len(finite) < n {
		n = len(finite)
	}
	means := make([]float64, n)
	for i := range means {
		start, end := i*len(finite)/n, (i+1)*len(finite)/n
		sum := 0.0
		for _, v := range finite[start:end] {
			sum += v
		}
		means[i] = sum / float64(end-start)
	}
	return means
}

// Section renders body in a box whose top border carries title.
func Section(title, body string, width int, st Styles) string {
	fill := width - lipgloss.Width(title) - 2
	if fill < 1 {
		fill = 1
	}
	header := "╭─ " + st.Title.Render(title) + " " + strings.Repeat("─", fill) + "╮"
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, true, true, true).
		BorderForeground(st.border).
		Width(width).
		Padding(0, 1)
	return header + "\n" + box.Render(body)
}

// Rule is a horizontal divider with a centered diamond. Widths too small
// for the diamond give a plain line.
func Rule(width int, st Styles) string {
	if width < 7 {
		return st.Muted.Render(strings.Repeat("─", max(width, 0)))
	}
	left := (width - 3) / 2
	return st.Muted.Render(strings.Repeat("─", left) + " ◆ " + strings.Repeat("─", width-3-left))
}
