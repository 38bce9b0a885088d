package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mllab/internal/metrics"
	"github.com/san-kum/mllab/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	activeParam = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// generations is shared by every live model so a tick can never be
// mistaken for one armed by another model.
var generations atomic.Int64

func nextGen() int64 { return generations.Add(1) }

// tickMsg drives training. Ticks whose generation is stale are dropped,
// which is how stopping, resetting and leaving the screen cancel the loop.
type tickMsg struct{ gen int64 }

// backMsg asks the enclosing app to leave the live screen.
type backMsg struct{}

// LiveModel is the live screen of one visualization.
type LiveModel struct {
	vis       sim.Visualization
	rng       *rand.Rand
	interval  time.Duration
	gen       int64
	training  bool
	canvas    *Canvas
	metric    string
	history   *metrics.History
	paramKeys []string
	selected  int
	embedded  bool
	showHelp  bool
	recording bool
	frames    []*image.Paletted
	notice    string
}

// NewLiveModel resets vis from seed. metric names the charted metric; a
// zero interval keeps the visualization's own period.
func NewLiveModel(vis sim.Visualization, seed int64, interval time.Duration, metric string) LiveModel {
	if interval <= 0 {
		interval = vis.Interval()
	}
	rng := rand.New(rand.NewSource(seed))
	vis.Reset(rng)

	var keys []string
	if c, ok := vis.(sim.Configurable); ok {
		for k := range c.GetParams() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	m := LiveModel{
		vis:       vis,
		rng:       rng,
		interval:  interval,
		gen:       nextGen(),
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		metric:    metric,
		history:   metrics.NewHistory(historyCapacity),
		paramKeys: keys,
	}
	// The network animation plays from the start.
	m.training = vis.Kind() == sim.KindNeural
	m.record()
	return m
}

func (m LiveModel) Init() tea.Cmd {
	if m.training {
		return m.tick()
	}
	return nil
}

func (m LiveModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m LiveModel) Training() bool { return m.training }

func (m LiveModel) Visualization() sim.Visualization { return m.vis }

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if msg.gen != m.gen || !m.training {
			return m, nil
		}
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m LiveModel) handleKey(msg tea.KeyMsg) (LiveModel, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "q", "ctrl+c":
		m.stop()
		return m, tea.Quit
	case "esc":
		m.stop()
		if !m.embedded {
			return m, tea.Quit
		}
		return m, func() tea.Msg { return backMsg{} }
	case " ":
		if m.training {
			m.stop()
			return m, nil
		}
		return m.start()
	case "s", "n":
		m.step()
	case "r":
		m.reset()
	case "p":
		if pr, ok := m.vis.(sim.Projector); ok {
			pr.ToggleProjection()
		}
	case "v":
		if pr, ok := m.vis.(sim.Projector); ok {
			pr.ToggleVectors()
		}
	case "tab":
		if len(m.paramKeys) > 0 {
			m.selected = (m.selected + 1) % len(m.paramKeys)
		}
	case "up", "k":
		m.adjustParam(1.05)
	case "down", "j":
		m.adjustParam(0.95)
	case "t":
		NextTheme()
	case "g":
		if m.recording {
			path := string(m.vis.Kind()) + ".gif"
			if err := m.saveGIF(path); err != nil {
				m.notice = "gif: " + err.Error()
			} else {
				m.notice = "saved " + path
			}
			m.recording = false
			m.frames = nil
		} else {
			m.recording = true
			m.frames = make([]*image.Paletted, 0)
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m LiveModel) start() (LiveModel, tea.Cmd) {
	if m.vis.Interval() <= 0 {
		m.notice = "this visualization is stepped by hand"
		return m, nil
	}
	m.gen = nextGen()
	m.training = true
	return m, m.tick()
}

// stop invalidates any tick in flight.
func (m *LiveModel) stop() {
	m.gen = nextGen()
	m.training = false
}

func (m *LiveModel) step() {
	m.vis.Step()
	m.record()
	if m.recording {
		m.captureFrame()
	}
}

func (m *LiveModel) record() {
	if v, ok := m.vis.Metrics()[m.metric]; ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
		m.history.Add(v)
	}
}

// reset stops training and regenerates the data.
func (m *LiveModel) reset() {
	m.stop()
	m.vis.Reset(m.rng)
	m.history.Reset()
	m.record()
}

func (m *LiveModel) adjustParam(factor float64) {
	c, ok := m.vis.(sim.Configurable)
	if !ok || len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	if err := c.SetParam(key, c.GetParams()[key]*factor); err != nil {
		m.notice = err.Error()
	}
}

func (m LiveModel) View() string {
	scene := m.vis.Scene()
	DrawScene(m.canvas, scene)
	canvasView := canvasStyle.Render(m.canvas.Render(CurrentTheme))

	st := CurrentStyles()
	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(scene.Title)) + "\n")
	switch {
	case m.training:
		s.WriteString(st.Training.Render("TRAINING"))
	default:
		s.WriteString(st.Idle.Render("IDLE"))
	}
	if m.recording {
		s.WriteString("  " + st.Recording.Render("● REC"))
	}
	s.WriteString("\n" + lipgloss.NewStyle().Width(40).Render(scene.Status) + "\n")

	if values := m.history.Values(); len(values) > 1 {
		chart := asciigraph.Plot(values, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption(m.metric))
		s.WriteString(graphStyle.Render(chart) + "\n")
		s.WriteString(Trend(values, 30, metrics.LowerIsBetter(m.metric), st) + "\n\n")
	}

	mets := m.vis.Metrics()
	names := make([]string, 0, len(mets))
	for k := range mets {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		v := mets[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.WriteString(st.Label.Render(k) + st.Poor.Render("diverged") + "\n")
			continue
		}
		s.WriteString(st.Label.Render(k) + st.Value.Render(fmt.Sprintf("%.4f", v)) + "\n")
	}
	if acc, ok := mets[metrics.NameAccuracy]; ok {
		s.WriteString(st.Label.Render("") + AccuracyMeter(acc, 20, st) + "\n")
	}

	if c, ok := m.vis.(sim.Configurable); ok {
		s.WriteString("\nPARAMETERS\n")
		params := c.GetParams()
		for i, k := range m.paramKeys {
			line := fmt.Sprintf("%-14s %.6g", k, params[k])
			if i == m.selected {
				s.WriteString(activeParam.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + st.Muted.Render(line) + "\n")
			}
		}
	}

	if scene.Hint != "" {
		s.WriteString("\n" + st.Hint.Render(lipgloss.NewStyle().Width(40).Render(scene.Hint)) + "\n")
	}
	if m.notice != "" {
		s.WriteString("\n" + st.Idle.Render(m.notice) + "\n")
	}
	s.WriteString(helpStyle.Render(m.keyHelp()))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m LiveModel) keyHelp() string {
	back := "Q:Quit"
	if m.embedded {
		back = "Esc:Back Q:Quit"
	}
	lines := []string{"─────────────────────", "SP:Train S:Step R:Reset " + back}
	if _, ok := m.vis.(sim.Projector); ok {
		lines = append(lines, "P:Project V:Vectors")
	}
	if len(m.paramKeys) > 0 {
		lines = append(lines, "Tab:Param ↑↓:Tune")
	}
	lines = append(lines, "T:Theme G:Record ?:Help")
	return strings.Join(lines, "\n")
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Start/Stop training      ║
║  S        - Single step              ║
║  R        - Reset with new data      ║
║  P        - Toggle PCA projection    ║
║  V        - Toggle PCA vectors       ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// framePalette maps scene colors onto GIF palette indices.
var framePalette = []sim.Color{
	sim.ColorEmerald, sim.ColorPink, sim.ColorBlue, sim.ColorRose,
	sim.ColorOrange, sim.ColorSlate, sim.ColorWhite,
}

func (m *LiveModel) captureFrame() {
	DrawScene(m.canvas, m.vis.Scene())

	palette := color.Palette{color.Black}
	index := make(map[sim.Color]uint8, len(framePalette))
	for i, c := range framePalette {
		r, g, b := toColorful(CurrentTheme.Color(c)).RGB255()
		palette = append(palette, color.RGBA{R: r, G: g, B: b, A: 255})
		index[c] = uint8(i + 1)
	}

	charW, charH := 8, 16
	dotW, dotH := charW/2, charH/4
	img := image.NewPaletted(image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH), palette)
	for row := 0; row < m.canvas.Height; row++ {
		for col := 0; col < m.canvas.Width; col++ {
			pattern := int(m.canvas.Grid[row][col] - brailleBase)
			if pattern == 0 {
				continue
			}
			ci, ok := index[m.canvas.Colors[row][col]]
			if !ok {
				ci = index[sim.ColorWhite]
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(col*charW+dx*dotW+px, row*charH+dy*dotH+py, ci)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *LiveModel) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	delay := int(m.interval / (10 * time.Millisecond))
	if delay < 2 {
		delay = 2
	}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// RunLive runs the live screen of one visualization on its own.
func RunLive(vis sim.Visualization, seed int64, interval time.Duration, metric string) error {
	_, err := tea.NewProgram(NewLiveModel(vis, seed, interval, metric), tea.WithAltScreen()).Run()
	return err
}
