package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mllab/internal/catalog"
	"github.com/san-kum/mllab/internal/experiment"
	"github.com/san-kum/mllab/internal/sim"
	"github.com/san-kum/mllab/internal/tutor"
)

const (
	stateMenu = iota
	stateTopic
	stateViz
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	groupStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b")).Bold(true)
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399")).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#065f46")).Padding(0, 1)
	formulaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399")).Bold(true)
)

// Options configures the interactive app.
type Options struct {
	Session  *tutor.Session
	Registry *experiment.Registry
	Seed     int64
	Interval time.Duration
	Theme    string
}

type App struct {
	state         int
	cursor        int
	topics        []catalog.Topic
	topic         catalog.Topic
	registry      *experiment.Registry
	seed          int64
	interval      time.Duration
	live          LiveModel
	panel         tutorPanel
	width, height int
}

func NewApp(opts Options) App {
	if opts.Registry == nil {
		opts.Registry = experiment.NewRegistry()
	}
	if opts.Theme != "" {
		SetTheme(opts.Theme)
	}
	topics := orderedTopics()
	return App{
		state:    stateMenu,
		topics:   topics,
		topic:    topics[0],
		registry: opts.Registry,
		seed:     opts.Seed,
		interval: opts.Interval,
		panel:    tutorPanel{session: opts.Session, width: 44},
		width:    120,
		height:   36,
	}
}

// orderedTopics lists topics in the order the menu shows them, grouped by
// learning type.
func orderedTopics() []catalog.Topic {
	var out []catalog.Topic
	for _, g := range catalog.Grouped() {
		out = append(out, g.Topics...)
	}
	return out
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case fragmentMsg:
		return m, m.panel.onFragment(msg)
	case backMsg:
		m.state = stateTopic
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if m.state == stateViz {
			return m.updateLive(msg)
		}
	}
	return m, nil
}

func (m App) updateLive(msg tea.Msg) (App, tea.Cmd) {
	next, cmd := m.live.Update(msg)
	m.live = next.(LiveModel)
	return m, cmd
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateTopic:
		return m.topicKey(msg)
	case stateViz:
		return m.updateLive(msg)
	}
	return m, nil
}

func (m App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.topics)-1 {
			m.cursor++
		}
	case "t":
		NextTheme()
	case "enter", " ":
		m.selectTopic(m.topics[m.cursor])
		m.state = stateTopic
	}
	return m, nil
}

func (m App) topicKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if m.panel.open && m.panel.focused {
		return m, m.panel.handleKey(msg)
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.state = stateMenu
	case "a":
		if m.panel.session != nil {
			m.panel.open, m.panel.focused = true, true
		}
	case "c":
		m.panel.open, m.panel.focused = false, false
	case "]", "right", "l":
		m.cursor = (m.cursor + 1) % len(m.topics)
		m.selectTopic(m.topics[m.cursor])
	case "[", "left", "h":
		m.cursor = (m.cursor + len(m.topics) - 1) % len(m.topics)
		m.selectTopic(m.topics[m.cursor])
	case "t":
		NextTheme()
	case "enter", "v":
		return m.openViz()
	}
	return m, nil
}

func (m *App) selectTopic(t catalog.Topic) {
	m.topic = t
	if m.panel.session != nil {
		m.panel.session.SetTopic(t)
	}
}

// openViz builds a fresh live screen. The previous one, if any, is dropped
// together with its ticks.
func (m App) openViz() (App, tea.Cmd) {
	if m.topic.Viz == sim.KindNone {
		return m, nil
	}
	vis, err := m.registry.GetVisualization(string(m.topic.Viz))
	if err != nil {
		return m, nil
	}
	m.live = NewLiveModel(vis, m.seed, m.interval, m.registry.PrimaryMetric(string(m.topic.Viz)))
	m.live.embedded = true
	m.state = stateViz
	return m, m.live.Init()
}

func (m App) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateTopic:
		return m.viewTopic()
	case stateViz:
		return m.live.View()
	}
	return ""
}

func (m App) viewMenu() string {
	st := CurrentStyles()
	var b strings.Builder
	b.WriteString("\n\n    " + Gradient("ML MASTER", CurrentTheme.Primary, CurrentTheme.Secondary) + "\n")
	b.WriteString("    " + st.Muted.Render("interactive machine learning guide") + "\n")
	b.WriteString("    " + st.Muted.Render("─────────────────────────") + "\n")

	i := 0
	for _, g := range catalog.Grouped() {
		b.WriteString("\n    " + groupStyle.Render(strings.ToUpper(string(g.Type))) + "\n")
		for _, t := range g.Topics {
			if i == m.cursor {
				b.WriteString(fmt.Sprintf("    %s %s  %s\n", keyStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-30s", t.Title)), st.Muted.Render(t.Description)))
			} else {
				b.WriteString(fmt.Sprintf("      %s\n", idleStyle.Render(t.Title)))
			}
			i++
		}
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + st.Muted.Render(" navigate  ") + keyStyle.Render("enter") + st.Muted.Render(" open  ") + keyStyle.Render("t") + st.Muted.Render(" theme  ") + keyStyle.Render("q") + st.Muted.Render(" quit") + "\n")
	return b.String()
}

func (m App) viewTopic() string {
	contentWidth := m.width - 6
	if m.panel.open {
		contentWidth -= m.panel.width + 2
	}
	if contentWidth < 40 {
		contentWidth = 40
	}
	wrap := lipgloss.NewStyle().Width(contentWidth)

	st := CurrentStyles()
	var b strings.Builder
	b.WriteString("\n" + st.Header.Render(m.topic.Title) + "\n")
	b.WriteString(badgeStyle.Render(string(m.topic.Type)) + "\n\n")
	b.WriteString(wrap.Foreground(CurrentTheme.Text).Render(m.topic.Description) + "\n\n")
	b.WriteString(wrap.Render(m.topic.Content) + "\n\n")

	if len(m.topic.Math) > 0 {
		b.WriteString(groupStyle.Render("THE MATH") + "\n")
		for _, sec := range m.topic.Math {
			body := sec.Content
			if sec.Formula != "" {
				body += "\n\n" + formulaStyle.Render(sec.Formula)
			}
			b.WriteString(Section(sec.Title, body, contentWidth-4, st) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(groupStyle.Render("REAL-WORLD APPLICATIONS") + "\n")
	for _, uc := range m.topic.UseCases {
		b.WriteString("  " + keyStyle.Render("•") + " " + uc + "\n")
	}
	b.WriteString("\n" + Rule(contentWidth, st) + "\n")

	hints := []string{keyStyle.Render("[ ]") + st.Muted.Render(" prev/next")}
	if m.topic.Viz != sim.KindNone {
		hints = append(hints, keyStyle.Render("enter")+st.Muted.Render(" interactive visualization"))
	}
	if m.panel.session != nil {
		hints = append(hints, keyStyle.Render("a")+st.Muted.Render(" ask the tutor"))
	}
	hints = append(hints, keyStyle.Render("esc")+st.Muted.Render(" topics"))
	b.WriteString(strings.Join(hints, "  ") + "\n")

	content := lipgloss.NewStyle().Padding(0, 2).Render(b.String())
	if !m.panel.open {
		return content
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, content, m.panel.View(m.height))
}

// Run starts the interactive app.
func Run(opts Options) error {
	_, err := tea.NewProgram(NewApp(opts), tea.WithAltScreen()).Run()
	return err
}
