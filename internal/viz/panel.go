package viz

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mllab/internal/tutor"
)

var (
	userBubble  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#2563eb")).Padding(0, 1)
	modelBubble = lipgloss.NewStyle().Foreground(lipgloss.Color("#e2e8f0")).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#334155")).Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("#334155")).Padding(0, 1)
)

// fragmentMsg carries one pulled fragment. Pulls are chained, so at most
// one is in flight per stream and fragments apply in order.
type fragmentMsg struct {
	stream *tutor.Stream
	text   string
	ok     bool
}

func pullFragment(s *tutor.Stream) tea.Cmd {
	return func() tea.Msg {
		text, ok := s.Next()
		return fragmentMsg{stream: s, text: text, ok: ok}
	}
}

// tutorPanel is the chat side panel. Closing it does not cancel a reply in
// flight; the reply keeps landing in the session.
type tutorPanel struct {
	session *tutor.Session
	open    bool
	focused bool
	input   string
	frame   int
	notice  string
	width   int
}

func (p *tutorPanel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		p.focused = false
	case tea.KeyEnter:
		return p.submit()
	case tea.KeyBackspace:
		if r := []rune(p.input); len(r) > 0 {
			p.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		p.input += " "
	case tea.KeyRunes:
		p.input += string(msg.Runes)
	}
	return nil
}

func (p *tutorPanel) submit() tea.Cmd {
	if p.session == nil {
		return nil
	}
	stream, err := p.session.Begin(context.Background(), p.input)
	if err != nil {
		// Blank input or a reply in progress: keep the input as typed.
		return nil
	}
	p.input = ""
	return pullFragment(stream)
}

func (p *tutorPanel) onFragment(msg fragmentMsg) tea.Cmd {
	if msg.ok {
		p.frame++
		p.session.Append(msg.text)
		return pullFragment(msg.stream)
	}
	msg.stream.Close()
	p.session.Finish()
	return nil
}

func (p *tutorPanel) View(height int) string {
	if p.session == nil {
		return ""
	}
	w := p.width
	if w <= 0 {
		w = 40
	}
	st := CurrentStyles()
	var b strings.Builder
	b.WriteString(Gradient("AI Tutor", CurrentTheme.Secondary, CurrentTheme.Primary) + "\n")
	b.WriteString(st.Muted.Render(strings.Repeat("─", w-2)) + "\n")

	var lines []string
	for _, msg := range p.session.Messages() {
		switch {
		case msg.Thinking:
			lines = append(lines, st.Muted.Render(Spinner(p.frame)+" Thinking..."))
		case msg.Role == tutor.RoleUser:
			bubble := userBubble.Width(w - 6).Render(msg.Text)
			lines = append(lines, lipgloss.PlaceHorizontal(w-2, lipgloss.Right, bubble))
		default:
			lines = append(lines, modelBubble.Width(w-4).Render(msg.Text))
		}
	}
	history := strings.Join(lines, "\n")
	if height > 6 {
		// Keep the newest messages in view.
		rows := strings.Split(history, "\n")
		if limit := height - 6; len(rows) > limit {
			rows = rows[len(rows)-limit:]
		}
		history = strings.Join(rows, "\n")
	}
	b.WriteString(history + "\n\n")

	prompt := "> " + p.input
	if p.focused {
		prompt += "_"
	}
	switch {
	case p.session.Loading():
		b.WriteString(st.Muted.Render(prompt + "  (waiting for reply)"))
	case p.focused:
		b.WriteString(st.Value.Render(prompt))
	default:
		b.WriteString(st.Hint.Render("a: ask a question"))
	}
	return panelStyle.Width(w).Render(b.String())
}
