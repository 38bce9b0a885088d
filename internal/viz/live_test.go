package viz

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mllab/internal/metrics"
	"github.com/san-kum/mllab/internal/sim"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m LiveModel, msg tea.Msg) (LiveModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(LiveModel), cmd
}

func TestLiveTrainingTicks(t *testing.T) {
	m := NewLiveModel(sim.NewLinearRegression(), 1, time.Millisecond, metrics.NameMSE)
	if m.Training() {
		t.Fatal("linear regression should start idle")
	}
	if m.Init() != nil {
		t.Error("idle model should not arm a tick")
	}

	stale := m.gen
	m, cmd := update(t, m, key(" "))
	if !m.Training() || cmd == nil {
		t.Fatal("space should start training and arm a tick")
	}

	m, _ = update(t, m, tickMsg{gen: stale})
	if m.vis.Epoch() != 0 {
		t.Errorf("stale tick stepped the model")
	}

	m, cmd = update(t, m, tickMsg{gen: m.gen})
	if m.vis.Epoch() != 1 || cmd == nil {
		t.Errorf("current tick should step and re-arm, epoch %d", m.vis.Epoch())
	}
	if m.history.Len() != 2 {
		t.Errorf("expected 2 recorded losses, got %d", m.history.Len())
	}

	running := m.gen
	m, _ = update(t, m, key(" "))
	if m.Training() {
		t.Fatal("space should stop training")
	}
	m, cmd = update(t, m, tickMsg{gen: running})
	if m.vis.Epoch() != 1 || cmd != nil {
		t.Errorf("tick after stop must be dropped")
	}
}

func TestLiveResetStops(t *testing.T) {
	m := NewLiveModel(sim.NewLinearRegression(), 1, time.Millisecond, metrics.NameMSE)
	m, _ = update(t, m, key(" "))
	gen := m.gen
	m, _ = update(t, m, tickMsg{gen: gen})
	m, _ = update(t, m, key("s"))
	if m.vis.Epoch() != 2 {
		t.Fatalf("expected epoch 2, got %d", m.vis.Epoch())
	}

	m, _ = update(t, m, key("r"))
	if m.Training() || m.vis.Epoch() != 0 {
		t.Errorf("reset must stop and clear, training=%v epoch=%d", m.Training(), m.vis.Epoch())
	}
	m, _ = update(t, m, tickMsg{gen: gen})
	if m.vis.Epoch() != 0 {
		t.Error("tick armed before reset must be dropped")
	}
	if m.history.Len() != 1 {
		t.Errorf("expected history to restart, got %d", m.history.Len())
	}
}

func TestLivePCA(t *testing.T) {
	m := NewLiveModel(sim.NewPCA(), 1, 0, metrics.NameExplained)
	m, cmd := update(t, m, key(" "))
	if m.Training() || cmd != nil {
		t.Error("PCA must not train")
	}
	if m.notice == "" {
		t.Error("expected a notice for a manual visualization")
	}

	m, _ = update(t, m, key("p"))
	m, _ = update(t, m, key("v"))
	pr := m.vis.(sim.Projector)
	if !pr.Projected() || !pr.VectorsShown() {
		t.Error("p and v should toggle projection and vectors")
	}
	if m.View() == "" {
		t.Error("empty view")
	}
}

func TestLiveNeuralAutoplay(t *testing.T) {
	m := NewLiveModel(sim.NewNeuralNet(), 1, 0, metrics.NameSignals)
	if !m.Training() || m.Init() == nil {
		t.Error("network animation should start playing")
	}
}

func TestLiveTuneParam(t *testing.T) {
	m := NewLiveModel(sim.NewLinearRegression(), 1, 0, metrics.NameMSE)
	m, _ = update(t, m, key("up"))
	lr := m.vis.(sim.Configurable).GetParams()["learning_rate"]
	if lr <= 0.0001 {
		t.Errorf("expected learning rate above default, got %g", lr)
	}
}

func TestLiveEscape(t *testing.T) {
	m := NewLiveModel(sim.NewKMeans(), 1, 0, metrics.NameInertia)
	m.embedded = true
	m, _ = update(t, m, key(" "))
	m, cmd := update(t, m, key("esc"))
	if m.Training() {
		t.Error("leaving must stop training")
	}
	if cmd == nil {
		t.Fatal("expected a back command")
	}
	if _, ok := cmd().(backMsg); !ok {
		t.Error("expected backMsg")
	}
}
