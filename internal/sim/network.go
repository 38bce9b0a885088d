package sim

import (
	"math/rand"
	"time"

	"github.com/san-kum/mllab/internal/learn"
	"github.com/san-kum/mllab/internal/metrics"
)

const (
	NeuralInterval = 50 * time.Millisecond
	neuralWidth    = 600.0
	neuralHeight   = 300.0
)

// NeuralNet animates signals flowing through a fixed feed-forward network.
// Nothing is learned; each step only advances the animation clock.
type NeuralNet struct {
	Net     learn.Network
	Signals learn.SignalState
	rng     *rand.Rand
	ticks   int
}

func NewNeuralNet() *NeuralNet {
	return &NeuralNet{Net: learn.NewNetwork(learn.DefaultLayers, neuralWidth, neuralHeight)}
}

func (n *NeuralNet) Kind() Kind              { return KindNeural }
func (n *NeuralNet) Title() string           { return "Neural Network Architecture" }
func (n *NeuralNet) Epoch() int              { return n.ticks }
func (n *NeuralNet) Interval() time.Duration { return NeuralInterval }

func (n *NeuralNet) Reset(rng *rand.Rand) {
	n.rng = rng
	n.Signals = learn.SignalState{}
	n.ticks = 0
}

func (n *NeuralNet) Step() {
	if n.rng == nil {
		n.rng = rand.New(rand.NewSource(1))
	}
	n.Signals = learn.AdvanceSignals(n.Net, n.Signals, NeuralInterval, n.rng)
	n.ticks++
}

func (n *NeuralNet) Metrics() map[string]float64 {
	return map[string]float64{metrics.NameSignals: float64(len(n.Signals.Signals))}
}

func (n *NeuralNet) Scene() Scene {
	s := Scene{
		Title:  n.Title(),
		Status: "Input layer (blue), hidden layers, output layer (pink)",
		Bounds: Bounds{MinX: 0, MaxX: neuralWidth, MinY: 0, MaxY: neuralHeight},
	}
	for _, l := range n.Net.Links {
		a, b := n.Net.Nodes[l.From], n.Net.Nodes[l.To]
		s.Segments = append(s.Segments, Segment{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y, Color: ColorSlate})
	}
	last := len(n.Net.Layers) - 1
	for _, node := range n.Net.Nodes {
		c := ColorWhite
		switch node.Layer {
		case 0:
			c = ColorBlue
		case last:
			c = ColorPink
		}
		s.Markers = append(s.Markers, Marker{X: node.X, Y: node.Y, Size: 4, Color: c})
	}
	for _, sig := range n.Signals.Signals {
		x, y := sig.Position(n.Net)
		s.Markers = append(s.Markers, Marker{X: x, Y: y, Size: 2, Color: ColorEmerald})
	}
	return s
}
