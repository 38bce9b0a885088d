package learn

import (
	"math/rand"
	"time"
)

// Timing of the signal animation.
const (
	SignalSpawnEvery = 800 * time.Millisecond
	SignalHop        = 500 * time.Millisecond
)

// DefaultLayers is the demo architecture: 3 inputs, two hidden layers, 2 outputs.
var DefaultLayers = []int{3, 5, 4, 2}

// Node is a neuron placed on the canvas.
type Node struct {
	ID    int     `json:"id"`
	Layer int     `json:"layer"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Link connects a node to one in the next layer.
type Link struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Network is a fully connected feed-forward layout.
type Network struct {
	Layers []int  `json:"layers"`
	Nodes  []Node `json:"nodes"`
	Links  []Link `json:"links"`
}

// NewNetwork lays out the layers evenly across a w x h canvas.
func NewNetwork(layers []int, w, h float64) Network {
	net := Network{Layers: append([]int(nil), layers...)}
	stepX := w / float64(len(layers)+1)
	id := 0
	for l, count := range layers {
		stepY := h / float64(count+1)
		for i := 0; i < count; i++ {
			net.Nodes = append(net.Nodes, Node{
				ID:    id,
				Layer: l,
				X:     stepX * float64(l+1),
				Y:     stepY * float64(i+1),
			})
			id++
		}
	}
	for _, src := range net.Nodes {
		for _, dst := range net.Nodes {
			if dst.Layer == src.Layer+1 {
				net.Links = append(net.Links, Link{From: src.ID, To: dst.ID})
			}
		}
	}
	return net
}

func (n Network) layerNodes(layer int) []Node {
	var out []Node
	for _, node := range n.Nodes {
		if node.Layer == layer {
			out = append(out, node)
		}
	}
	return out
}

// RandomPath picks one node per layer, input to output.
func (n Network) RandomPath(rng *rand.Rand) []int {
	path := make([]int, 0, len(n.Layers))
	for l := range n.Layers {
		nodes := n.layerNodes(l)
		if len(nodes) == 0 {
			return path
		}
		path = append(path, nodes[rng.Intn(len(nodes))].ID)
	}
	return path
}

// Signal is a pulse travelling along a path of node IDs.
type Signal struct {
	Path    []int         `json:"path"`
	Elapsed time.Duration `json:"elapsed"`
}

// Done reports whether the signal reached the end of its path.
func (s Signal) Done() bool {
	return s.Elapsed >= time.Duration(len(s.Path)-1)*SignalHop
}

// Position interpolates the signal between the two nodes of its current hop.
func (s Signal) Position(n Network) (x, y float64) {
	if len(s.Path) == 0 {
		return 0, 0
	}
	hop := int(s.Elapsed / SignalHop)
	if hop >= len(s.Path)-1 {
		last := n.Nodes[s.Path[len(s.Path)-1]]
		return last.X, last.Y
	}
	frac := float64(s.Elapsed%SignalHop) / float64(SignalHop)
	a, b := n.Nodes[s.Path[hop]], n.Nodes[s.Path[hop+1]]
	return a.X + (b.X-a.X)*frac, a.Y + (b.Y-a.Y)*frac
}

// SignalState is the animation state of the network demo.
type SignalState struct {
	Signals  []Signal      `json:"signals"`
	SinceNew time.Duration `json:"since_new"`
	Spawned  int           `json:"spawned"`
}

// AdvanceSignals moves every signal forward by dt, drops the finished ones
// and spawns a new signal every SignalSpawnEvery.
func AdvanceSignals(n Network, s SignalState, dt time.Duration, rng *rand.Rand) SignalState {
	next := SignalState{
		Signals:  make([]Signal, 0, len(s.Signals)+1),
		SinceNew: s.SinceNew + dt,
		Spawned:  s.Spawned,
	}
	for _, sig := range s.Signals {
		sig.Elapsed += dt
		if !sig.Done() {
			next.Signals = append(next.Signals, sig)
		}
	}
	for next.SinceNew >= SignalSpawnEvery {
		next.SinceNew -= SignalSpawnEvery
		next.Signals = append(next.Signals, Signal{Path: n.RandomPath(rng)})
		next.Spawned++
	}
	return next
}
