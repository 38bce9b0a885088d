package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Instance owns one live visualization: its state, its random source and
// its single training loop. All methods are safe for concurrent use.
type Instance struct {
	mu        sync.Mutex
	vis       Visualization
	seed      int64
	rng       *rand.Rand
	interval  time.Duration
	driver    Driver
	observers []Observer
}

// NewInstance resets vis from seed. A zero interval uses the
// visualization's own period.
func NewInstance(vis Visualization, seed int64, interval time.Duration) *Instance {
	if interval <= 0 {
		interval = vis.Interval()
	}
	in := &Instance{
		vis:      vis,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		interval: interval,
	}
	vis.Reset(in.rng)
	return in
}

func (in *Instance) Kind() Kind { return in.vis.Kind() }

// AddObserver registers o. Observers run under the instance lock and must
// not call back into the Instance.
func (in *Instance) AddObserver(o Observer) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.observers = append(in.observers, o)
}

// Train starts the training loop. Calling Train while training restarts
// the loop; there is never more than one.
func (in *Instance) Train(ctx context.Context) error {
	if in.interval <= 0 || in.vis.Interval() <= 0 {
		return ErrNotTrainable
	}
	in.driver.Start(ctx, in.interval, func() {
		in.mu.Lock()
		defer in.mu.Unlock()
		in.stepLocked(true)
	})
	return nil
}

// Stop halts training. The state is frozen once Stop returns.
func (in *Instance) Stop() { in.driver.Stop() }

// Toggle flips between training and idle, like the demo's play button.
func (in *Instance) Toggle(ctx context.Context) error {
	if in.driver.Running() {
		in.Stop()
		return nil
	}
	return in.Train(ctx)
}

func (in *Instance) Training() bool { return in.driver.Running() }

// Step applies one step by hand.
func (in *Instance) Step() {
	training := in.driver.Running()
	in.mu.Lock()
	defer in.mu.Unlock()
	in.stepLocked(training)
}

func (in *Instance) stepLocked(training bool) {
	in.vis.Step()
	if len(in.observers) == 0 {
		return
	}
	snap := Take(in.vis, training)
	for _, o := range in.observers {
		o.OnStep(snap)
	}
}

// Reset stops training and regenerates the data from the instance's random
// stream. Successive resets produce different data sets.
func (in *Instance) Reset() {
	in.Stop()
	in.mu.Lock()
	defer in.mu.Unlock()
	in.vis.Reset(in.rng)
}

// Do runs fn with exclusive access to the visualization.
func (in *Instance) Do(fn func(Visualization)) {
	in.mu.Lock()
	defer in.mu.Unlock()
	fn(in.vis)
}

// Project toggles the projection of a Projector visualization.
func (in *Instance) Project() error {
	return in.project(func(p Projector) { p.ToggleProjection() })
}

// Vectors toggles the principal component arrows of a Projector.
func (in *Instance) Vectors() error {
	return in.project(func(p Projector) { p.ToggleVectors() })
}

func (in *Instance) project(fn func(Projector)) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	p, ok := in.vis.(Projector)
	if !ok {
		return ErrUnsupported
	}
	fn(p)
	return nil
}

// SetParam forwards to a Configurable visualization.
func (in *Instance) SetParam(name string, value float64) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	c, ok := in.vis.(Configurable)
	if !ok {
		return ErrUnsupported
	}
	return c.SetParam(name, value)
}

// SetParams applies every value or none of them. Unknown names are
// rejected before anything changes.
func (in *Instance) SetParams(params map[string]float64) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	c, ok := in.vis.(Configurable)
	if !ok {
		return ErrUnsupported
	}
	current := c.GetParams()
	for name := range params {
		if _, ok := current[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
	}
	for name, value := range params {
		if err := c.SetParam(name, value); err != nil {
			for n, v := range current {
				c.SetParam(n, v)
			}
			return err
		}
	}
	return nil
}

func (in *Instance) Snapshot() Snapshot {
	training := in.driver.Running()
	in.mu.Lock()
	defer in.mu.Unlock()
	return Take(in.vis, training)
}
