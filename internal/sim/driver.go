package sim

import (
	"context"
	"sync"
	"time"
)

// Driver runs a function on a fixed period until stopped. At most one loop
// is active per Driver; starting a new loop stops the previous one first.
//
// fn must not call Start or Stop on the same Driver.
type Driver struct {
	ctl    sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start begins calling fn every interval. The loop ends when ctx is
// cancelled or Stop is called.
func (d *Driver) Start(ctx context.Context, interval time.Duration, fn func()) {
	d.ctl.Lock()
	defer d.ctl.Unlock()

	d.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				// Stop may have raced with the tick.
				if loopCtx.Err() != nil {
					return
				}
				fn()
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. No call to fn starts
// after Stop returns.
func (d *Driver) Stop() {
	d.ctl.Lock()
	defer d.ctl.Unlock()
	d.stopLocked()
}

func (d *Driver) stopLocked() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel = nil
	d.done = nil
}

// Running reports whether a loop is active. A loop whose parent context was
// cancelled reports false.
func (d *Driver) Running() bool {
	d.ctl.Lock()
	defer d.ctl.Unlock()
	if d.done == nil {
		return false
	}
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}
