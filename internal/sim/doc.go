// Package sim owns the per-visualization state and the loop that advances it.
//
// The package defines:
//
//   - [Visualization]: a state container (data + model) stepped by a pure
//     function from package learn
//   - [Scene]: the render-neutral picture of a visualization
//   - [Driver]: a cancellable repeating task
//   - [Instance]: a visualization bound to its own driver, rng and lock
//
// # Training loop
//
// An Instance is Idle or Training. Train starts the Driver at the
// visualization's interval, replacing any loop already running. Stop cancels
// the loop and waits for it, so no step is applied once Stop returns. Reset
// stops first, then regenerates the data.
package sim
