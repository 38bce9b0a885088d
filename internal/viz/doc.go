// Package viz provides the terminal interface of the ML guide.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: topic menu, topic pages and the tutor side panel
//   - [LiveModel]: live screen of one visualization
//   - [Canvas]: Braille-based pixel canvas with per-cell color
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space - Start/Stop training
//	S     - Single step
//	R     - Reset with new data
//	P/V   - PCA projection and vectors
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	A     - Ask the tutor (topic page)
//	?     - Show help overlay
//
// # Recording
//
// The live screen can record training as a GIF animation with the G key.
// Recordings are saved to the current directory, named after the
// visualization.
package viz
