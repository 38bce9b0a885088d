// Package learn holds the step functions driving each visualization.
//
// Every function is pure: it maps the current model parameters and the data
// to the next parameters (plus an optional metric) and never mutates its
// arguments. Numerical edge cases degrade to no-ops:
//
//   - [LinearStep] on an empty set returns the model unchanged
//   - [LogisticStep] clamps probabilities before taking logarithms
//   - [KMeansStep] leaves a centroid with no members where it is
//   - [LogisticModel.Boundary] reports no segment when the line is near vertical
//
// Callers decide when to stop; there is no convergence detection.
package learn
