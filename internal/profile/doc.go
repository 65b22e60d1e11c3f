// Package profile defines the format-agnostic deployment profile model and
// the Loader contract that format-specific packages implement. The engine
// only ever sees the model; whether it came from HCL, TOML or the built-in
// reference defaults is invisible past this boundary.
package profile
