// Package toml loads deployment profiles written in TOML for deployments
// that do not ship HCL. Unlike the HCL loader it offers no expression
// evaluation and no multi-file merging; thresholds are literal counts and a
// profile is exactly one file.
package toml
