// Package hcl loads deployment profiles written in HCL and translates them
// into the format-agnostic profile model. Threshold attributes are HCL
// expressions evaluated against an EvalContext that exposes the unit
// population, so a profile can derive its table from the population size
// (for example `confirm_at = units - 2`).
package hcl
