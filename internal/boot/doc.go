// Package boot drives the four-phase startup sequence. A Machine owns a
// fixed population of Units and a dependency graph for the duration of one
// boot attempt, allocates units phase by phase according to a Plan, resolves
// the graph during the Remember phase, and computes the final verdict during
// Verify. A Machine is single use: build one per attempt and discard it.
package boot
