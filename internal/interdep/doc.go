// Package interdep implements the interdependency resolution engine for the
// boot sequence. Subsystem nodes live in an arena owned by a Graph and refer
// to each other by stable index, so a node may be depended on by several
// parents without ownership cycles. Resolution is a depth-first walk from the
// root that brings every dependency up before its dependents and records the
// realized order for later audit.
package interdep
