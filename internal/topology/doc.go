// Package topology turns declarative subsystem specs into a resolvable
// dependency graph. The reference boot tree lives here, and deployment
// profiles feed their own node specs through the same builder.
package topology
