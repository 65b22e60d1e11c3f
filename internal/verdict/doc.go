// Package verdict defines the tri-state outcome of a boot attempt and the
// data-driven policy that maps a confirmed-unit count onto it.
package verdict
