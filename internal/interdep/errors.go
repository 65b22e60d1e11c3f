package interdep

import (
	"errors"
	"fmt"
)

// ErrNoRoot is returned by Resolve when the graph has no entry point.
var ErrNoRoot = errors.New("graph has no root node")

// CycleError reports a circular dependency. It names one node known to be
// part of the cycle.
type CycleError struct {
	NodeID uint8
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency involving node %d", e.NodeID)
}

// ResolveError reports that a node could not be resolved because one of its
// dependencies failed. The node itself is marked Failed and is never retried.
type ResolveError struct {
	NodeID uint8
	Err    error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("node %d previously failed to resolve", e.NodeID)
	}
	return fmt.Sprintf("node %d failed to resolve: %v", e.NodeID, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *ResolveError) Unwrap() error {
	return e.Err
}
