package interdep

import "fmt"

// Tier classifies a node's position in the boot tree. It is purely
// descriptive and never consulted by the resolution algorithm.
type Tier uint8

const (
	TierRoot Tier = iota
	TierTrunk
	TierBranch
	TierLeaf
)

// String implements fmt.Stringer.
func (t Tier) String() string {
	switch t {
	case TierRoot:
		return "root"
	case TierTrunk:
		return "trunk"
	case TierBranch:
		return "branch"
	case TierLeaf:
		return "leaf"
	}
	return fmt.Sprintf("tier(%d)", uint8(t))
}

// ParseTier converts a profile string into a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "root":
		return TierRoot, nil
	case "trunk":
		return TierTrunk, nil
	case "branch":
		return TierBranch, nil
	case "leaf":
		return TierLeaf, nil
	}
	return 0, fmt.Errorf("unknown tier %q (want root, trunk, branch or leaf)", s)
}

// State tracks how far a node has progressed through one resolution pass.
// A node moves Unresolved → Resolving → Resolved or Failed exactly once;
// a Failed node stays Failed for the lifetime of its graph.
type State uint8

const (
	Unresolved State = iota
	Resolving
	Resolved
	Failed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Ref is a stable index into a Graph's node arena.
type Ref int

// Node is a single resolvable subsystem. Dependencies are held as arena
// refs in insertion order, which is what makes resolution deterministic.
type Node struct {
	ID   uint8
	Name string
	Tier Tier

	// State is exported for inspection; callers must not mutate it.
	State State

	// OnResolve, when set, runs exactly once per node: after all of the
	// node's dependencies have resolved and before the node itself is
	// marked Resolved.
	OnResolve func(*Node)

	deps []Ref
}

// Dependencies returns the node's dependency refs in insertion order.
func (n *Node) Dependencies() []Ref {
	out := make([]Ref, len(n.deps))
	copy(out, n.deps)
	return out
}
