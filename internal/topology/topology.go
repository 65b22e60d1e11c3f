package topology

import (
	"context"
	"fmt"

	"github.com/OWNER/ringboot/internal/ctxlog"
	"github.com/OWNER/ringboot/internal/interdep"
)

// Spec describes one subsystem node of a deployment profile. DependsOn
// lists node IDs; their order is preserved into the graph and therefore
// into the resolution order.
type Spec struct {
	ID        uint8
	Name      string
	Tier      interdep.Tier
	DependsOn []uint8
	Root      bool
}

// Reference returns the 8-node, 4-tier reference boot tree:
//
//	kernel (root)
//	  └── memory-manager (trunk)
//	        ├── interrupt-handler (branch) ── timer (leaf)
//	        ├── device-manager (branch)    ── console (leaf)
//	        └── filesystem (branch)        ── bootloader (leaf)
//
// 7 edges, depth 3, no shared dependencies.
func Reference() []Spec {
	return []Spec{
		{ID: 0, Name: "kernel", Tier: interdep.TierRoot, DependsOn: []uint8{1}, Root: true},
		{ID: 1, Name: "memory-manager", Tier: interdep.TierTrunk, DependsOn: []uint8{2, 4, 6}},
		{ID: 2, Name: "interrupt-handler", Tier: interdep.TierBranch, DependsOn: []uint8{3}},
		{ID: 3, Name: "timer", Tier: interdep.TierLeaf},
		{ID: 4, Name: "device-manager", Tier: interdep.TierBranch, DependsOn: []uint8{5}},
		{ID: 5, Name: "console", Tier: interdep.TierLeaf},
		{ID: 6, Name: "filesystem", Tier: interdep.TierBranch, DependsOn: []uint8{7}},
		{ID: 7, Name: "bootloader", Tier: interdep.TierLeaf},
	}
}

// Build assembles a graph from node specs in two passes: create every node,
// then link dependencies in declared order. Exactly one spec must be marked
// as root. Cyclic specs build fine here and are rejected by Resolve, which
// is what lets tests and profiles exercise the cycle pre-check.
func Build(ctx context.Context, specs []Spec) (*interdep.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	graph := interdep.New()

	refs := make(map[uint8]interdep.Ref, len(specs))
	var root interdep.Ref = -1

	for _, spec := range specs {
		if _, exists := refs[spec.ID]; exists {
			return nil, fmt.Errorf("duplicate node id %d in topology", spec.ID)
		}
		name := spec.Name
		ref := graph.AddNode(spec.ID, spec.Name, spec.Tier, func(n *interdep.Node) {
			logger.Info("Subsystem online.", "name", name, "id", n.ID, "tier", n.Tier.String())
		})
		refs[spec.ID] = ref

		if spec.Root {
			if root >= 0 {
				return nil, fmt.Errorf("topology declares more than one root (node %d)", spec.ID)
			}
			root = ref
		}
	}

	for _, spec := range specs {
		for _, depID := range spec.DependsOn {
			dep, ok := refs[depID]
			if !ok {
				return nil, fmt.Errorf("node %d depends on unknown node %d", spec.ID, depID)
			}
			if err := graph.AddDependency(refs[spec.ID], dep); err != nil {
				return nil, err
			}
		}
	}

	if root < 0 {
		return nil, fmt.Errorf("topology declares no root node")
	}
	if err := graph.SetRoot(root); err != nil {
		return nil, err
	}

	logger.Debug("Topology built.", "nodes", graph.NodeCount())
	return graph, nil
}
