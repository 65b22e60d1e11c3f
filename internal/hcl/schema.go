package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// profileSchema is the top-level structure of a profile file. Blocks may be
// spread across several files in a directory; bodies are merged before
// decoding.
type profileSchema struct {
	Name         string             `hcl:"name,optional"`
	Units        int                `hcl:"units"`
	Verification *verificationBlock `hcl:"verification,block"`
	Phases       []*phaseBlock      `hcl:"phase,block"`
	Nodes        []*nodeBlock       `hcl:"node,block"`
}

// verificationBlock carries the threshold table. The attributes stay as
// expressions so they can reference the `units` variable.
type verificationBlock struct {
	ConfirmAt   hcl.Expression `hcl:"confirm_at"`
	RejectBelow hcl.Expression `hcl:"reject_below"`
}

// phaseBlock names one of the allocating phases (sparse, remember, active)
// and lists the units it allocates.
type phaseBlock struct {
	Name  string       `hcl:"name,label"`
	Units []*unitBlock `hcl:"unit,block"`
}

// unitBlock assigns an orientation to one unit index.
type unitBlock struct {
	Index       int    `hcl:"index"`
	Orientation string `hcl:"orientation"`
}

// nodeBlock declares one subsystem node of the topology.
type nodeBlock struct {
	Name      string `hcl:"name,label"`
	ID        int    `hcl:"id"`
	Tier      string `hcl:"tier"`
	Root      bool   `hcl:"root,optional"`
	DependsOn []int  `hcl:"depends_on,optional"`
}
