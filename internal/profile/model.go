package profile

import (
	"context"
	"fmt"

	"github.com/OWNER/ringboot/internal/boot"
	"github.com/OWNER/ringboot/internal/topology"
	"github.com/OWNER/ringboot/internal/verdict"
)

// Model is the unified representation of a deployment profile: the unit
// population and allocation schedule, the verification thresholds, and the
// subsystem topology.
type Model struct {
	Name   string
	Plan   boot.Plan
	Policy verdict.Policy
	Nodes  []topology.Spec
}

// Loader is the interface for a format-specific profile loader. Load reads
// a profile from the given path and translates it into the model.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}

// Reference returns the built-in profile: the 8-unit allocation plan, the
// 6/3 threshold table and the 8-node boot tree.
func Reference() *Model {
	return &Model{
		Name:   "reference",
		Plan:   boot.ReferencePlan(),
		Policy: verdict.DefaultPolicy(),
		Nodes:  topology.Reference(),
	}
}

// Validate checks the model's internal consistency.
func (m *Model) Validate() error {
	if err := m.Plan.Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", m.Name, err)
	}
	if err := m.Policy.Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", m.Name, err)
	}
	if len(m.Nodes) == 0 {
		return fmt.Errorf("profile %q: no nodes declared", m.Name)
	}
	return nil
}
