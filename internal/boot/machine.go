package boot

import (
	"context"
	"fmt"

	"github.com/OWNER/ringboot/internal/ctxlog"
	"github.com/OWNER/ringboot/internal/interdep"
	"github.com/OWNER/ringboot/internal/verdict"
)

// Phase is one of the four ordered stages a Machine executes exactly once
// per run: Sparse → Remember → Active → Verify.
type Phase uint8

const (
	Sparse Phase = iota
	Remember
	Active
	Verify
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case Sparse:
		return "sparse"
	case Remember:
		return "remember"
	case Active:
		return "active"
	case Verify:
		return "verify"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// GraphBuilder produces a fresh dependency graph for one boot attempt.
// Initialize calls it so every attempt starts from unresolved nodes.
type GraphBuilder func(ctx context.Context) (*interdep.Graph, error)

// Machine runs the phased startup sequence over its unit population and
// dependency graph. It owns both exclusively for the duration of one run.
type Machine struct {
	build  GraphBuilder
	plan   Plan
	policy verdict.Policy

	units []Unit
	graph *interdep.Graph

	current     Phase
	previous    Phase
	transitions int
	verdict     verdict.Verdict
}

// Result is the audit record of one boot attempt. ResolutionOrder covers
// every node brought up before a failure, so a rejected boot still leaves a
// diagnosable trail.
type Result struct {
	Verdict         verdict.Verdict
	ConfirmedUnits  int
	Population      int
	ResolvedNodes   int
	ResolutionOrder []uint8
	Transitions     int
}

// NewMachine builds a machine for a single boot attempt.
func NewMachine(build GraphBuilder, plan Plan, policy verdict.Policy) (*Machine, error) {
	if build == nil {
		return nil, fmt.Errorf("machine needs a graph builder")
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid allocation plan: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid verification policy: %w", err)
	}
	return &Machine{
		build:   build,
		plan:    plan,
		policy:  policy,
		current: Sparse,
		// A fresh machine has no prior phase; previous mirrors current
		// until the first transition, like the zeroed reference machine.
		previous: Sparse,
		verdict:  verdict.Indeterminate,
	}, nil
}

// Initialize resets every unit to a fresh Sparse record and rebuilds the
// dependency graph. It must be called before Run.
func (m *Machine) Initialize(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	m.units = make([]Unit, m.plan.Units)

	graph, err := m.build(ctx)
	if err != nil {
		return fmt.Errorf("building boot graph: %w", err)
	}
	m.graph = graph

	logger.Info("Boot machine initialized.", "units", len(m.units), "nodes", graph.NodeCount())
	return nil
}

// Run executes the four phases in order and returns the final verdict with
// its audit record. A resolution failure during Remember is fatal: the
// verdict is forced to Rejected, the error is returned, and the machine
// never reaches Active or Verify.
func (m *Machine) Run(ctx context.Context) (Result, error) {
	if m.graph == nil {
		return m.result(), fmt.Errorf("machine not initialized")
	}

	m.enterSparse(ctx)
	m.transition(ctx, Remember)

	if err := m.enterRemember(ctx); err != nil {
		m.verdict = verdict.Rejected
		return m.result(), fmt.Errorf("remember phase: %w", err)
	}
	m.transition(ctx, Active)

	m.enterActive(ctx)
	m.transition(ctx, Verify)

	m.enterVerify(ctx)
	return m.result(), nil
}

// Readout recomputes the verdict from the current unit states. For a
// finished run it matches the Result verdict exactly; the policy is a pure
// function of the population.
func (m *Machine) Readout() verdict.Verdict {
	return m.policy.Evaluate(m.confirmedUnits())
}

// Phase returns the machine's current phase.
func (m *Machine) Phase() Phase {
	return m.current
}

// Transitions returns the number of phase changes so far.
func (m *Machine) Transitions() int {
	return m.transitions
}

// Units returns a snapshot of the unit population.
func (m *Machine) Units() []Unit {
	out := make([]Unit, len(m.units))
	copy(out, m.units)
	return out
}

// transition records the phase change. Called between every pair of phases,
// including into Verify.
func (m *Machine) transition(ctx context.Context, next Phase) {
	m.previous = m.current
	m.current = next
	m.transitions++
	ctxlog.FromContext(ctx).Debug("Phase transition.", "from", m.previous.String(), "to", m.current.String(), "count", m.transitions)
}

// enterSparse allocates the plan's first unit subset. The rest of the
// population stays Sparse.
func (m *Machine) enterSparse(ctx context.Context) {
	ctxlog.FromContext(ctx).Info("Entering sparse phase.", "allocations", len(m.plan.Sparse))
	m.allocate(m.plan.Sparse)
}

// enterRemember allocates the second subset and then resolves the
// dependency graph. Resolution failure is escalated by Run.
func (m *Machine) enterRemember(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Entering remember phase.", "allocations", len(m.plan.Remember))
	m.allocate(m.plan.Remember)

	resolved, err := m.graph.Resolve(ctx)
	if err != nil {
		logger.Error("Dependency resolution failed.", "resolved", resolved, "error", err)
		return err
	}
	logger.Info("Dependency graph resolved.", "nodes", resolved)
	return nil
}

// enterActive allocates the remaining subset and then forces every unit to
// the Active stage. The sweep is unconditional: it does not depend on
// whether a unit was ever allocated.
func (m *Machine) enterActive(ctx context.Context) {
	ctxlog.FromContext(ctx).Info("Entering active phase.", "allocations", len(m.plan.Active))
	m.allocate(m.plan.Active)

	for i := range m.units {
		m.units[i].Stage = StageActive
	}
}

// enterVerify computes the verdict from the unit population. No unit is
// mutated here.
func (m *Machine) enterVerify(ctx context.Context) {
	confirmed := m.confirmedUnits()
	m.verdict = m.policy.Evaluate(confirmed)
	ctxlog.FromContext(ctx).Info("Verification complete.", "confirmed", confirmed, "population", len(m.units), "verdict", m.verdict.String())
}

func (m *Machine) allocate(assignments []Assignment) {
	for _, a := range assignments {
		m.units[a.Unit].allocate(a.Orientation)
	}
}

// confirmedUnits counts units that reached at least Remember and have been
// allocated.
func (m *Machine) confirmedUnits() int {
	count := 0
	for _, u := range m.units {
		if u.Stage >= StageRemember && u.HalfAllocated {
			count++
		}
	}
	return count
}

func (m *Machine) result() Result {
	res := Result{
		Verdict:        m.verdict,
		ConfirmedUnits: m.confirmedUnits(),
		Population:     len(m.units),
		Transitions:    m.transitions,
	}
	if m.graph != nil {
		res.ResolvedNodes = m.graph.ResolvedCount()
		res.ResolutionOrder = m.graph.Order()
	}
	return res
}
