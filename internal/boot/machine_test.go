package boot

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OWNER/ringboot/internal/interdep"
	"github.com/OWNER/ringboot/internal/topology"
	"github.com/OWNER/ringboot/internal/verdict"
)

func referenceBuilder(ctx context.Context) (*interdep.Graph, error) {
	return topology.Build(ctx, topology.Reference())
}

func cyclicBuilder(ctx context.Context) (*interdep.Graph, error) {
	// a → b → c → a
	g := interdep.New()
	a := g.AddNode(0, "a", interdep.TierRoot, nil)
	b := g.AddNode(1, "b", interdep.TierBranch, nil)
	c := g.AddNode(2, "c", interdep.TierBranch, nil)
	if err := g.AddDependency(a, b); err != nil {
		return nil, err
	}
	if err := g.AddDependency(b, c); err != nil {
		return nil, err
	}
	if err := g.AddDependency(c, a); err != nil {
		return nil, err
	}
	if err := g.SetRoot(a); err != nil {
		return nil, err
	}
	return g, nil
}

func newReferenceMachine(t *testing.T, build GraphBuilder) *Machine {
	t.Helper()
	m, err := NewMachine(build, ReferencePlan(), verdict.DefaultPolicy())
	require.NoError(t, err)
	require.NoError(t, m.Initialize(context.Background()))
	return m
}

func TestNewMachine(t *testing.T) {
	t.Run("rejects nil builder", func(t *testing.T) {
		_, err := NewMachine(nil, ReferencePlan(), verdict.DefaultPolicy())
		assert.Error(t, err)
	})

	t.Run("rejects invalid plan", func(t *testing.T) {
		plan := ReferencePlan()
		plan.Units = 2
		_, err := NewMachine(referenceBuilder, plan, verdict.DefaultPolicy())
		assert.Error(t, err)
	})

	t.Run("rejects invalid policy", func(t *testing.T) {
		_, err := NewMachine(referenceBuilder, ReferencePlan(), verdict.Policy{ConfirmAt: 1, RejectBelow: 5})
		assert.Error(t, err)
	})

	t.Run("run before initialize fails", func(t *testing.T) {
		m, err := NewMachine(referenceBuilder, ReferencePlan(), verdict.DefaultPolicy())
		require.NoError(t, err)
		_, err = m.Run(context.Background())
		assert.Error(t, err)
	})
}

func TestRunHappyPath(t *testing.T) {
	m := newReferenceMachine(t, referenceBuilder)

	res, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, verdict.Confirmed, res.Verdict)
	assert.Equal(t, 8, res.ConfirmedUnits)
	assert.Equal(t, 8, res.Population)
	assert.Equal(t, 8, res.ResolvedNodes)
	assert.Equal(t, 3, res.Transitions)
	assert.Equal(t, Verify, m.Phase())

	// DFS post-order over insertion order: each leaf before its branch,
	// branches (IRQ, device, filesystem) before the trunk, trunk before root.
	assert.Empty(t, cmp.Diff([]uint8{3, 2, 5, 4, 7, 6, 1, 0}, res.ResolutionOrder))

	for i, u := range m.Units() {
		assert.Equal(t, StageActive, u.Stage, "unit %d not active", i)
		assert.True(t, u.HalfAllocated, "unit %d never allocated", i)
	}

	// The readout is referentially transparent over the final unit states.
	assert.Equal(t, res.Verdict, m.Readout())
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() Result {
		m := newReferenceMachine(t, referenceBuilder)
		res, err := m.Run(context.Background())
		require.NoError(t, err)
		return res
	}

	first := run()
	second := run()
	assert.Empty(t, cmp.Diff(first, second))
}

func TestRunCyclicGraphHaltsInRemember(t *testing.T) {
	m := newReferenceMachine(t, cyclicBuilder)

	res, err := m.Run(context.Background())
	require.Error(t, err)

	var cycleErr *interdep.CycleError
	assert.ErrorAs(t, err, &cycleErr)

	// The machine halts during Remember and never reaches Active.
	assert.Equal(t, Remember, m.Phase())
	assert.Equal(t, verdict.Rejected, res.Verdict)
	assert.Equal(t, byte(0xAA), res.Verdict.Code())
	assert.Equal(t, 1, res.Transitions)
	assert.Empty(t, res.ResolutionOrder)

	// Active's sweep never ran: units 3 and 7 were never allocated and the
	// sparse units hold the stage their own allocation gave them.
	units := m.Units()
	assert.False(t, units[3].HalfAllocated)
	assert.False(t, units[7].HalfAllocated)
	for _, i := range []int{0, 1, 2, 4, 5, 6} {
		assert.True(t, units[i].HalfAllocated)
		assert.Equal(t, StageRemember, units[i].Stage)
	}
}

func TestActiveSweepOverridesPartialState(t *testing.T) {
	// A plan that never allocates unit 3 still ends with every unit Active:
	// the sweep is unconditional.
	plan := ReferencePlan()
	plan.Active = nil

	m, err := NewMachine(referenceBuilder, plan, verdict.DefaultPolicy())
	require.NoError(t, err)
	require.NoError(t, m.Initialize(context.Background()))

	res, err := m.Run(context.Background())
	require.NoError(t, err)

	for i, u := range m.Units() {
		assert.Equal(t, StageActive, u.Stage, "unit %d not swept to active", i)
	}

	// Only 6 of 8 units were ever allocated, which still confirms.
	assert.Equal(t, 6, res.ConfirmedUnits)
	assert.Equal(t, verdict.Confirmed, res.Verdict)

	assert.False(t, m.Units()[3].HalfAllocated)
	assert.False(t, m.Units()[7].HalfAllocated)
}

func TestVerdictFollowsPolicy(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*Plan)
		want     verdict.Verdict
		confirms int
	}{
		{
			name:     "five allocations are indeterminate",
			mutate:   func(p *Plan) { p.Active = nil; p.Remember = p.Remember[:2] },
			want:     verdict.Indeterminate,
			confirms: 5,
		},
		{
			name:     "two allocations are rejected",
			mutate:   func(p *Plan) { p.Active = nil; p.Remember = nil; p.Sparse = p.Sparse[:2] },
			want:     verdict.Rejected,
			confirms: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := ReferencePlan()
			tc.mutate(&plan)

			m, err := NewMachine(referenceBuilder, plan, verdict.DefaultPolicy())
			require.NoError(t, err)
			require.NoError(t, m.Initialize(context.Background()))

			res, err := m.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.confirms, res.ConfirmedUnits)
			assert.Equal(t, tc.want, res.Verdict)
		})
	}
}

func TestInitializeResetsState(t *testing.T) {
	m := newReferenceMachine(t, referenceBuilder)

	_, err := m.Run(context.Background())
	require.NoError(t, err)

	// Re-initializing hands the machine a fresh population and graph.
	require.NoError(t, m.Initialize(context.Background()))
	for _, u := range m.Units() {
		assert.Equal(t, StageSparse, u.Stage)
		assert.False(t, u.HalfAllocated)
	}
}
