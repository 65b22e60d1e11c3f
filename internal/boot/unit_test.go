package boot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitAllocate(t *testing.T) {
	t.Run("fresh unit advances to remember", func(t *testing.T) {
		var u Unit
		u.allocate(Southwest)

		assert.Equal(t, Southwest, u.Orientation)
		assert.True(t, u.HalfAllocated)
		assert.Equal(t, StageRemember, u.Stage)
	})

	t.Run("stage never regresses", func(t *testing.T) {
		u := Unit{Stage: StageActive}
		u.allocate(East)

		assert.Equal(t, StageActive, u.Stage)
		assert.True(t, u.HalfAllocated)
	})
}

func TestParseOrientation(t *testing.T) {
	for o, name := range orientationNames {
		parsed, err := ParseOrientation(name)
		require.NoError(t, err)
		assert.Equal(t, o, parsed)
	}

	_, err := ParseOrientation("up")
	assert.Error(t, err)
}

func TestReferencePlan(t *testing.T) {
	plan := ReferencePlan()
	require.NoError(t, plan.Validate())

	assert.Equal(t, 8, plan.Units)
	assert.Len(t, plan.Sparse, 3)
	assert.Len(t, plan.Remember, 3)
	assert.Len(t, plan.Active, 2)

	// Every unit is allocated by exactly one phase.
	seen := make(map[int]bool)
	for _, a := range append(append(append([]Assignment{}, plan.Sparse...), plan.Remember...), plan.Active...) {
		assert.False(t, seen[a.Unit], "unit %d allocated twice", a.Unit)
		seen[a.Unit] = true
	}
	assert.Len(t, seen, 8)
}

func TestPlanValidate(t *testing.T) {
	assert.Error(t, Plan{Units: 0}.Validate())

	bad := ReferencePlan()
	bad.Active = append(bad.Active, Assignment{Unit: 8, Orientation: North})
	assert.Error(t, bad.Validate())
}
