package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OWNER/ringboot/internal/boot"
	"github.com/OWNER/ringboot/internal/profile"
	"github.com/OWNER/ringboot/internal/verdict"
)

func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalProfile = `
units = 4

[verification]
confirm_at   = 3
reject_below = 2

[[phase.sparse]]
index       = 0
orientation = "north"

[[phase.active]]
index       = 3
orientation = "west"

[[node]]
name = "core"
id   = 0
tier = "root"
root = true
`

func TestLoadSingleFile(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "mini.toml", minimalProfile)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "mini", model.Name)
	assert.Equal(t, 4, model.Plan.Units)
	assert.Equal(t, verdict.Policy{ConfirmAt: 3, RejectBelow: 2}, model.Policy)
	assert.Empty(t, cmp.Diff([]boot.Assignment{{Unit: 0, Orientation: boot.North}}, model.Plan.Sparse))
	assert.Empty(t, cmp.Diff([]boot.Assignment{{Unit: 3, Orientation: boot.West}}, model.Plan.Active))
	require.Len(t, model.Nodes, 1)
	assert.True(t, model.Nodes[0].Root)

	require.NoError(t, model.Validate())
}

func TestLoadReferenceProfileMatchesBuiltin(t *testing.T) {
	model, err := NewLoader().Load(context.Background(), filepath.Join("..", "..", "profiles", "reference.toml"))
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(profile.Reference(), model))
}

func TestLoadDirectory(t *testing.T) {
	t.Run("single file directory works", func(t *testing.T) {
		dir := t.TempDir()
		writeProfile(t, dir, "only.toml", minimalProfile)

		model, err := NewLoader().Load(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, "only", model.Name)
	})

	t.Run("multiple files are rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeProfile(t, dir, "a.toml", minimalProfile)
		writeProfile(t, dir, "b.toml", minimalProfile)

		_, err := NewLoader().Load(context.Background(), dir)
		assert.ErrorContains(t, err, "do not merge")
	})

	t.Run("empty directory is rejected", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), t.TempDir())
		assert.ErrorContains(t, err, "no .toml profile files")
	})
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("unknown keys are rejected", func(t *testing.T) {
		path := writeProfile(t, dir, "extra.toml", minimalProfile+"\nqubits = 12\n")
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "unknown keys")
	})

	t.Run("unknown phase", func(t *testing.T) {
		path := writeProfile(t, dir, "phase.toml", `
units = 1

[[phase.cooldown]]
index       = 0
orientation = "north"

[[node]]
name = "core"
id   = 0
tier = "root"
root = true
`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "does not allocate units")
	})

	t.Run("unknown orientation", func(t *testing.T) {
		path := writeProfile(t, dir, "orient.toml", `
units = 1

[[phase.sparse]]
index       = 0
orientation = "sideways"

[[node]]
name = "core"
id   = 0
tier = "root"
root = true
`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "unknown orientation")
	})
}
