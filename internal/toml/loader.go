package toml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/OWNER/ringboot/internal/boot"
	"github.com/OWNER/ringboot/internal/ctxlog"
	"github.com/OWNER/ringboot/internal/fsutil"
	"github.com/OWNER/ringboot/internal/interdep"
	"github.com/OWNER/ringboot/internal/profile"
	"github.com/OWNER/ringboot/internal/topology"
	"github.com/OWNER/ringboot/internal/verdict"
)

// profileSchema mirrors the TOML document layout.
type profileSchema struct {
	Name         string                 `toml:"name"`
	Units        int                    `toml:"units"`
	Verification *verificationTable     `toml:"verification"`
	Phase        map[string][]unitEntry `toml:"phase"`
	Nodes        []nodeEntry            `toml:"node"`
}

type verificationTable struct {
	ConfirmAt   int `toml:"confirm_at"`
	RejectBelow int `toml:"reject_below"`
}

type unitEntry struct {
	Index       int    `toml:"index"`
	Orientation string `toml:"orientation"`
}

type nodeEntry struct {
	Name      string `toml:"name"`
	ID        int    `toml:"id"`
	Tier      string `toml:"tier"`
	Root      bool   `toml:"root"`
	DependsOn []int  `toml:"depends_on"`
}

// Loader is the TOML implementation of profile.Loader.
type Loader struct{}

// NewLoader creates a TOML profile loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a profile from a .toml file. A directory is accepted when it
// contains exactly one profile file.
func (l *Loader) Load(ctx context.Context, path string) (*profile.Model, error) {
	logger := ctxlog.FromContext(ctx)

	file, err := profileFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Parsing TOML profile.", "file", file)

	var schema profileSchema
	md, err := toml.DecodeFile(file, &schema)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("profile %s has unknown keys: %v", file, undecoded)
	}

	model, err := translate(&schema)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", file, err)
	}
	if model.Name == "" {
		model.Name = strings.TrimSuffix(filepath.Base(file), ".toml")
	}

	logger.Info("Profile loaded.", "name", model.Name, "units", model.Plan.Units, "nodes", len(model.Nodes))
	return model, nil
}

func profileFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("profile path: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	files, err := fsutil.FindFilesByExtension(path, ".toml")
	if err != nil {
		return "", fmt.Errorf("scanning profile directory: %w", err)
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no .toml profile files found in %s", path)
	case 1:
		return files[0], nil
	}
	return "", fmt.Errorf("TOML profiles do not merge; found %d files in %s", len(files), path)
}

func translate(schema *profileSchema) (*profile.Model, error) {
	if schema.Units <= 0 {
		return nil, fmt.Errorf("units must be positive, got %d", schema.Units)
	}

	policy := verdict.DefaultPolicy()
	if schema.Verification != nil {
		policy = verdict.Policy{
			ConfirmAt:   schema.Verification.ConfirmAt,
			RejectBelow: schema.Verification.RejectBelow,
		}
	}

	plan := boot.Plan{Units: schema.Units}
	for name, entries := range schema.Phase {
		assignments, err := translateAssignments(name, entries)
		if err != nil {
			return nil, err
		}
		switch name {
		case "sparse":
			plan.Sparse = assignments
		case "remember":
			plan.Remember = assignments
		case "active":
			plan.Active = assignments
		default:
			return nil, fmt.Errorf("phase %q does not allocate units (want sparse, remember or active)", name)
		}
	}

	nodes, err := translateNodes(schema.Nodes)
	if err != nil {
		return nil, err
	}

	return &profile.Model{
		Name:   schema.Name,
		Plan:   plan,
		Policy: policy,
		Nodes:  nodes,
	}, nil
}

func translateAssignments(phase string, entries []unitEntry) ([]boot.Assignment, error) {
	assignments := make([]boot.Assignment, 0, len(entries))
	for _, e := range entries {
		orientation, err := boot.ParseOrientation(e.Orientation)
		if err != nil {
			return nil, fmt.Errorf("phase %q unit %d: %w", phase, e.Index, err)
		}
		assignments = append(assignments, boot.Assignment{Unit: e.Index, Orientation: orientation})
	}
	return assignments, nil
}

func translateNodes(entries []nodeEntry) ([]topology.Spec, error) {
	specs := make([]topology.Spec, 0, len(entries))
	for _, e := range entries {
		tier, err := interdep.ParseTier(e.Tier)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", e.Name, err)
		}
		if e.ID < 0 || e.ID > 255 {
			return nil, fmt.Errorf("node %q: id %d out of range", e.Name, e.ID)
		}
		spec := topology.Spec{
			ID:   uint8(e.ID),
			Name: e.Name,
			Tier: tier,
			Root: e.Root,
		}
		for _, dep := range e.DependsOn {
			if dep < 0 || dep > 255 {
				return nil, fmt.Errorf("node %q: dependency id %d out of range", e.Name, dep)
			}
			spec.DependsOn = append(spec.DependsOn, uint8(dep))
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
