package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/OWNER/ringboot/internal/boot"
	"github.com/OWNER/ringboot/internal/ctxlog"
	"github.com/OWNER/ringboot/internal/fsutil"
	"github.com/OWNER/ringboot/internal/interdep"
	"github.com/OWNER/ringboot/internal/profile"
	"github.com/OWNER/ringboot/internal/topology"
	"github.com/OWNER/ringboot/internal/verdict"
)

// Loader is the HCL implementation of profile.Loader.
type Loader struct{}

// NewLoader creates an HCL profile loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a profile from a single .hcl file or a directory of them. A
// directory's files are merged into one body before decoding, so a profile
// may keep its topology and its allocation schedule in separate files.
func (l *Loader) Load(ctx context.Context, path string) (*profile.Model, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := profileFiles(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Parsing HCL profile files.", "files", paths)

	parser := hclparse.NewParser()
	files := make([]*hcl.File, 0, len(paths))
	for _, p := range paths {
		file, diags := parser.ParseHCLFile(p)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", p, diags)
		}
		files = append(files, file)
	}

	var schema profileSchema
	if diags := gohcl.DecodeBody(hcl.MergeFiles(files), nil, &schema); diags.HasErrors() {
		return nil, fmt.Errorf("decoding profile %s: %w", path, diags)
	}

	model, err := translate(&schema)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	if model.Name == "" {
		model.Name = strings.TrimSuffix(filepath.Base(path), ".hcl")
	}

	logger.Info("Profile loaded.", "name", model.Name, "units", model.Plan.Units, "nodes", len(model.Nodes))
	return model, nil
}

// profileFiles resolves a path into the list of .hcl files to parse.
func profileFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("profile path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("scanning profile directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl profile files found in %s", path)
	}
	return files, nil
}

// translate converts the decoded schema into the agnostic model.
func translate(schema *profileSchema) (*profile.Model, error) {
	if schema.Units <= 0 {
		return nil, fmt.Errorf("units must be positive, got %d", schema.Units)
	}

	policy, err := translatePolicy(schema)
	if err != nil {
		return nil, err
	}

	plan := boot.Plan{Units: schema.Units}
	for _, block := range schema.Phases {
		assignments, err := translateAssignments(block)
		if err != nil {
			return nil, err
		}
		switch block.Name {
		case "sparse":
			plan.Sparse = append(plan.Sparse, assignments...)
		case "remember":
			plan.Remember = append(plan.Remember, assignments...)
		case "active":
			plan.Active = append(plan.Active, assignments...)
		default:
			return nil, fmt.Errorf("phase %q does not allocate units (want sparse, remember or active)", block.Name)
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

// translatePolicy evaluates the threshold expressions with the unit
// population in scope.
func translatePolicy(schema *profileSchema) (verdict.Policy, error) {
	if schema.Verification == nil {
		return verdict.DefaultPolicy(), nil
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"units": cty.NumberIntVal(int64(schema.Units)),
		},
	}

	confirmAt, err := intAttr(schema.Verification.ConfirmAt, "confirm_at", evalCtx)
	if err != nil {
		return verdict.Policy{}, err
	}
	rejectBelow, err := intAttr(schema.Verification.RejectBelow, "reject_below", evalCtx)
	if err != nil {
		return verdict.Policy{}, err
	}

	return verdict.Policy{ConfirmAt: confirmAt, RejectBelow: rejectBelow}, nil
}

// intAttr evaluates an expression and converts the result to a Go int.
func intAttr(expr hcl.Expression, name string, evalCtx *hcl.EvalContext) (int, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return 0, fmt.Errorf("evaluating %s: %w", name, diags)
	}
	var out int
	if err := gocty.FromCtyValue(val, &out); err != nil {
		return 0, fmt.Errorf("%s must be a whole number: %w", name, err)
	}
	return out, nil
}

func translateAssignments(block *phaseBlock) ([]boot.Assignment, error) {
	assignments := make([]boot.Assignment, 0, len(block.Units))
	for _, u := range block.Units {
		orientation, err := boot.ParseOrientation(u.Orientation)
		if err != nil {
			return nil, fmt.Errorf("phase %q unit %d: %w", block.Name, u.Index, err)
		}
		assignments = append(assignments, boot.Assignment{Unit: u.Index, Orientation: orientation})
	}
	return assignments, nil
}

func translateNodes(blocks []*nodeBlock) ([]topology.Spec, error) {
	specs := make([]topology.Spec, 0, len(blocks))
	for _, block := range blocks {
		tier, err := interdep.ParseTier(block.Tier)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", block.Name, err)
		}
		if block.ID < 0 || block.ID > 255 {
			return nil, fmt.Errorf("node %q: id %d out of range", block.Name, block.ID)
		}
		spec := topology.Spec{
			ID:   uint8(block.ID),
			Name: block.Name,
			Tier: tier,
			Root: block.Root,
		}
		for _, dep := range block.DependsOn {
			if dep < 0 || dep > 255 {
				return nil, fmt.Errorf("node %q: dependency id %d out of range", block.Name, dep)
			}
			spec.DependsOn = append(spec.DependsOn, uint8(dep))
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
