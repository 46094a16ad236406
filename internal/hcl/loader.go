package hcl

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/fibbench/internal/config"
	"github.com/vk/fibbench/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the decoding target for a configuration file.
type fileRoot struct {
	Script      *string   `hcl:"script,optional"`
	Number      cty.Value `hcl:"number,optional"`
	BuiltinPath *string   `hcl:"builtin_path,optional"`
	Entry       *string   `hcl:"entry,optional"`
	Suite       *string   `hcl:"suite,optional"`
	Cases       []string  `hcl:"cases,optional"`
	Format      *string   `hcl:"format,optional"`
	Summary     *bool     `hcl:"summary,optional"`
	PublishURL  *string   `hcl:"publish_url,optional"`

	PublishNamespace *string `hcl:"publish_namespace,optional"`
	PublishInsecure  *bool   `hcl:"publish_insecure,optional"`
	MaxCallStackSize *int    `hcl:"max_call_stack,optional"`
}

// Load parses and decodes a single HCL file.
func (l *Loader) Load(ctx context.Context, path string, environ []string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, newEvalContext(environ), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	number, err := translateNumber(root.Number)
	if err != nil {
		return nil, fmt.Errorf("invalid 'number' in %s: %w", path, err)
	}

	model := &config.Model{
		Script:      root.Script,
		Number:      number,
		BuiltinPath: root.BuiltinPath,
		Entry:       root.Entry,
		Suite:       root.Suite,
		Cases:       root.Cases,
		Format:      root.Format,
		Summary:     root.Summary,
		PublishURL:  root.PublishURL,

		PublishNamespace: root.PublishNamespace,
		PublishInsecure:  root.PublishInsecure,
		MaxCallStackSize: root.MaxCallStackSize,
	}
	logger.Debug("HCL loading complete.", "path", path, "number_set", number != nil, "cases", len(model.Cases))
	return model, nil
}

// newEvalContext exposes the environment and a handful of pure functions.
func newEvalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
		Functions: map[string]function.Function{
			"abs":      stdlib.AbsoluteFunc,
			"coalesce": stdlib.CoalesceFunc,
			"format":   stdlib.FormatFunc,
			"lower":    stdlib.LowerFunc,
			"max":      stdlib.MaxFunc,
			"min":      stdlib.MinFunc,
			"upper":    stdlib.UpperFunc,
		},
	}
}
