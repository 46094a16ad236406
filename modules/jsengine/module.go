// Package jsengine registers the cases that run the benchmark script inside
// the goja JavaScript engine.
package jsengine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/fibbench/internal/ctxlog"
	"github.com/vk/fibbench/internal/registry"
	"github.com/vk/fibbench/internal/script"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// runner holds a compiled program and the runtime it will execute in.
type runner struct {
	engine *script.JS
	prog   *script.Program
}

// Run implements registry.Runner.
func (r *runner) Run(ctx context.Context) (uint64, error) {
	return r.engine.Run(ctx, r.prog)
}

// prepareCall builds a runner that calls entry(env.N) at the end of the
// script. When the script does not define entry the case is skipped, unless
// the user asked for that entry explicitly. numberOnly cases are skipped past
// script.MaxExactN, where a JS Number can no longer hold the result.
func prepareCall(entry func(env *registry.Env) (string, bool), numberOnly bool) func(context.Context, *registry.Env) (registry.Runner, error) {
	return func(ctx context.Context, env *registry.Env) (registry.Runner, error) {
		logger := ctxlog.FromContext(ctx)
		fn, required := entry(env)
		name := filepath.Base(env.ScriptPath)

		if numberOnly && env.N > script.MaxExactN {
			return nil, fmt.Errorf("%w: %s(%d) exceeds the exact range of a JS Number (n <= %d)", registry.ErrSkipCase, fn, env.N, script.MaxExactN)
		}

		engine, err := script.NewJS(script.JSOptions{
			BuiltinPath:      env.BuiltinPath,
			MaxCallStackSize: env.MaxCallStackSize,
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("JS engine created.", "builtins", len(engine.Prelude()))

		defined, err := engine.Defines(name, env.Source, fn)
		if err != nil {
			return nil, err
		}
		if !defined {
			if required {
				return nil, fmt.Errorf("%w: %s does not define %s()", script.ErrNotFound, env.ScriptPath, fn)
			}
			return nil, fmt.Errorf("%w: %s does not define %s()", registry.ErrSkipCase, env.ScriptPath, fn)
		}

		prog, err := engine.Compile(name, env.Source, fn, env.N)
		if err != nil {
			return nil, err
		}
		logger.Debug("Script compiled.", "entry", fn, "n", env.N)
		return &runner{engine: engine, prog: prog}, nil
	}
}

func fixed(fn string) func(*registry.Env) (string, bool) {
	return func(*registry.Env) (string, bool) { return fn, false }
}

// Register registers the cases with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCase("js_entry", &registry.RegisteredCase{
		Suite: registry.SuiteEngine,
		Title: "goja fibonacci",
		Order: 0,
		Prepare: prepareCall(func(env *registry.Env) (string, bool) {
			return env.Entry, env.EntrySet
		}, false),
	})
	r.RegisterCase("js_recursive", &registry.RegisteredCase{
		Suite:   registry.SuiteEngine,
		Title:   "goja recursive fibonacci",
		Order:   1,
		Prepare: prepareCall(fixed("recursive_fibonacci"), true),
	})
	r.RegisterCase("js_tail_recursive", &registry.RegisteredCase{
		Suite:   registry.SuiteEngine,
		Title:   "goja tail recursive fibonacci",
		Order:   2,
		Prepare: prepareCall(fixed("tail_recursive_fibonacci"), true),
	})
}
