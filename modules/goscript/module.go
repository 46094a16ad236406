// Package goscript registers cases that run fibonacci as Go source inside the
// yaegi interpreter.
package goscript

import (
	"context"

	"github.com/vk/fibbench/internal/registry"
	"github.com/vk/fibbench/internal/script"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func prepare(name string) func(context.Context, *registry.Env) (registry.Runner, error) {
	return func(_ context.Context, env *registry.Env) (registry.Runner, error) {
		in, err := script.NewGo()
		if err != nil {
			return nil, err
		}
		fn, err := in.Func(name)
		if err != nil {
			return nil, err
		}
		n := env.N
		return registry.RunnerFunc(func(context.Context) (uint64, error) {
			return fn(n), nil
		}), nil
	}
}

// Register registers the cases with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCase("yaegi_recursive", &registry.RegisteredCase{
		Suite:   registry.SuiteEngine,
		Title:   "yaegi recursive fibonacci",
		Order:   10,
		Prepare: prepare("RecursiveFibonacci"),
	})
	r.RegisterCase("yaegi_tail_recursive", &registry.RegisteredCase{
		Suite:   registry.SuiteEngine,
		Title:   "yaegi tail recursive fibonacci",
		Order:   11,
		Prepare: prepare("TailRecursiveFibonacci"),
	})
}
