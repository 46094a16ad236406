// Package native registers the compiled Go fibonacci cases.
package native

import (
	"context"
	"fmt"

	"github.com/vk/fibbench/internal/fib"
	"github.com/vk/fibbench/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func prepare(fn func(n int) uint64) func(context.Context, *registry.Env) (registry.Runner, error) {
	return func(_ context.Context, env *registry.Env) (registry.Runner, error) {
		if env.N < 0 || env.N > fib.MaxN {
			return nil, fmt.Errorf("n=%d is outside [0, %d]", env.N, fib.MaxN)
		}
		n := env.N
		return registry.RunnerFunc(func(context.Context) (uint64, error) {
			return fn(n), nil
		}), nil
	}
}

func prepareLookup(_ context.Context, env *registry.Env) (registry.Runner, error) {
	n := env.N
	return registry.RunnerFunc(func(context.Context) (uint64, error) {
		v, ok := fib.Lookup(n)
		if !ok {
			return 0, fmt.Errorf("n=%d is outside the generated table", n)
		}
		return v, nil
	}), nil
}

// Register registers the cases with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCase("native_recursive", &registry.RegisteredCase{
		Suite:   registry.SuiteNative,
		Title:   "native recursive fibonacci",
		Order:   1,
		Prepare: prepare(fib.Recursive),
	})
	r.RegisterCase("native_tail_recursive", &registry.RegisteredCase{
		Suite:   registry.SuiteNative,
		Title:   "native tail recursive fibonacci",
		Order:   2,
		Prepare: prepare(fib.TailRecursive),
	})
	r.RegisterCase("native_iterative", &registry.RegisteredCase{
		Suite:   registry.SuiteNative,
		Title:   "native iterative fibonacci",
		Order:   3,
		Prepare: prepare(fib.Iterative),
	})
	r.RegisterCase("native_table", &registry.RegisteredCase{
		Suite:   registry.SuiteNative,
		Title:   "native table fibonacci",
		Order:   4,
		Prepare: prepareLookup,
	})
}
