package native

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fibbench/internal/fib"
	"github.com/vk/fibbench/internal/registry"
)

func TestCases_FibonacciOfTen(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r := registry.New()
	(&Module{}).Register(r)
	env := &registry.Env{N: 10}

	for _, c := range r.Cases(registry.SuiteNative) {
		t.Run(c.Name, func(t *testing.T) {
			// --- Act ---
			runner, err := c.Prepare(context.Background(), env)
			require.NoError(t, err)
			got, err := runner.Run(context.Background())

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, uint64(55), got)
		})
	}
}

func TestCases_RegisteredInSuiteOrder(t *testing.T) {
	t.Parallel()

	r := registry.New()
	(&Module{}).Register(r)

	var names []string
	for _, c := range r.Cases(registry.SuiteAll) {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"native_recursive", "native_tail_recursive", "native_iterative", "native_table"}, names)
}

func TestCases_OutOfRange(t *testing.T) {
	t.Parallel()

	r := registry.New()
	(&Module{}).Register(r)

	_, err := r.CaseRegistry["native_iterative"].Prepare(context.Background(), &registry.Env{N: fib.MaxN + 1})
	require.Error(t, err)

	runner, err := r.CaseRegistry["native_table"].Prepare(context.Background(), &registry.Env{N: fib.MaxN + 1})
	require.NoError(t, err)
	_, err = runner.Run(context.Background())
	require.ErrorContains(t, err, "outside the generated table")
}
