package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inputJS = `function recursive_fibonacci(num) {
  if (num == 0) return 0;
  if (num == 1) return 1;
  return recursive_fibonacci(num - 2) + recursive_fibonacci(num - 1);
}

function tail_recursive_fibonacci(num) {
  if (num == 0) return 0;
  if (num == 1) return 1;
  return tail_recursive_fibonacci_impl(num, 0, 1);
}

function tail_recursive_fibonacci_impl(num, first, second) {
  var result = first + second;
  if (num == 2) return result;
  return tail_recursive_fibonacci_impl(num - 1, second, result);
}
`

func compileAndRun(t *testing.T, j *JS, src, entry string, n int) (uint64, error) {
	t.Helper()
	prog, err := j.Compile("input.js", []byte(src), entry, n)
	require.NoError(t, err)
	return j.Run(context.Background(), prog)
}

func TestJS_FibonacciOfTen(t *testing.T) {
	t.Parallel()

	for _, entry := range []string{"recursive_fibonacci", "tail_recursive_fibonacci"} {
		t.Run(entry, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			j, err := NewJS(JSOptions{})
			require.NoError(t, err)

			// --- Act ---
			got, err := compileAndRun(t, j, inputJS, entry, 10)

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, uint64(55), got)
		})
	}
}

func TestJS_LargeResultIsExact(t *testing.T) {
	t.Parallel()

	j, err := NewJS(JSOptions{})
	require.NoError(t, err)

	got, err := compileAndRun(t, j, inputJS, "tail_recursive_fibonacci", MaxExactN)
	require.NoError(t, err)
	assert.Equal(t, uint64(8944394323791464), got)
}

func TestJS_InexactNumberIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	j, err := NewJS(JSOptions{})
	require.NoError(t, err)

	// --- Act ---
	// fib(79) = 14472334024676221 is above 2^53-1; as a Number it rounds.
	_, err = compileAndRun(t, j, inputJS, "tail_recursive_fibonacci", MaxExactN+1)

	// --- Assert ---
	require.ErrorIs(t, err, ErrResult)
	require.Contains(t, err.Error(), "not exact")
}

func TestJS_BigIntResult(t *testing.T) {
	t.Parallel()

	src := `function fibonacci(n) {
  let a = 0n, b = 1n;
  for (let i = 0; i < n; i++) { const t = a + b; a = b; b = t; }
  return a;
}`
	j, err := NewJS(JSOptions{})
	require.NoError(t, err)

	got, err := compileAndRun(t, j, src, "fibonacci", 93)
	require.NoError(t, err)
	assert.Equal(t, uint64(12200160415121876738), got)

	got, err = compileAndRun(t, j, src, "fibonacci", 79)
	require.NoError(t, err)
	assert.Equal(t, uint64(14472334024676221), got)

	_, err = compileAndRun(t, j, src, "fibonacci", 94)
	require.ErrorIs(t, err, ErrResult)
}

func TestJS_CompileError(t *testing.T) {
	t.Parallel()

	j, err := NewJS(JSOptions{})
	require.NoError(t, err)

	_, err = j.Compile("broken.js", []byte("function ( {"), "fibonacci", 1)
	require.ErrorIs(t, err, ErrCompile)
	require.Contains(t, err.Error(), "broken.js")
}

func TestJS_RuntimeErrorForMissingEntry(t *testing.T) {
	t.Parallel()

	j, err := NewJS(JSOptions{})
	require.NoError(t, err)

	_, err = compileAndRun(t, j, inputJS, "fibonacci", 10)
	require.ErrorIs(t, err, ErrRuntime)
	require.Contains(t, err.Error(), "fibonacci")
}

func TestJS_NonNumericResult(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"string":   `function f(n) { return "x" + n; }`,
		"negative": `function f(n) { return -n; }`,
		"fraction": `function f(n) { return n / 3; }`,
		"nothing":  `function f(n) { }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			j, err := NewJS(JSOptions{})
			require.NoError(t, err)

			_, err = compileAndRun(t, j, src, "f", 4)
			require.ErrorIs(t, err, ErrResult)
		})
	}
}

func TestJS_ContextCancellationInterrupts(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	j, err := NewJS(JSOptions{})
	require.NoError(t, err)
	prog, err := j.Compile("loop.js", []byte(`function spin(n) { for (;;) {} }`), "spin", 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// --- Act ---
	_, err = j.Run(ctx, prog)

	// --- Assert ---
	require.ErrorIs(t, err, ErrInterrupted)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestJS_PreludeFromBuiltinPath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01_alias.js"),
		[]byte(`function fibonacci(n) { return recursive_fibonacci(n); }`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00_base.js"), []byte(inputJS), 0644))

	// --- Act ---
	j, err := NewJS(JSOptions{BuiltinPath: dir})
	require.NoError(t, err)
	got, err := compileAndRun(t, j, "", "fibonacci", 12)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, uint64(144), got)
	assert.Len(t, j.Prelude(), 2)
}

func TestJS_BuiltinPathErrors(t *testing.T) {
	t.Parallel()

	_, err := NewJS(JSOptions{BuiltinPath: filepath.Join(t.TempDir(), "missing")})
	require.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.js"), []byte(`throw new Error("nope")`), 0644))
	_, err = NewJS(JSOptions{BuiltinPath: dir})
	require.ErrorIs(t, err, ErrRuntime)
}

func TestJS_Defines(t *testing.T) {
	t.Parallel()

	j, err := NewJS(JSOptions{})
	require.NoError(t, err)

	ok, err := j.Defines("input.js", []byte(inputJS), "recursive_fibonacci")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = j.Defines("input.js", []byte(inputJS), "fibonacci")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJS_MaxCallStackSize(t *testing.T) {
	t.Parallel()

	j, err := NewJS(JSOptions{MaxCallStackSize: 16})
	require.NoError(t, err)

	_, err = compileAndRun(t, j, inputJS, "tail_recursive_fibonacci", 50)
	require.ErrorIs(t, err, ErrRuntime)
}
