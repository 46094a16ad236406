package script

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"os"
	"strconv"

	"github.com/dop251/goja"
	"github.com/vk/fibbench/internal/fsutil"
)

// JSOptions configures a JS engine.
type JSOptions struct {
	// BuiltinPath is a .js file or a directory of .js files evaluated into
	// every runtime before the benchmark script. Empty means none.
	BuiltinPath string
	// MaxCallStackSize bounds recursion depth. Zero keeps goja's default.
	MaxCallStackSize int
}

// JS is one goja runtime with its prelude already evaluated.
type JS struct {
	vm      *goja.Runtime
	opts    JSOptions
	prelude []string
}

// Program is a compiled script ready to run.
type Program struct {
	Name string
	prog *goja.Program
}

// NewJS creates a runtime and evaluates the prelude files, if any.
func NewJS(opts JSOptions) (*JS, error) {
	prelude, err := fsutil.FindFilesByExtension(opts.BuiltinPath, ".js")
	if err != nil {
		return nil, fmt.Errorf("failed to locate builtin scripts: %w", err)
	}

	j := &JS{opts: opts, prelude: prelude}
	j.vm, err = j.newRuntime()
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (j *JS) newRuntime() (*goja.Runtime, error) {
	vm := goja.New()
	if j.opts.MaxCallStackSize > 0 {
		vm.SetMaxCallStackSize(j.opts.MaxCallStackSize)
	}
	for _, path := range j.prelude {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read builtin script: %w", err)
		}
		if _, err := vm.RunScript(path, string(src)); err != nil {
			return nil, fmt.Errorf("%w: builtin %s: %w", ErrRuntime, path, err)
		}
	}
	return vm, nil
}

// Prelude returns the builtin files evaluated into the runtime.
func (j *JS) Prelude() []string {
	return j.prelude
}

// Compile appends a call of entry with n to src, the way the harness has
// always invoked the script, and compiles the result.
func (j *JS) Compile(name string, src []byte, entry string, n int) (*Program, error) {
	full := string(src) + "\n" + entry + "(" + strconv.Itoa(n) + ");"
	prog, err := goja.Compile(name, full, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCompile, name, err)
	}
	return &Program{Name: name, prog: prog}, nil
}

// Defines reports whether src, evaluated on top of the prelude, declares a
// function called fn. The check runs in a scratch runtime so the engine's own
// state is untouched.
func (j *JS) Defines(name string, src []byte, fn string) (bool, error) {
	vm, err := j.newRuntime()
	if err != nil {
		return false, err
	}
	if _, err := vm.RunScript(name, string(src)); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrRuntime, name, err)
	}
	_, ok := goja.AssertFunction(vm.Get(fn))
	return ok, nil
}

// Run executes prog and returns its completion value. Cancelling ctx
// interrupts the runtime.
func (j *JS) Run(ctx context.Context, prog *Program) (uint64, error) {
	stop := context.AfterFunc(ctx, func() {
		j.vm.Interrupt(ctx.Err())
	})
	defer stop()

	v, err := j.vm.RunProgram(prog.prog)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			j.vm.ClearInterrupt()
			return 0, fmt.Errorf("%w: %s: %w", ErrInterrupted, prog.Name, context.Cause(ctx))
		}
		return 0, fmt.Errorf("%w: %s: %w", ErrRuntime, prog.Name, err)
	}
	return toUint64(v)
}

// MaxSafeInteger is the largest integer a JS Number holds exactly (2^53-1).
const MaxSafeInteger = 1<<53 - 1

// MaxExactN is the largest n whose fibonacci number fits MaxSafeInteger.
// Number-based scripts cannot return fib(n) exactly beyond it.
const MaxExactN = 78

// toUint64 accepts integer results up to MaxSafeInteger and BigInt results
// that fit a uint64. Larger Numbers have already lost precision and are
// rejected rather than reported as a wrong fibonacci number.
func toUint64(v goja.Value) (uint64, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0, fmt.Errorf("%w: got %v", ErrResult, v)
	}
	switch x := v.Export().(type) {
	case int64:
		if x < 0 || x > MaxSafeInteger {
			return 0, fmt.Errorf("%w: got %d", ErrResult, x)
		}
		return uint64(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 || x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: got %v", ErrResult, x)
		}
		if x > MaxSafeInteger {
			return 0, fmt.Errorf("%w: %v exceeds 2^53-1 and is not exact, return a BigInt instead", ErrResult, x)
		}
		return uint64(x), nil
	case *big.Int:
		if x.Sign() < 0 || !x.IsUint64() {
			return 0, fmt.Errorf("%w: got %s", ErrResult, x)
		}
		return x.Uint64(), nil
	default:
		return 0, fmt.Errorf("%w: got %T %v", ErrResult, x, v)
	}
}
