package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Suite groups cases the way the harness has always been split: script engine
// runs versus native Go runs.
type Suite string

const (
	SuiteEngine Suite = "engine"
	SuiteNative Suite = "native"
	SuiteAll    Suite = "all"
)

// ParseSuite validates a suite name.
func ParseSuite(s string) (Suite, error) {
	switch Suite(s) {
	case SuiteEngine, SuiteNative, SuiteAll:
		return Suite(s), nil
	}
	return "", fmt.Errorf("unknown suite %q: must be 'engine', 'native', or 'all'", s)
}

// ErrSkipCase may be returned by Prepare when a case does not apply to the
// current input, for example a script that does not define its entry point.
var ErrSkipCase = errors.New("case skipped")

// ErrUnknownCase is returned by Select for names nobody registered.
var ErrUnknownCase = errors.New("unknown case")

// Module is the interface that all case modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Env is the read-only input shared by every case in a run.
type Env struct {
	ScriptPath  string
	Source      []byte
	BuiltinPath string
	N           int
	// Entry is the script function the js_entry case calls.
	Entry string
	// EntrySet is true when Entry was chosen explicitly rather than defaulted.
	EntrySet bool
	// MaxCallStackSize bounds JS recursion depth. Zero keeps the engine default.
	MaxCallStackSize int
}

// Runner performs the timed part of a case. Runners holding engine state may
// also implement io.Closer; they are closed once measured.
type Runner interface {
	Run(ctx context.Context) (uint64, error)
}

// RunnerFunc adapts a plain function to Runner.
type RunnerFunc func(ctx context.Context) (uint64, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context) (uint64, error) { return f(ctx) }

// Registry holds all the registered cases for a single application instance.
type Registry struct {
	CaseRegistry map[string]*RegisteredCase
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		CaseRegistry: make(map[string]*RegisteredCase),
	}
}

// NamedCase pairs a registered case with its name.
type NamedCase struct {
	Name string
	*RegisteredCase
}

// Cases returns the cases of a suite, engine cases first, then by Order and
// name.
func (r *Registry) Cases(suite Suite) []NamedCase {
	var out []NamedCase
	for name, c := range r.CaseRegistry {
		if suite != SuiteAll && c.Suite != suite {
			continue
		}
		out = append(out, NamedCase{Name: name, RegisteredCase: c})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Suite != b.Suite {
			return a.Suite == SuiteEngine
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Name < b.Name
	})
	return out
}

// Select narrows the suite's cases to names, keeping suite order. An empty
// names list selects the whole suite. Names outside the suite are errors.
func (r *Registry) Select(suite Suite, names []string) ([]NamedCase, error) {
	cases := r.Cases(suite)
	if len(names) == 0 {
		return cases, nil
	}

	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := r.CaseRegistry[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCase, name)
		}
		wanted[name] = struct{}{}
	}

	var out []NamedCase
	inSuite := make(map[string]struct{}, len(cases))
	for _, c := range cases {
		inSuite[c.Name] = struct{}{}
		if _, ok := wanted[c.Name]; ok {
			out = append(out, c)
		}
	}
	for _, name := range names {
		if _, ok := inSuite[name]; !ok {
			return nil, fmt.Errorf("case %q is not part of suite %q", name, suite)
		}
	}
	return out, nil
}
