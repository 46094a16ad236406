// Package script wraps the embedded engines the benchmark runs fibonacci in:
// goja for JavaScript and yaegi for interpreted Go.
//
// Engines separate setup from execution. Everything that happens before Run
// (creating the runtime, evaluating prelude files, compiling the program) is
// excluded from timing; Run is the only call the benchmark measures.
package script

import "errors"

var (
	// ErrCompile is returned when a source fails to parse or compile.
	ErrCompile = errors.New("script compile failed")
	// ErrRuntime is returned when executing a script throws.
	ErrRuntime = errors.New("script execution failed")
	// ErrResult is returned when a script completes with a value that is not
	// a non-negative integer.
	ErrResult = errors.New("script result is not a fibonacci number")
	// ErrInterrupted is returned when the context ends while a script runs.
	ErrInterrupted = errors.New("script interrupted")
	// ErrNotFound is returned when a requested function is not defined.
	ErrNotFound = errors.New("function not defined")
)
