package script

import (
	"fmt"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// goSource is evaluated into every Go interpreter.
const goSource = `package main

func RecursiveFibonacci(num int) uint64 {
	if num == 0 {
		return 0
	}
	if num == 1 {
		return 1
	}
	return RecursiveFibonacci(num-2) + RecursiveFibonacci(num-1)
}

func TailRecursiveFibonacci(num int) uint64 {
	if num == 0 {
		return 0
	}
	if num == 1 {
		return 1
	}
	return tailRecursiveFibonacci(num, 0, 1)
}

func tailRecursiveFibonacci(num int, first, second uint64) uint64 {
	result := first + second
	if num == 2 {
		return result
	}
	return tailRecursiveFibonacci(num-1, second, result)
}
`

// Go is a yaegi interpreter holding the fibonacci functions.
type Go struct {
	in *interp.Interpreter
}

// NewGo creates an interpreter and evaluates the built-in fibonacci source.
func NewGo() (*Go, error) {
	in := interp.New(interp.Options{})
	if err := in.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib symbols: %w", err)
	}
	if _, err := in.Eval(goSource); err != nil {
		return nil, fmt.Errorf("%w: go source: %w", ErrCompile, err)
	}
	return &Go{in: in}, nil
}

// Func resolves an exported function of the interpreted main package.
func (g *Go) Func(name string) (func(int) uint64, error) {
	v, err := g.in.Eval("main." + name)
	if err != nil {
		return nil, fmt.Errorf("%w: main.%s: %w", ErrNotFound, name, err)
	}
	fn, ok := v.Interface().(func(int) uint64)
	if !ok {
		return nil, fmt.Errorf("%w: main.%s has type %s", ErrNotFound, name, v.Type())
	}
	return fn, nil
}
