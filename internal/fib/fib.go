// Package fib holds the native fibonacci implementations the script engines
// are compared against.
package fib

//go:generate go run ../../cmd/fibgen -o table_gen.go

// MaxN is the largest argument whose fibonacci number fits in a uint64.
const MaxN = 93

// Recursive is the naive doubly recursive definition.
func Recursive(n int) uint64 {
	if n == 0 {
		return 0
	}
	if n == 1 {
		return 1
	}
	return Recursive(n-2) + Recursive(n-1)
}

// TailRecursive carries the two previous values down the call chain, so each
// call does constant work.
func TailRecursive(n int) uint64 {
	if n == 0 {
		return 0
	}
	if n == 1 {
		return 1
	}
	return tailRecursive(n, 0, 1)
}

func tailRecursive(n int, first, second uint64) uint64 {
	result := first + second
	if n == 2 {
		return result
	}
	return tailRecursive(n-1, second, result)
}

// Iterative walks the sequence with two accumulators.
func Iterative(n int) uint64 {
	var a, b uint64 = 0, 1
	for i := 0; i < n; i++ {
		a, b = b, a+b
	}
	return a
}

// Lookup returns the pre-generated value for n. The second result is false
// when n is outside [0, MaxN].
func Lookup(n int) (uint64, bool) {
	if n < 0 || n > MaxN {
		return 0, false
	}
	return Table[n], true
}
