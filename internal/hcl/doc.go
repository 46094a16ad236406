// Package hcl loads benchmark configuration written in HCL.
//
// Attribute values are full HCL expressions evaluated against a context that
// exposes the process environment as the object `env` plus a few cty standard
// library functions, so a file can say `number = env.FIBONACCI_NUM`.
package hcl
