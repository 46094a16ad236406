// Package config defines the format-agnostic model of a benchmark
// configuration file and the Loader interface that produces it.
//
// Every field is optional; command-line flags and environment variables
// override whatever a file sets. The HCL implementation lives in package hcl.
package config
