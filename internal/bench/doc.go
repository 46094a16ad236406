// Package bench times a single operation and expresses the elapsed time in
// the three units the report prints. There is no repetition or warm-up: one
// call, two timestamps.
package bench
