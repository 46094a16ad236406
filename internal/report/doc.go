// Package report writes measurements. The text format is the harness's
// historical output: a title line followed by the result and the elapsed time
// in milliseconds, microseconds and nanoseconds, with a blank line between
// cases.
package report
