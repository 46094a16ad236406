// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the benchmark lifecycle (read the script,
// prepare each case, time it, report it), decoupled from any specific
// entrypoint like a CLI.
package app
