package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the file at path. environ ("KEY=value" pairs) is made
	// available to expressions in the file.
	Load(ctx context.Context, path string, environ []string) (*Model, error)
}
