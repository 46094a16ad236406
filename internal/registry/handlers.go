package registry

import (
	"context"
	"fmt"
	"log/slog"
)

// RegisteredCase holds the compiled Go parts of one benchmark case.
type RegisteredCase struct {
	Suite Suite
	// Title is the heading printed above the case's result.
	Title string
	// Order positions the case inside its suite.
	Order int
	// Prepare does the untimed setup and returns the timed runner.
	Prepare func(ctx context.Context, env *Env) (Runner, error)
}

// RegisterCase registers a case under a unique name.
func (r *Registry) RegisterCase(name string, c *RegisteredCase) {
	if _, exists := r.CaseRegistry[name]; exists {
		panic(fmt.Sprintf("case with name '%s' already registered", name))
	}
	slog.Debug("Registering case.", "name", name, "suite", c.Suite)
	r.CaseRegistry[name] = c
}
