package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/fibbench/internal/ctxlog"
)

// ValidateRegistry checks every registration is usable before anything runs.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	names := make([]string, 0, len(r.CaseRegistry))
	for name := range r.CaseRegistry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := r.CaseRegistry[name]
		if c == nil {
			errs = append(errs, fmt.Sprintf("case '%s': registration is nil", name))
			continue
		}
		if c.Suite != SuiteEngine && c.Suite != SuiteNative {
			errs = append(errs, fmt.Sprintf("case '%s': suite must be '%s' or '%s', got '%s'", name, SuiteEngine, SuiteNative, c.Suite))
		}
		if c.Prepare == nil {
			errs = append(errs, fmt.Sprintf("case '%s': Prepare is nil", name))
		}
		if c.Title == "" {
			logger.Warn("Case has no title; its name will be printed instead.", "case", name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validated.", "cases", len(names))
	return nil
}
