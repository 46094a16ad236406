package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/fibbench/internal/bench"
	"github.com/vk/fibbench/internal/ctxlog"
	"github.com/vk/fibbench/internal/publish"
	"github.com/vk/fibbench/internal/registry"
	"github.com/vk/fibbench/internal/report"
)

// Run executes every selected case once and reports each measurement as soon
// as it is taken.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	source, err := os.ReadFile(a.config.ScriptPath)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	a.logger.Debug("Script loaded.", "path", a.config.ScriptPath, "bytes", len(source))

	cases, err := a.registry.Select(a.config.Suite, a.config.Cases)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		a.logger.Warn("No cases selected, nothing to measure.", "suite", a.config.Suite)
		return nil
	}

	useColor := report.ResolveColor(a.config.Color, a.outW, a.config.NoColor)
	writer, err := report.New(a.config.Format, a.outW, useColor)
	if err != nil {
		return err
	}

	var pub *publish.Publisher
	if a.config.PublishURL != "" {
		pub, err = publish.Dial(ctx, a.config.PublishURL, publish.Options{
			Namespace:          a.config.PublishNamespace,
			InsecureSkipVerify: a.config.PublishInsecure,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := pub.Close(); err != nil {
				a.logger.Warn("Failed to close publisher.", "error", err)
			}
		}()
		a.logger.Info("Publishing measurements.", "url", a.config.PublishURL)
	}

	env := &registry.Env{
		ScriptPath:  a.config.ScriptPath,
		Source:      source,
		BuiltinPath: a.config.BuiltinPath,
		N:           a.config.N,
		Entry:       a.config.Entry,
		EntrySet:    a.config.EntrySet,

		MaxCallStackSize: a.config.MaxCallStackSize,
	}

	var results []bench.Measurement
	for _, c := range cases {
		m, err := a.runCase(ctx, c, env)
		if errors.Is(err, registry.ErrSkipCase) {
			a.logger.Info("Case skipped.", "case", c.Name, "reason", err)
			continue
		}
		if err != nil {
			return err
		}

		if err := writer.Write(m); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if pub != nil {
			if err := pub.Publish(m); err != nil {
				a.logger.Warn("Failed to publish measurement.", "case", m.Name, "error", err)
			}
		}
		results = append(results, m)
	}

	if a.config.Summary {
		if err := report.WriteSummary(a.outW, results); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	a.logger.Debug("App.Run method finished.", "measured", len(results))
	return nil
}

// runCase prepares c outside the timed region, measures its runner and
// releases any engine it holds.
func (a *App) runCase(ctx context.Context, c registry.NamedCase, env *registry.Env) (bench.Measurement, error) {
	ctx = ctxlog.With(ctx, "case", c.Name)
	logger := ctxlog.FromContext(ctx)

	logger.Debug("Preparing case.")
	runner, err := c.Prepare(ctx, env)
	if err != nil {
		if errors.Is(err, registry.ErrSkipCase) {
			return bench.Measurement{}, err
		}
		return bench.Measurement{}, fmt.Errorf("failed to prepare case %s: %w", c.Name, err)
	}
	if closer, ok := runner.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn("Failed to release case resources.", "error", err)
			}
		}()
	}

	m, err := bench.Measure(ctx, a.clock, c.Name, runner.Run)
	if err != nil {
		return bench.Measurement{}, err
	}
	m.Title = c.Title
	m.N = env.N
	logger.Info("Case measured.", "result", m.Result, "elapsed", m.Elapsed)
	return m, nil
}
