package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/fibbench/internal/fib"
	"github.com/vk/fibbench/internal/registry"
	"github.com/vk/fibbench/internal/report"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScriptPath  string
	N           int
	BuiltinPath string // engine data location, BUILTIN_PATH
	Entry       string
	EntrySet    bool

	Suite   registry.Suite
	Cases   []string
	Format  report.Format
	Color   report.ColorMode
	NoColor bool // NO_COLOR was set
	Summary bool

	PublishURL       string
	PublishNamespace string
	PublishInsecure  bool

	// MaxCallStackSize bounds JS recursion depth. Zero keeps goja's default.
	MaxCallStackSize int
	Timeout          time.Duration

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults for empty fields.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScriptPath == "" {
		return nil, errors.New("ScriptPath is a required configuration field and cannot be empty")
	}
	if cfg.N < 0 || cfg.N > fib.MaxN {
		return nil, fmt.Errorf("fibonacci number %d is out of range: must be between 0 and %d", cfg.N, fib.MaxN)
	}
	if cfg.Entry == "" {
		cfg.Entry = "fibonacci"
	}
	if cfg.Suite == "" {
		cfg.Suite = registry.SuiteAll
	}
	if _, err := registry.ParseSuite(string(cfg.Suite)); err != nil {
		return nil, err
	}
	if cfg.Format == "" {
		cfg.Format = report.FormatText
	}
	if _, err := report.ParseFormat(string(cfg.Format)); err != nil {
		return nil, err
	}
	if cfg.Color == "" {
		cfg.Color = report.ColorAuto
	}
	if _, err := report.ParseColorMode(string(cfg.Color)); err != nil {
		return nil, err
	}
	if cfg.Summary && cfg.Format != report.FormatText {
		return nil, fmt.Errorf("summary is only available with the %s format, got %s", report.FormatText, cfg.Format)
	}
	if cfg.MaxCallStackSize < 0 {
		return nil, fmt.Errorf("max call stack size must not be negative, got %d", cfg.MaxCallStackSize)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}
	return &cfg, nil
}
