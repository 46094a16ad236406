package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vk/fibbench/internal/app"
	"github.com/vk/fibbench/internal/config"
	"github.com/vk/fibbench/internal/registry"
	"github.com/vk/fibbench/internal/report"
)

const (
	// EnvNumber carries the fibonacci argument.
	EnvNumber = "FIBONACCI_NUM"
	// EnvBuiltinPath locates the engine's builtin scripts.
	EnvBuiltinPath = "BUILTIN_PATH"
	// EnvNoColor disables colour in auto mode.
	EnvNoColor = "NO_COLOR"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. environ holds the process
// environment as "KEY=value" pairs and loader reads the -config file. It
// returns a populated Config, a boolean indicating if the program should exit
// cleanly, or an ExitError.
//
// Precedence, highest first: flags, environment, .env file, config file,
// defaults.
func Parse(args []string, output io.Writer, environ []string, loader config.Loader) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("fibbench", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
fibbench - times a fibonacci function in embedded script engines against native Go.

Usage:
  fibbench [options] [SCRIPT]

Arguments:
  SCRIPT
    JavaScript file to load (default "input.js").

Environment:
  FIBONACCI_NUM   fibonacci argument (overridden by -n)
  BUILTIN_PATH    .js file or directory evaluated before the script
  NO_COLOR        disable coloured titles when -color=auto

Options:
`)
		flagSet.PrintDefaults()
	}

	scriptFlag := flagSet.String("script", "input.js", "Path to the JavaScript file.")
	nFlag := flagSet.Int("n", 0, "Fibonacci argument. Overrides "+EnvNumber+".")
	configFlag := flagSet.String("config", "", "Path to an optional HCL configuration file.")
	envFileFlag := flagSet.String("env-file", ".env", "Dotenv file read before the environment. Skipped when absent.")
	builtinFlag := flagSet.String("builtin-path", "", "Builtin script file or directory. Overrides "+EnvBuiltinPath+".")
	entryFlag := flagSet.String("entry", "fibonacci", "Script function called by the js_entry case.")
	suiteFlag := flagSet.String("suite", string(registry.SuiteAll), "Cases to run: 'engine', 'native', or 'all'.")
	casesFlag := flagSet.String("cases", "", "Comma-separated case names to run within the suite.")
	formatFlag := flagSet.String("format", string(report.FormatText), "Report format: 'text' or 'json'.")
	colorFlag := flagSet.String("color", string(report.ColorAuto), "Colour titles: 'auto', 'always', or 'never'.")
	summaryFlag := flagSet.Bool("summary", false, "Print a fastest-first summary after the text report.")
	publishFlag := flagSet.String("publish-url", "", "socket.io server to stream measurements to.")
	namespaceFlag := flagSet.String("publish-namespace", "/", "socket.io namespace to publish on.")
	insecureFlag := flagSet.Bool("publish-insecure", false, "Skip TLS certificate verification when publishing.")
	stackFlag := flagSet.Int("max-call-stack", 0, "Maximum JS call stack depth. 0 keeps the engine default.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Abort the run after this long. 0 disables the limit.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if flagSet.NArg() > 1 {
		return nil, false, usageError("expected at most one SCRIPT argument, got %d", flagSet.NArg())
	}

	env, err := loadEnv(*envFileFlag, set["env-file"], environ)
	if err != nil {
		return nil, false, err
	}

	var file config.Model
	if *configFlag != "" {
		loaded, err := loader.Load(context.Background(), *configFlag, flatten(env))
		if err != nil {
			return nil, false, usageError("%v", err)
		}
		file = *loaded
		slog.Debug("Configuration file loaded.", "path", *configFlag)
	}

	// Script: flag, positional argument, config file, default.
	scriptPath := *scriptFlag
	switch {
	case set["script"]:
	case flagSet.NArg() == 1:
		scriptPath = flagSet.Arg(0)
	case file.Script != nil:
		scriptPath = *file.Script
	}

	n, err := resolveNumber(*nFlag, set["n"], env, file.Number)
	if err != nil {
		return nil, false, err
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	var cases []string
	if set["cases"] || *casesFlag != "" {
		cases = splitList(*casesFlag)
	} else {
		cases = file.Cases
	}

	cfg, err := app.NewConfig(app.Config{
		ScriptPath:  scriptPath,
		N:           n,
		BuiltinPath: pick(*builtinFlag, set["builtin-path"], env[EnvBuiltinPath], file.BuiltinPath),
		Entry:       pick(*entryFlag, set["entry"], "", file.Entry),
		EntrySet:    set["entry"] || file.Entry != nil,
		Suite:       registry.Suite(strings.ToLower(pick(*suiteFlag, set["suite"], "", file.Suite))),
		Cases:       cases,
		Format:      report.Format(strings.ToLower(pick(*formatFlag, set["format"], "", file.Format))),
		Color:       report.ColorMode(strings.ToLower(*colorFlag)),
		NoColor:     env[EnvNoColor] != "",
		Summary:     pickBool(*summaryFlag, set["summary"], file.Summary),
		PublishURL:  pick(*publishFlag, set["publish-url"], "", file.PublishURL),

		PublishNamespace: pick(*namespaceFlag, set["publish-namespace"], "", file.PublishNamespace),
		PublishInsecure:  pickBool(*insecureFlag, set["publish-insecure"], file.PublishInsecure),
		MaxCallStackSize: pickInt(*stackFlag, set["max-call-stack"], file.MaxCallStackSize),
		Timeout:          *timeoutFlag,
		LogFormat:        logFormat,
		LogLevel:         logLevel,
	})
	if err != nil {
		return nil, false, usageError("%v", err)
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

// loadEnv merges the dotenv file under the process environment. A missing
// file is only an error when the user named it.
func loadEnv(path string, explicit bool, environ []string) (map[string]string, error) {
	env := make(map[string]string, len(environ))
	if path != "" {
		fromFile, err := godotenv.Read(path)
		switch {
		case err == nil:
			for k, v := range fromFile {
				env[k] = v
			}
			slog.Debug("Env file loaded.", "path", path, "vars", len(fromFile))
		case errors.Is(err, fs.ErrNotExist) && !explicit:
			slog.Debug("No env file found.", "path", path)
		default:
			return nil, usageError("failed to read env file %s: %v", path, err)
		}
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k != "" {
			env[k] = v
		}
	}
	return env, nil
}

func flatten(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}

func resolveNumber(flagValue int, flagSet bool, env map[string]string, fromFile *int) (int, error) {
	if flagSet {
		return flagValue, nil
	}
	if raw, ok := env[EnvNumber]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, usageError("invalid %s %q: must be a whole number", EnvNumber, raw)
		}
		return n, nil
	}
	if fromFile != nil {
		return *fromFile, nil
	}
	return 0, usageError("no fibonacci number given: set %s or pass -n", EnvNumber)
}

// pick chooses a flag if it was set explicitly, then a non-empty environment
// value, then the config file, then the flag's default.
func pick(flagValue string, flagSet bool, envValue string, fromFile *string) string {
	switch {
	case flagSet:
		return flagValue
	case envValue != "":
		return envValue
	case fromFile != nil:
		return *fromFile
	}
	return flagValue
}

func pickBool(flagValue, flagSet bool, fromFile *bool) bool {
	if !flagSet && fromFile != nil {
		return *fromFile
	}
	return flagValue
}

func pickInt(flagValue int, flagSet bool, fromFile *int) int {
	if !flagSet && fromFile != nil {
		return *fromFile
	}
	return flagValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
