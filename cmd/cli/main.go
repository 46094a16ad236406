package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/vk/fibbench/internal/app"
	"github.com/vk/fibbench/internal/cli"
	"github.com/vk/fibbench/internal/hcl"
)

// main is the entrypoint for the fibbench application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:], os.Environ()); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args, environ []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW, environ, hcl.NewLoader())
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on registry errors, so we recover here to provide a
	// clean message to the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked | %v", r)
		}
	}()

	fibApp := app.NewApp(outW, errW, appConfig)
	return fibApp.Run(ctx)
}
