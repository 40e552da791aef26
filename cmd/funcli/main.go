package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/funcli/internal/app"
	"github.com/vk/funcli/internal/binder"
	"github.com/vk/funcli/internal/cli"
)

// main is the entrypoint for the funcli tool.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	funcliApp := app.NewApp(outW, errW, appConfig)
	err = funcliApp.Run(context.Background())

	// The binder has already printed the usage diagnostic.
	var usageErr *binder.UsageError
	if errors.As(err, &usageErr) {
		return &cli.ExitError{Code: usageErr.ExitCode()}
	}
	return err
}
