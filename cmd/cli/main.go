package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/OWNER/ringboot/internal/app"
	"github.com/OWNER/ringboot/internal/cli"
	"github.com/OWNER/ringboot/internal/halt"
)

// main is the entrypoint for the ringboot binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. On a completed boot the OS halter exits the process with the
// verdict's status, so run only returns for setup failures.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	bootApp := app.New(outW, appConfig, halt.NewOS(outW))
	_, err = bootApp.Run(context.Background())
	return err
}
