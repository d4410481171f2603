package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/coposim/coposim/internal/catalog"
	"github.com/coposim/coposim/internal/cli"
	"github.com/coposim/coposim/internal/ctxlog"
)

// main is the entrypoint for the coposim catalog tool.
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
// handling.
func run(outW io.Writer, args []string) error {
	config, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := ctxlog.New(config.LogLevel, config.LogFormat, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Loading catalog.", "path", config.CatalogPath)

	src, err := os.ReadFile(config.CatalogPath)
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}

	cat, err := catalog.Parse(ctx, config.CatalogPath, src)
	if err != nil {
		return fmt.Errorf("parsing catalog: %w", err)
	}

	for _, codename := range cat.Codenames() {
		v := cat.MustVariable(codename)
		line := fmt.Sprintf("%s\t%s", codename, v.Name())
		if sym := v.Unit().Symbol; sym != "" {
			line += fmt.Sprintf(" [%s]", sym)
		}
		fmt.Fprintln(outW, line)
	}
	return nil
}
