package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/vk/decisim/internal/cli"
)

// main is the entrypoint for the decisim binary.
func main() {
	// Use a minimal logger until the app configures the real one.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	return cli.New(os.Stdout, os.Stderr).Execute()
}
