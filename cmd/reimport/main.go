package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/urfave/cli/v3"

	"github.com/ryotapoi/reimport/internal/core"
	"github.com/ryotapoi/reimport/internal/logging"
)

var version = "dev"

func main() {
	cfg, err := logging.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := rootCommand(logger, os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCommand(logger *slog.Logger, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:            "reimport",
		Usage:           "rewrite relative imports for a planned file restructuring",
		Version:         buildVersion(),
		Writer:          stdout,
		HideHelpCommand: true,
		Commands: []*cli.Command{
			applyCommand(logger),
			undoCommand(),
			locateCommand(),
			formatCommand(),
		},
	}
}

func buildVersion() string {
	v := version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return v
}

// rootFlag is the project root shared by the commands that read the plan.
func rootFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "root",
		Value: ".",
		Usage: "project root containing " + core.ConfigFileName,
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Value: "text",
		Usage: "output format (json or text)",
	}
}
