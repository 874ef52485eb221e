package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/ryotapoi/reimport/internal/core"
)

func applyCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "rewrite imports according to the plan, optionally moving the files",
		ArgsUsage: "[files...]",
		Flags: []cli.Flag{
			rootFlag(),
			formatFlag(),
			&cli.BoolFlag{Name: "move", Usage: "move the files after rewriting their imports"},
			&cli.BoolFlag{Name: "dry-run", Usage: "report changes without writing anything"},
			&cli.BoolFlag{Name: "no-journal", Usage: "do not record the run for undo"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return runApply(cmd, logger)
		},
	}
}

func runApply(cmd *cli.Command, logger *slog.Logger) error {
	format := cmd.String("format")
	if err := validateFormat(format); err != nil {
		return err
	}
	root, err := filepath.Abs(cmd.String("root"))
	if err != nil {
		return err
	}

	result, applyErr := core.Apply(root, core.ApplyOptions{
		Files:     cmd.Args().Slice(),
		Move:      cmd.Bool("move"),
		DryRun:    cmd.Bool("dry-run"),
		NoJournal: cmd.Bool("no-journal"),
		Logger:    logger,
	})
	if result == nil {
		return applyErr
	}

	w := cmd.Root().Writer
	switch format {
	case "json":
		if err := printApplyJSON(w, root, cmd.Bool("dry-run"), result); err != nil {
			return err
		}
	default:
		printApplyText(w, root, cmd.Bool("dry-run"), result)
	}
	if applyErr != nil {
		return applyErr
	}
	if failed := result.Run.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d file(s) could not be processed", len(failed))
	}
	return nil
}
