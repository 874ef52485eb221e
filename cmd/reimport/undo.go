package main

import (
	"context"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/ryotapoi/reimport/internal/core"
)

func undoCommand() *cli.Command {
	return &cli.Command{
		Name:  "undo",
		Usage: "revert the latest journaled apply",
		Flags: []cli.Flag{rootFlag(), formatFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			format := cmd.String("format")
			if err := validateFormat(format); err != nil {
				return err
			}
			root, err := filepath.Abs(cmd.String("root"))
			if err != nil {
				return err
			}
			result, err := core.Undo(root)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer
			switch format {
			case "json":
				return printUndoJSON(w, root, result)
			default:
				printUndoText(w, root, result)
				return nil
			}
		},
	}
}
