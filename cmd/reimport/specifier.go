package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/ryotapoi/reimport/internal/core"
)

func formatCommand() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "print the relative specifier one file uses to import another",
		ArgsUsage: "<from> <to>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return fmt.Errorf("format takes exactly two paths")
			}
			from, err := filepath.Abs(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			to, err := filepath.Abs(cmd.Args().Get(1))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, core.FormatImportPath(from, to))
			return nil
		},
	}
}
