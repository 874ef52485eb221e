package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/ryotapoi/reimport/internal/core"
)

func locateCommand() *cli.Command {
	return &cli.Command{
		Name:      "locate",
		Usage:     "print where a file lives after the restructuring",
		ArgsUsage: "<path>",
		Flags:     []cli.Flag{rootFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("locate takes exactly one path")
			}
			root, err := filepath.Abs(cmd.String("root"))
			if err != nil {
				return err
			}
			cfg, err := core.LoadConfig(root)
			if err != nil {
				return err
			}
			tables, err := cfg.RelocationTables(root)
			if err != nil {
				return fmt.Errorf("%s: %w", core.ConfigFileName, err)
			}

			p := cmd.Args().First()
			if !filepath.IsAbs(p) {
				p = filepath.Join(root, p)
			}
			fmt.Fprintln(cmd.Root().Writer, displayPath(root, core.Locate(filepath.Clean(p), tables)))
			return nil
		},
	}
}
