// Package status provides the health and diagnostics sub-commands.
package status

import (
	"context"

	"github.com/hivemind/memory-store/internal/cmd/runtime"
	"github.com/urfave/cli/v3"
)

// Command returns the status sub-command.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Report record counts and semantic side health",
		Flags: runtime.Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, mgr, err := runtime.OpenManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			report, err := mgr.Status(ctx)
			if err != nil {
				return err
			}
			return runtime.PrintJSON(report)
		},
	}
}

// VectorsCommand returns the vector listing sub-command, which pages
// through stored points directly from the index.
func VectorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "vectors",
		Usage: "List points stored in the vector index",
		Flags: append(runtime.Flags(),
			&cli.StringFlag{
				Name:    "category",
				Aliases: []string{"c"},
				Usage:   "Only list this category",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of points",
				Value:   100,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, mgr, err := runtime.OpenManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			hits, err := mgr.ListVectors(ctx, cmd.String("category"), int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			return runtime.PrintJSON(hits)
		},
	}
}
