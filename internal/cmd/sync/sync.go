// Package sync provides the vector reconciliation sub-command.
package sync

import (
	"context"

	"github.com/hivemind/memory-store/internal/cmd/runtime"
	"github.com/urfave/cli/v3"
)

// Command returns the sync-vectors sub-command. It pushes every unsynced
// record into the vector index and reports per-record failures without
// aborting the run.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "sync-vectors",
		Usage: "Push unsynced records into the vector index",
		Flags: runtime.Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, mgr, err := runtime.OpenManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			report, err := mgr.SyncVectors(ctx)
			if err != nil {
				return err
			}
			return runtime.PrintJSON(report)
		},
	}
}
