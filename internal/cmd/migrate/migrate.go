package migrate

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/hivemind/memory-store/internal/cmd/runtime"
	registrymigrate "github.com/hivemind/memory-store/internal/registry/migrate"
	"github.com/urfave/cli/v3"
)

// Command returns the migrate sub-command. It creates the SQLite schema
// and the Qdrant collection without serving anything, for deployments
// that migrate out of band.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the database schema and vector collection",
		Flags: runtime.Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, _, err := runtime.Configure(ctx, cmd)
			if err != nil {
				return err
			}

			log.Info("Running migrations...")
			if err := registrymigrate.RunAll(ctx); err != nil {
				return err
			}
			log.Info("All migrations completed successfully")
			return nil
		},
	}
}
