package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/hivemind/memory-store/internal/cmd/migrate"
	"github.com/hivemind/memory-store/internal/cmd/search"
	"github.com/hivemind/memory-store/internal/cmd/status"
	"github.com/hivemind/memory-store/internal/cmd/store"
	syncmd "github.com/hivemind/memory-store/internal/cmd/sync"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "memory-store",
		Usage: "Hybrid structured and semantic memory store",
		Commands: []*cli.Command{
			store.SetCommand(),
			store.GetCommand(),
			store.DeleteCommand(),
			store.ListCommand(),
			search.Command(),
			search.SemanticCommand(),
			search.KeywordCommand(),
			search.ContextCommand(),
			syncmd.Command(),
			status.Command(),
			status.VectorsCommand(),
			migrate.Command(),
		},
	}
	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
