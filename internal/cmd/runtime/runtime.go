// Package runtime holds the wiring shared by every sub-command: flags,
// config assembly, plugin selection, and JSON output.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hivemind/memory-store/internal/config"
	registrymigrate "github.com/hivemind/memory-store/internal/registry/migrate"
	registrystore "github.com/hivemind/memory-store/internal/registry/store"
	"github.com/hivemind/memory-store/internal/service"
	"github.com/urfave/cli/v3"

	metricsstore "github.com/hivemind/memory-store/internal/plugin/store/metrics"

	// Import plugins to trigger init() registration.
	_ "github.com/hivemind/memory-store/internal/plugin/embed/disabled"
	_ "github.com/hivemind/memory-store/internal/plugin/embed/local"
	_ "github.com/hivemind/memory-store/internal/plugin/embed/openai"
	_ "github.com/hivemind/memory-store/internal/plugin/store/sqlite"
	_ "github.com/hivemind/memory-store/internal/plugin/vector/qdrant"
)

// Flags returns the flag set common to all sub-commands.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db-path",
			Sources: cli.EnvVars("MEMORY_STORE_DB_PATH"),
			Usage:   "SQLite database file (default ~/.memory-store/memory.db)",
		},
		&cli.StringFlag{
			Name:    "store",
			Sources: cli.EnvVars("MEMORY_STORE_STORE_TYPE"),
			Usage:   "Record store backend (sqlite)",
			Value:   "sqlite",
		},
		&cli.StringFlag{
			Name:    "vector",
			Sources: cli.EnvVars("MEMORY_STORE_VECTOR_TYPE"),
			Usage:   "Vector index backend (qdrant, empty to disable)",
			Value:   "qdrant",
		},
		&cli.StringFlag{
			Name:    "embedder",
			Sources: cli.EnvVars("MEMORY_STORE_EMBED_TYPE"),
			Usage:   "Embedder (local|openai|none)",
			Value:   "local",
		},
		&cli.StringFlag{
			Name:    "qdrant-host",
			Sources: cli.EnvVars("MEMORY_STORE_QDRANT_HOST"),
			Usage:   "Qdrant host or host:port",
			Value:   "localhost",
		},
	}
}

// Configure builds the runtime Config from flags plus environment overlays
// and attaches it to the context.
func Configure(ctx context.Context, cmd *cli.Command) (context.Context, *config.Config, error) {
	cfg := config.DefaultConfig()
	if v := cmd.String("db-path"); v != "" {
		cfg.DBPath = v
	}
	if v := cmd.String("store"); v != "" {
		cfg.StoreType = v
	}
	cfg.VectorType = cmd.String("vector")
	if v := cmd.String("embedder"); v != "" {
		cfg.EmbedType = v
	}
	if v := cmd.String("qdrant-host"); v != "" {
		cfg.QdrantHost = v
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return ctx, nil, err
	}
	return config.WithContext(ctx, &cfg), &cfg, nil
}

// OpenManager configures the runtime, runs migrations, loads the record
// store, and returns a ready Manager. Callers must Close it.
func OpenManager(ctx context.Context, cmd *cli.Command) (context.Context, *service.Manager, error) {
	ctx, cfg, err := Configure(ctx, cmd)
	if err != nil {
		return ctx, nil, err
	}

	if err := registrymigrate.RunAll(ctx); err != nil {
		return ctx, nil, fmt.Errorf("migrate: %w", err)
	}

	loader, err := registrystore.Select(cfg.StoreType)
	if err != nil {
		return ctx, nil, err
	}
	recordStore, err := loader(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("open record store: %w", err)
	}

	semantic := service.NewSemantic(cfg.VectorType, cfg.EmbedType)
	return ctx, service.New(metricsstore.Wrap(recordStore), semantic), nil
}

// PrintJSON writes v to stdout as indented JSON.
func PrintJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
