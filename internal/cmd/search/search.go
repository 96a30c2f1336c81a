// Package search provides the retrieval sub-commands: hybrid search, the
// single-path search variants, and context assembly.
package search

import (
	"context"
	"fmt"

	"github.com/hivemind/memory-store/internal/cmd/runtime"
	"github.com/urfave/cli/v3"
)

func searchFlags() []cli.Flag {
	return append(runtime.Flags(),
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of results",
			Value:   10,
		},
		&cli.StringFlag{
			Name:    "category",
			Aliases: []string{"c"},
			Usage:   "Only match this category",
		},
		&cli.FloatFlag{
			Name:    "threshold",
			Sources: cli.EnvVars("MEMORY_STORE_SEARCH_SCORE_THRESHOLD"),
			Usage:   "Minimum semantic similarity score (unset: configured threshold, 0.3)",
		},
	)
}

// Command returns the hybrid search sub-command.
func Command() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Hybrid search: semantic hits first, keyword-only hits appended",
		ArgsUsage: "QUERY",
		Flags:     searchFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: search QUERY")
			}
			ctx, mgr, err := runtime.OpenManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			results, err := mgr.HybridSearch(ctx, cmd.Args().Get(0),
				int(cmd.Int("limit")), cmd.String("category"), float32(cmd.Float("threshold")))
			if err != nil {
				return err
			}
			return runtime.PrintJSON(results)
		},
	}
}

// SemanticCommand returns the semantic-only search sub-command.
func SemanticCommand() *cli.Command {
	return &cli.Command{
		Name:      "semantic-search",
		Usage:     "Search the vector index only (empty when the semantic side is unavailable)",
		ArgsUsage: "QUERY",
		Flags:     searchFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: semantic-search QUERY")
			}
			ctx, mgr, err := runtime.OpenManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			results, err := mgr.SemanticSearch(ctx, cmd.Args().Get(0),
				int(cmd.Int("limit")), cmd.String("category"), float32(cmd.Float("threshold")))
			if err != nil {
				return err
			}
			return runtime.PrintJSON(results)
		},
	}
}

// KeywordCommand returns the relational-only search sub-command.
func KeywordCommand() *cli.Command {
	return &cli.Command{
		Name:      "keyword-search",
		Usage:     "Substring search over keys, values, and categories",
		ArgsUsage: "QUERY",
		Flags: append(runtime.Flags(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results",
				Value:   10,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: keyword-search QUERY")
			}
			ctx, mgr, err := runtime.OpenManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			results, err := mgr.KeywordSearch(ctx, cmd.Args().Get(0), int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			return runtime.PrintJSON(results)
		},
	}
}

// ContextCommand returns the context assembly sub-command.
func ContextCommand() *cli.Command {
	return &cli.Command{
		Name:      "context-for",
		Usage:     "Assemble a prompt-ready context block for a topic",
		ArgsUsage: "TOPIC",
		Flags: append(runtime.Flags(),
			&cli.IntFlag{
				Name:    "max-tokens",
				Sources: cli.EnvVars("MEMORY_STORE_CONTEXT_MAX_TOKENS"),
				Usage:   "Token budget for the assembled context (unset: configured budget, 2000)",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: context-for TOPIC")
			}
			ctx, mgr, err := runtime.OpenManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			block, err := mgr.ContextFor(ctx, cmd.Args().Get(0), int(cmd.Int("max-tokens")))
			if err != nil {
				return err
			}
			fmt.Print(block)
			return nil
		},
	}
}
