// Package store provides the CRUD sub-commands: set, get, delete, list.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/hivemind/memory-store/internal/cmd/runtime"
	registrystore "github.com/hivemind/memory-store/internal/registry/store"
	"github.com/urfave/cli/v3"
)

// SetCommand stores a key/value pair.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a memory (relational write is authoritative, vector write is best-effort)",
		ArgsUsage: "KEY VALUE",
		Flags: append(runtime.Flags(),
			&cli.StringFlag{
				Name:    "category",
				Aliases: []string{"c"},
				Usage:   "Category label",
				Value:   "general",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: set KEY VALUE")
			}
			ctx, mgr, err := runtime.OpenManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			result, err := mgr.Set(ctx, cmd.Args().Get(0), cmd.Args().Get(1), cmd.String("category"))
			if err != nil {
				return err
			}
			return runtime.PrintJSON(result)
		},
	}
}

// GetCommand retrieves a memory by key.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Retrieve a memory by exact key",
		ArgsUsage: "KEY",
		Flags:     runtime.Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: get KEY")
			}
			ctx, mgr, err := runtime.OpenManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			record, err := mgr.Get(ctx, cmd.Args().Get(0))
			if errors.Is(err, registrystore.ErrNotFound) {
				return fmt.Errorf("key %q not found", cmd.Args().Get(0))
			}
			if err != nil {
				return err
			}
			return runtime.PrintJSON(record)
		},
	}
}

// DeleteCommand removes a memory from both backends.
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a memory by key",
		ArgsUsage: "KEY",
		Flags:     runtime.Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: delete KEY")
			}
			ctx, mgr, err := runtime.OpenManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			result, err := mgr.Delete(ctx, cmd.Args().Get(0))
			if err != nil {
				return err
			}
			return runtime.PrintJSON(result)
		},
	}
}

// ListCommand lists memories, newest first.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List memories ordered by last update",
		Flags: append(runtime.Flags(),
			&cli.StringFlag{
				Name:    "category",
				Aliases: []string{"c"},
				Usage:   "Only list this category",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, mgr, err := runtime.OpenManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			records, err := mgr.List(ctx, cmd.String("category"))
			if err != nil {
				return err
			}
			return runtime.PrintJSON(records)
		},
	}
}
