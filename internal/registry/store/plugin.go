package store

import (
	"context"
	"fmt"

	"github.com/hivemind/memory-store/internal/model"
)

// RecordStore defines the authoritative relational data access interface.
// All operations are individually atomic single-record transactions; no
// multi-record transaction support is required of implementations.
type RecordStore interface {
	// Upsert inserts a new record or replaces an existing one with the same
	// key, resetting SyncState to unsynced and bumping UpdatedAt.
	// Returns the stored record.
	Upsert(ctx context.Context, key, value, category string) (*model.MemoryRecord, error)
	// Get returns the record for key, or ErrNotFound.
	Get(ctx context.Context, key string) (*model.MemoryRecord, error)
	// Delete removes the record for key, reporting whether one existed.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns records ordered by UpdatedAt descending, filtered by
	// category when category is non-empty.
	List(ctx context.Context, category string) ([]model.MemoryRecord, error)
	// KeywordSearch returns records whose key, value, or category contains
	// query (case-insensitive substring), ordered by UpdatedAt descending.
	KeywordSearch(ctx context.Context, query string, limit int) ([]model.MemoryRecord, error)
	// ListUnsynced returns all records with SyncState = unsynced.
	// Used only by reconciliation.
	ListUnsynced(ctx context.Context) ([]model.MemoryRecord, error)
	// MarkSynced advances the record's SyncState from unsynced to synced.
	// It never moves a record the other way.
	MarkSynced(ctx context.Context, key string) error
	// Counts returns the total record count and the unsynced record count.
	Counts(ctx context.Context) (total int64, unsynced int64, err error)
	// Close releases the underlying connection.
	Close() error
}

// Loader creates a RecordStore from config carried in ctx.
type Loader func(ctx context.Context) (RecordStore, error)

// Plugin represents a record store plugin.
type Plugin struct {
	Name   string
	Loader Loader
}

var plugins []Plugin

// Register adds a record store plugin. Called from init() in plugin packages.
func Register(p Plugin) {
	plugins = append(plugins, p)
}

// Names returns all registered record store plugin names.
func Names() []string {
	names := make([]string, len(plugins))
	for i, p := range plugins {
		names[i] = p.Name
	}
	return names
}

// Select returns the loader for the named record store plugin.
func Select(name string) (Loader, error) {
	for _, p := range plugins {
		if p.Name == name {
			return p.Loader, nil
		}
	}
	return nil, fmt.Errorf("unknown record store %q; valid: %v", name, Names())
}
