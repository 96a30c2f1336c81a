package vector

import (
	"context"
	"fmt"
	"time"
)

// PointUpsert holds the data for a single vector point create-or-replace.
// The point id is not part of the request; implementations derive it from
// Key via PointID so repeated upserts for a key always target the same
// stored point.
type PointUpsert struct {
	Key       string
	Embedding []float32
	Content   string
	Category  string
	CreatedAt time.Time
	// ContentHash is the truncated hash of Content, stored in the payload so
	// staleness can be detected without re-reading the full value.
	ContentHash string
}

// PointHit is a single point returned from Search or Scroll.
type PointHit struct {
	Key         string  `json:"key"`
	Content     string  `json:"content"`
	Category    string  `json:"category"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	ContentHash string  `json:"-"`
	Score       float64 `json:"score"`
}

// IndexInfo describes the backing collection for diagnostics.
type IndexInfo struct {
	Collection string `json:"collection"`
	Points     uint64 `json:"points"`
}

// VectorIndex defines the interface for the best-effort semantic index.
// Implementations may fail per call; callers never treat such failures as
// fatal to the authoritative write path.
type VectorIndex interface {
	// Upsert stores or replaces the points for the given keys. Idempotent.
	Upsert(ctx context.Context, points []PointUpsert) error
	// Search returns points ordered by similarity score descending, dropping
	// scores below scoreThreshold. An empty category matches all points.
	Search(ctx context.Context, embedding []float32, limit int, category string, scoreThreshold float32) ([]PointHit, error)
	// Delete removes the points for the given keys.
	Delete(ctx context.Context, keys []string) error
	// Scroll pages through stored points for diagnostics, filtered by
	// category when non-empty. Results carry no meaningful score.
	Scroll(ctx context.Context, category string, limit int) ([]PointHit, error)
	// Info returns collection diagnostics.
	Info(ctx context.Context) (*IndexInfo, error)
	// Name returns the plugin name (e.g. "qdrant").
	Name() string
	// Close releases the underlying connection.
	Close() error
}

// Loader creates a VectorIndex from config carried in ctx.
type Loader func(ctx context.Context) (VectorIndex, error)

// Plugin represents a vector index plugin.
type Plugin struct {
	Name   string
	Loader Loader
}

var plugins []Plugin

// Register adds a vector index plugin. Called from init() in plugin packages.
func Register(p Plugin) {
	plugins = append(plugins, p)
}

// Names returns all registered vector index plugin names.
func Names() []string {
	names := make([]string, len(plugins))
	for i, p := range plugins {
		names[i] = p.Name
	}
	return names
}

// Select returns the loader for the named vector index plugin.
func Select(name string) (Loader, error) {
	for _, p := range plugins {
		if p.Name == name {
			return p.Loader, nil
		}
	}
	return nil, fmt.Errorf("unknown vector index %q; valid: %v", name, Names())
}
