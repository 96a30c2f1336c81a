package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hivemind/memory-store/internal/metrics"
	"github.com/hivemind/memory-store/internal/model"
	registrystore "github.com/hivemind/memory-store/internal/registry/store"
	registryvector "github.com/hivemind/memory-store/internal/registry/vector"
)

// SetResult reports which sides of the dual write succeeded.
type SetResult struct {
	Key        string `json:"key"`
	Category   string `json:"category"`
	Relational bool   `json:"relational"`
	Vector     bool   `json:"vector"`
}

// DeleteResult reports the outcome of a delete across both backends.
type DeleteResult struct {
	Key    string `json:"key"`
	Found  bool   `json:"found"`
	Vector bool   `json:"vector"`
}

// Set stores a key/value pair. The relational write is authoritative and
// its failure fails the call; the vector write is best-effort and its
// failure leaves the record unsynced for later reconciliation.
func (m *Manager) Set(ctx context.Context, key, value, category string) (*SetResult, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", registrystore.ErrInvalidInput)
	}
	if value == "" {
		return nil, fmt.Errorf("%w: value is required", registrystore.ErrInvalidInput)
	}

	record, err := m.store.Upsert(ctx, key, value, category)
	if err != nil {
		return nil, fmt.Errorf("store %q: %w", key, err)
	}

	result := &SetResult{
		Key:        record.Key,
		Category:   record.Category,
		Relational: true,
	}
	if err := m.pushVector(ctx, record); err != nil {
		metrics.VectorWriteFailures.WithLabelValues("set").Inc()
		log.Debug("Vector write skipped, record left unsynced", "key", key, "error", err)
	} else {
		result.Vector = true
	}
	return result, nil
}

// pushVector embeds the record, upserts its point, and marks it synced.
// Any failure leaves SyncState untouched.
func (m *Manager) pushVector(ctx context.Context, record *model.MemoryRecord) error {
	index, embedder, err := m.semantic.ensure(ctx)
	if err != nil {
		return err
	}

	embeddings, err := embedder.EmbedTexts(ctx, []string{record.Value})
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if len(embeddings) != 1 {
		return fmt.Errorf("embed: expected 1 embedding, got %d", len(embeddings))
	}

	err = index.Upsert(ctx, []registryvector.PointUpsert{{
		Key:         record.Key,
		Embedding:   embeddings[0],
		Content:     record.Value,
		Category:    record.Category,
		CreatedAt:   record.CreatedAt,
		ContentHash: registryvector.ContentHash(record.Value),
	}})
	if err != nil {
		return fmt.Errorf("vector upsert: %w", err)
	}

	if err := m.store.MarkSynced(ctx, record.Key); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// Delete removes a key from both backends. The vector delete is best-effort;
// a leftover point is harmless because hybrid results are keyed off the
// authoritative store's keys only for keyword hits, and a stale semantic
// hit disappears on the next reconciled write.
func (m *Manager) Delete(ctx context.Context, key string) (*DeleteResult, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", registrystore.ErrInvalidInput)
	}

	found, err := m.store.Delete(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("delete %q: %w", key, err)
	}

	result := &DeleteResult{Key: key, Found: found}
	if index, _, err := m.semantic.ensure(ctx); err == nil {
		if err := index.Delete(ctx, []string{key}); err != nil {
			metrics.VectorWriteFailures.WithLabelValues("delete").Inc()
			log.Debug("Vector delete failed", "key", key, "error", err)
		} else {
			result.Vector = true
		}
	}
	return result, nil
}

// Get returns the authoritative record for key.
func (m *Manager) Get(ctx context.Context, key string) (*model.MemoryRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", registrystore.ErrInvalidInput)
	}
	return m.store.Get(ctx, key)
}

// List returns records ordered newest first, filtered by category when
// non-empty.
func (m *Manager) List(ctx context.Context, category string) ([]model.MemoryRecord, error) {
	return m.store.List(ctx, category)
}
