// Package service implements the memory store's write coordination, search
// fusion, reconciliation, and status reporting on top of the record store
// and vector index plugins. Writes are relational-first: the record store
// is authoritative and the vector index is maintained best-effort.
package service

import (
	"github.com/hivemind/memory-store/internal/registry/store"
)

// Manager owns the authoritative record store and the lazily initialized
// semantic handle, and exposes all store operations.
type Manager struct {
	store    store.RecordStore
	semantic *Semantic
}

// New builds a Manager over an already loaded record store and a semantic
// handle. The semantic handle may be permanently unavailable; every
// operation still works in degraded mode.
func New(recordStore store.RecordStore, semantic *Semantic) *Manager {
	return &Manager{store: recordStore, semantic: semantic}
}

// Store exposes the underlying record store for callers that only need
// relational reads.
func (m *Manager) Store() store.RecordStore {
	return m.store
}

// Semantic exposes the capability handle.
func (m *Manager) Semantic() *Semantic {
	return m.semantic
}

// Close releases both backends.
func (m *Manager) Close() error {
	semErr := m.semantic.Close()
	if err := m.store.Close(); err != nil {
		return err
	}
	return semErr
}
