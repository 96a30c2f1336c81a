package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	registryembed "github.com/hivemind/memory-store/internal/registry/embed"
	registryvector "github.com/hivemind/memory-store/internal/registry/vector"
)

// State describes whether the semantic side of the store can serve requests.
type State int

const (
	// StateUninitialized means no initialization has been attempted yet.
	StateUninitialized State = iota
	// StateReady means the vector index and embedder loaded and the index
	// answered a reachability probe.
	StateReady
	// StateUnavailable means initialization was attempted and failed. The
	// result is cached; only Reinit retries.
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "uninitialized"
	}
}

// Semantic is the lazily initialized handle to the vector index plus
// embedder pair. Initialization runs at most once per process: the first
// caller that needs the semantic side triggers it, and both outcomes are
// cached. A failed per-call operation after a successful init never moves
// the state back to unavailable.
type Semantic struct {
	vectorName   string
	embedderName string

	mu       sync.Mutex
	state    State
	index    registryvector.VectorIndex
	embedder registryembed.Embedder
}

// NewSemantic returns an uninitialized handle for the named plugins. Empty
// names mean the semantic side is configured off and the handle goes
// straight to unavailable on first use.
func NewSemantic(vectorName, embedderName string) *Semantic {
	return &Semantic{vectorName: vectorName, embedderName: embedderName}
}

// ensure initializes the handle if it has not been tried yet and returns
// the components when ready.
func (s *Semantic) ensure(ctx context.Context) (registryvector.VectorIndex, registryembed.Embedder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady:
		return s.index, s.embedder, nil
	case StateUnavailable:
		return nil, nil, fmt.Errorf("semantic search unavailable")
	}

	if err := s.initLocked(ctx); err != nil {
		s.state = StateUnavailable
		log.Warn("Semantic side unavailable", "error", err)
		return nil, nil, fmt.Errorf("semantic search unavailable: %w", err)
	}
	s.state = StateReady
	return s.index, s.embedder, nil
}

func (s *Semantic) initLocked(ctx context.Context) error {
	if s.vectorName == "" || s.embedderName == "" || s.embedderName == "none" {
		return fmt.Errorf("semantic side is disabled by configuration")
	}

	vectorLoader, err := registryvector.Select(s.vectorName)
	if err != nil {
		return err
	}
	embedLoader, err := registryembed.Select(s.embedderName)
	if err != nil {
		return err
	}

	embedder, err := embedLoader(ctx)
	if err != nil {
		return fmt.Errorf("load embedder %q: %w", s.embedderName, err)
	}
	index, err := vectorLoader(ctx)
	if err != nil {
		return fmt.Errorf("load vector index %q: %w", s.vectorName, err)
	}

	// Probe reachability so a down backend is discovered at init time
	// rather than on every subsequent call.
	if _, err := index.Info(ctx); err != nil {
		_ = index.Close()
		return fmt.Errorf("vector index %q unreachable: %w", s.vectorName, err)
	}

	s.index = index
	s.embedder = embedder
	return nil
}

// Ready attempts initialization if needed and reports whether the semantic
// side can serve requests.
func (s *Semantic) Ready(ctx context.Context) bool {
	_, _, err := s.ensure(ctx)
	return err == nil
}

// State returns the current capability state without triggering
// initialization.
func (s *Semantic) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reinit discards the cached outcome and retries initialization from
// scratch. It is the only way out of the unavailable state.
func (s *Semantic) Reinit(ctx context.Context) error {
	s.mu.Lock()
	if s.index != nil {
		_ = s.index.Close()
	}
	s.state = StateUninitialized
	s.index = nil
	s.embedder = nil
	s.mu.Unlock()

	_, _, err := s.ensure(ctx)
	return err
}

// Close releases the vector index connection if one was opened.
func (s *Semantic) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index != nil {
		err := s.index.Close()
		s.index = nil
		return err
	}
	return nil
}
