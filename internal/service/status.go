package service

import (
	"context"
	"fmt"

	registryvector "github.com/hivemind/memory-store/internal/registry/vector"
)

// StatusReport describes the health of both backends.
type StatusReport struct {
	TotalRecords    int64                     `json:"totalRecords"`
	UnsyncedRecords int64                     `json:"unsyncedRecords"`
	SemanticState   string                    `json:"semanticState"`
	Index           *registryvector.IndexInfo `json:"index,omitempty"`
	EmbedModel      string                    `json:"embedModel,omitempty"`
	EmbedDimension  int                       `json:"embedDimension,omitempty"`
}

// Status reports record counts from the authoritative store and, when the
// semantic side initializes, the index and embedder details. Probing status
// does trigger lazy initialization so the report reflects a real attempt
// rather than the untried state.
func (m *Manager) Status(ctx context.Context) (*StatusReport, error) {
	total, unsynced, err := m.store.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("counts: %w", err)
	}

	report := &StatusReport{
		TotalRecords:    total,
		UnsyncedRecords: unsynced,
	}

	index, embedder, err := m.semantic.ensure(ctx)
	report.SemanticState = m.semantic.State().String()
	if err != nil {
		return report, nil
	}

	report.EmbedModel = embedder.ModelName()
	report.EmbedDimension = embedder.Dimension()
	if info, err := index.Info(ctx); err == nil {
		report.Index = info
	}
	return report, nil
}

// ListVectors pages through stored points for diagnostics, filtered by
// category when non-empty. Content is shortened to a preview.
func (m *Manager) ListVectors(ctx context.Context, category string, limit int) ([]registryvector.PointHit, error) {
	index, _, err := m.semantic.ensure(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	hits, err := index.Scroll(ctx, category, limit)
	if err != nil {
		return nil, fmt.Errorf("scroll: %w", err)
	}
	for i := range hits {
		if len(hits[i].Content) > 100 {
			hits[i].Content = hits[i].Content[:100] + "..."
		}
	}
	return hits, nil
}
