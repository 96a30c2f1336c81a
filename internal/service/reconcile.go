package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hivemind/memory-store/internal/metrics"
)

// SyncError records one record that could not be pushed during
// reconciliation.
type SyncError struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// SyncReport summarizes a reconciliation run.
type SyncReport struct {
	SyncedCount  int         `json:"syncedCount"`
	PendingCount int         `json:"pendingCount"`
	Errors       []SyncError `json:"errors,omitempty"`
	// Available is false when the semantic side could not be initialized
	// at all, in which case nothing was attempted.
	Available bool `json:"available"`
}

// SyncVectors pushes every unsynced record into the vector index. Each
// record is embedded, upserted, and marked synced independently; a failure
// on one record is recorded and the run continues. Running it twice in a
// row is a no-op on the second pass when the first fully succeeds.
func (m *Manager) SyncVectors(ctx context.Context) (*SyncReport, error) {
	report := &SyncReport{Errors: []SyncError{}}

	if _, _, err := m.semantic.ensure(ctx); err != nil {
		pending, err2 := m.pendingCount(ctx)
		if err2 != nil {
			return nil, err2
		}
		report.PendingCount = pending
		return report, nil
	}
	report.Available = true

	records, err := m.store.ListUnsynced(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unsynced: %w", err)
	}

	for i := range records {
		if err := m.pushVector(ctx, &records[i]); err != nil {
			metrics.VectorWriteFailures.WithLabelValues("sync").Inc()
			report.Errors = append(report.Errors, SyncError{Key: records[i].Key, Error: err.Error()})
			continue
		}
		report.SyncedCount++
	}
	report.PendingCount = len(records) - report.SyncedCount

	metrics.ReconcileSynced.Add(float64(report.SyncedCount))
	log.Info("Vector reconciliation finished",
		"synced", report.SyncedCount,
		"pending", report.PendingCount,
		"failures", len(report.Errors))
	return report, nil
}

func (m *Manager) pendingCount(ctx context.Context) (int, error) {
	_, unsynced, err := m.store.Counts(ctx)
	if err != nil {
		return 0, fmt.Errorf("counts: %w", err)
	}
	return int(unsynced), nil
}
