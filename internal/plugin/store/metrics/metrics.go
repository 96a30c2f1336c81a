package metrics

import (
	"context"
	"time"

	"github.com/hivemind/memory-store/internal/metrics"
	"github.com/hivemind/memory-store/internal/model"
	"github.com/hivemind/memory-store/internal/registry/store"
)

// Wrap returns a RecordStore that records StoreLatency for every operation.
func Wrap(inner store.RecordStore) store.RecordStore {
	return &metricsStore{inner: inner}
}

type metricsStore struct {
	inner store.RecordStore
}

func observe(op string, start time.Time) {
	metrics.StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *metricsStore) Upsert(ctx context.Context, key, value, category string) (*model.MemoryRecord, error) {
	defer observe("upsert", time.Now())
	return m.inner.Upsert(ctx, key, value, category)
}

func (m *metricsStore) Get(ctx context.Context, key string) (*model.MemoryRecord, error) {
	defer observe("get", time.Now())
	return m.inner.Get(ctx, key)
}

func (m *metricsStore) Delete(ctx context.Context, key string) (bool, error) {
	defer observe("delete", time.Now())
	return m.inner.Delete(ctx, key)
}

func (m *metricsStore) List(ctx context.Context, category string) ([]model.MemoryRecord, error) {
	defer observe("list", time.Now())
	return m.inner.List(ctx, category)
}

func (m *metricsStore) KeywordSearch(ctx context.Context, query string, limit int) ([]model.MemoryRecord, error) {
	defer observe("keyword_search", time.Now())
	return m.inner.KeywordSearch(ctx, query, limit)
}

func (m *metricsStore) ListUnsynced(ctx context.Context) ([]model.MemoryRecord, error) {
	defer observe("list_unsynced", time.Now())
	return m.inner.ListUnsynced(ctx)
}

func (m *metricsStore) MarkSynced(ctx context.Context, key string) error {
	defer observe("mark_synced", time.Now())
	return m.inner.MarkSynced(ctx, key)
}

func (m *metricsStore) Counts(ctx context.Context) (int64, int64, error) {
	defer observe("counts", time.Now())
	return m.inner.Counts(ctx)
}

func (m *metricsStore) Close() error {
	return m.inner.Close()
}

var _ store.RecordStore = (*metricsStore)(nil)
