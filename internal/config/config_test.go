package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "sqlite", cfg.StoreType)
	assert.Equal(t, "qdrant", cfg.VectorType)
	assert.Equal(t, "local", cfg.EmbedType)
	assert.True(t, cfg.MigrateAtStart)
	assert.Equal(t, 0.3, cfg.SearchScoreThreshold)
	assert.Equal(t, 2000, cfg.ContextMaxTokens)
	assert.Equal(t, 30*time.Second, cfg.QdrantStartupTimeout)
}

func TestQdrantAddress(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6334", cfg.QdrantAddress())

	cfg.QdrantHost = "qdrant.example.com"
	cfg.QdrantPort = 7000
	assert.Equal(t, "qdrant.example.com:7000", cfg.QdrantAddress())

	// A host that already carries a port wins over QdrantPort.
	cfg.QdrantHost = "qdrant.example.com:6334"
	assert.Equal(t, "qdrant.example.com:6334", cfg.QdrantAddress())

	cfg = DefaultConfig()
	cfg.QdrantPort = 0
	assert.Equal(t, "localhost:6334", cfg.QdrantAddress())
}

func TestResolvedDBPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DBPath = filepath.Join("some", "dir", "mem.db")
	assert.Equal(t, filepath.Join("some", "dir", "mem.db"), cfg.ResolvedDBPath())

	cfg.DBPath = ""
	path := cfg.ResolvedDBPath()
	assert.Contains(t, path, ".memory-store")
	assert.Contains(t, path, "memory.db")
}

func TestSemanticEnabled(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.SemanticEnabled())

	cfg.EmbedType = "none"
	assert.False(t, cfg.SemanticEnabled())

	cfg = DefaultConfig()
	cfg.VectorType = ""
	assert.False(t, cfg.SemanticEnabled())

	var nilCfg *Config
	assert.False(t, nilCfg.SemanticEnabled())
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MEMORY_STORE_DB_PATH", "/tmp/override.db")
	t.Setenv("MEMORY_STORE_EMBED_TYPE", "openai")
	t.Setenv("MEMORY_STORE_QDRANT_PORT", "7001")
	t.Setenv("MEMORY_STORE_QDRANT_USE_TLS", "true")
	t.Setenv("MEMORY_STORE_SEARCH_SCORE_THRESHOLD", "0.5")
	t.Setenv("MEMORY_STORE_QDRANT_STARTUP_TIMEOUT", "5s")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnvOverrides())

	assert.Equal(t, "/tmp/override.db", cfg.DBPath)
	assert.Equal(t, "openai", cfg.EmbedType)
	assert.Equal(t, 7001, cfg.QdrantPort)
	assert.True(t, cfg.QdrantUseTLS)
	assert.Equal(t, 0.5, cfg.SearchScoreThreshold)
	assert.Equal(t, 5*time.Second, cfg.QdrantStartupTimeout)
}

func TestApplyEnvOverridesRejectsBadValues(t *testing.T) {
	t.Setenv("MEMORY_STORE_QDRANT_PORT", "not-a-number")
	cfg := DefaultConfig()
	require.Error(t, cfg.ApplyEnvOverrides())
}

func TestContextRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	ctx := WithContext(context.Background(), &cfg)
	require.Same(t, &cfg, FromContext(ctx))

	assert.Nil(t, FromContext(context.Background()))
}
