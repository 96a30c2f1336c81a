package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type contextKey struct{}

// WithContext returns a new context carrying the given Config.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext retrieves the Config from the context.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(contextKey{}).(*Config)
	return cfg
}

// Config holds all configuration for the memory store.
type Config struct {
	// DBPath is the SQLite database file. Empty resolves to
	// ~/.memory-store/memory.db (see ResolvedDBPath).
	DBPath string

	// StoreType selects the record store backend ("sqlite").
	StoreType string

	// VectorType selects the vector index backend ("qdrant" or "" disabled).
	VectorType string

	// EmbedType selects the embedder ("local", "openai", or "none").
	EmbedType string

	// Run schema/collection migrations before serving the first write.
	MigrateAtStart bool

	// Qdrant
	QdrantHost             string
	QdrantPort             int
	QdrantCollectionPrefix string
	QdrantCollectionName   string
	QdrantAPIKey           string
	QdrantUseTLS           bool
	QdrantStartupTimeout   time.Duration

	// OpenAI
	OpenAIAPIKey     string
	OpenAIModelName  string
	OpenAIBaseURL    string
	OpenAIDimensions int

	// SearchScoreThreshold drops semantic hits scoring below it.
	SearchScoreThreshold float64

	// ContextMaxTokens is the default token budget for context assembly.
	ContextMaxTokens int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		StoreType:              "sqlite",
		VectorType:             "qdrant",
		EmbedType:              "local",
		MigrateAtStart:         true,
		QdrantHost:             "localhost",
		QdrantPort:             6334,
		QdrantCollectionPrefix: "hivemind",
		QdrantStartupTimeout:   30 * time.Second,
		OpenAIModelName:        "text-embedding-3-small",
		OpenAIBaseURL:          "https://api.openai.com/v1",
		SearchScoreThreshold:   0.3,
		ContextMaxTokens:       2000,
	}
}

// QdrantAddress returns the host:port gRPC target for the qdrant backend.
func (c *Config) QdrantAddress() string {
	host := c.QdrantHost
	if strings.Contains(host, ":") {
		return host
	}
	port := c.QdrantPort
	if port == 0 {
		port = 6334
	}
	return host + ":" + strconv.Itoa(port)
}

// ResolvedDBPath returns the configured database file, defaulting to
// memory.db under a .memory-store directory in the user's home.
func (c *Config) ResolvedDBPath() string {
	if c != nil {
		if p := strings.TrimSpace(c.DBPath); p != "" {
			return p
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "memory.db"
	}
	return filepath.Join(home, ".memory-store", "memory.db")
}

// SemanticEnabled reports whether configuration asks for a semantic side at
// all. The runtime capability state is tracked separately; this only gates
// whether initialization is ever attempted.
func (c *Config) SemanticEnabled() bool {
	if c == nil {
		return false
	}
	return c.VectorType != "" && c.EmbedType != "" && c.EmbedType != "none"
}
