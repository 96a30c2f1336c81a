package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides reads MEMORY_STORE_* environment variables that are not
// represented by dedicated CLI flags and overlays them onto the config.
func (c *Config) ApplyEnvOverrides() error {
	if c == nil {
		return nil
	}

	applyStringEnv("MEMORY_STORE_DB_PATH", &c.DBPath)
	applyStringEnv("MEMORY_STORE_STORE_TYPE", &c.StoreType)
	applyStringEnv("MEMORY_STORE_VECTOR_TYPE", &c.VectorType)
	applyStringEnv("MEMORY_STORE_EMBED_TYPE", &c.EmbedType)

	var err error
	if err = applyBoolEnv("MEMORY_STORE_MIGRATE_AT_START", &c.MigrateAtStart); err != nil {
		return err
	}

	applyStringEnv("MEMORY_STORE_QDRANT_HOST", &c.QdrantHost)
	if err = applyIntEnv("MEMORY_STORE_QDRANT_PORT", &c.QdrantPort); err != nil {
		return err
	}
	applyStringEnv("MEMORY_STORE_QDRANT_COLLECTION_PREFIX", &c.QdrantCollectionPrefix)
	applyStringEnv("MEMORY_STORE_QDRANT_COLLECTION_NAME", &c.QdrantCollectionName)
	applyStringEnv("MEMORY_STORE_QDRANT_API_KEY", &c.QdrantAPIKey)
	if err = applyBoolEnv("MEMORY_STORE_QDRANT_USE_TLS", &c.QdrantUseTLS); err != nil {
		return err
	}
	if err = applyDurationEnv("MEMORY_STORE_QDRANT_STARTUP_TIMEOUT", &c.QdrantStartupTimeout); err != nil {
		return err
	}

	applyStringEnv("MEMORY_STORE_OPENAI_API_KEY", &c.OpenAIAPIKey)
	applyStringEnv("MEMORY_STORE_OPENAI_MODEL_NAME", &c.OpenAIModelName)
	applyStringEnv("MEMORY_STORE_OPENAI_BASE_URL", &c.OpenAIBaseURL)
	if err = applyIntEnv("MEMORY_STORE_OPENAI_DIMENSIONS", &c.OpenAIDimensions); err != nil {
		return err
	}

	if err = applyFloatEnv("MEMORY_STORE_SEARCH_SCORE_THRESHOLD", &c.SearchScoreThreshold); err != nil {
		return err
	}
	if err = applyIntEnv("MEMORY_STORE_CONTEXT_MAX_TOKENS", &c.ContextMaxTokens); err != nil {
		return err
	}
	return nil
}

func applyStringEnv(name string, target *string) {
	if raw := strings.TrimSpace(os.Getenv(name)); raw != "" {
		*target = raw
	}
}

func applyBoolEnv(name string, target *bool) error {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*target = value
	return nil
}

func applyIntEnv(name string, target *int) error {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*target = value
	return nil
}

func applyFloatEnv(name string, target *float64) error {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*target = value
	return nil
}

func applyDurationEnv(name string, target *time.Duration) error {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*target = value
	return nil
}
