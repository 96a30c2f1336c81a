package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hivemind/memory-store/internal/config"
)

const (
	// DefaultScoreThreshold drops semantic hits with similarity below it.
	DefaultScoreThreshold = 0.3
	// keywordFallbackScore is assigned to keyword-only hits in hybrid
	// results. It is a rank marker, not a similarity; keyword hits always
	// sort after semantic hits and are never re-ranked against them.
	keywordFallbackScore = 0.5
	// hybridFanout over-fetches the semantic side so deduplication against
	// keyword hits still leaves enough results to fill the limit.
	hybridFanout = 2

	// Context assembly sizing. Token counts are estimated at roughly four
	// characters per token, plus fixed per-entry formatting overhead.
	contextCharsPerToken = 4
	contextEntryOverhead = 30
	contextHeaderTokens  = 50
	contextPreviewChars  = 500
	contextHybridLimit   = 10
)

// SearchHit is one fused search result.
type SearchHit struct {
	Key      string  `json:"key"`
	Content  string  `json:"content"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	// Source is "semantic" or "keyword" depending on which side produced
	// the hit. A key found by both is reported once, as semantic.
	Source string `json:"source"`
	// HybridRank is the 1-based position in the fused ordering.
	HybridRank int `json:"hybridRank"`
}

// SearchResults carries the hits plus whether the semantic side took part.
type SearchResults struct {
	Query             string      `json:"query"`
	Hits              []SearchHit `json:"hits"`
	SemanticAvailable bool        `json:"semanticAvailable"`
}

// KeywordSearch runs a case-insensitive substring match over key, value,
// and category in the authoritative store. Always available.
func (m *Manager) KeywordSearch(ctx context.Context, query string, limit int) (*SearchResults, error) {
	if limit <= 0 {
		limit = 10
	}
	records, err := m.store.KeywordSearch(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	results := &SearchResults{Query: query, Hits: make([]SearchHit, 0, len(records))}
	for _, r := range records {
		results.Hits = append(results.Hits, SearchHit{
			Key:        r.Key,
			Content:    r.Value,
			Category:   r.Category,
			Score:      keywordFallbackScore,
			Source:     "keyword",
			HybridRank: len(results.Hits) + 1,
		})
	}
	return results, nil
}

// SemanticSearch queries the vector index alone. When the semantic side is
// unavailable it returns empty hits with SemanticAvailable false rather
// than an error.
func (m *Manager) SemanticSearch(ctx context.Context, query string, limit int, category string, threshold float32) (*SearchResults, error) {
	if limit <= 0 {
		limit = 10
	}
	hits, ok := m.semanticHits(ctx, query, limit, category, threshold)
	results := &SearchResults{Query: query, Hits: hits, SemanticAvailable: ok}
	for i := range results.Hits {
		results.Hits[i].HybridRank = i + 1
	}
	if results.Hits == nil {
		results.Hits = []SearchHit{}
	}
	return results, nil
}

// HybridSearch fuses both retrieval paths: semantic hits lead in similarity
// order with their real scores, then keyword hits for keys the semantic
// side missed are appended in recency order. The two segments are never
// re-sorted against each other.
func (m *Manager) HybridSearch(ctx context.Context, query string, limit int, category string, threshold float32) (*SearchResults, error) {
	if limit <= 0 {
		limit = 10
	}

	semantic, ok := m.semanticHits(ctx, query, limit*hybridFanout, category, threshold)

	keyword, err := m.store.KeywordSearch(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	seen := make(map[string]bool, len(semantic))
	hits := make([]SearchHit, 0, limit)
	for _, h := range semantic {
		if len(hits) >= limit {
			break
		}
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		hits = append(hits, h)
	}
	for _, r := range keyword {
		if len(hits) >= limit {
			break
		}
		if seen[r.Key] {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		seen[r.Key] = true
		hits = append(hits, SearchHit{
			Key:      r.Key,
			Content:  r.Value,
			Category: r.Category,
			Score:    keywordFallbackScore,
			Source:   "keyword",
		})
	}
	for i := range hits {
		hits[i].HybridRank = i + 1
	}
	return &SearchResults{Query: query, Hits: hits, SemanticAvailable: ok}, nil
}

// semanticHits runs the embed-then-search path, absorbing all failures
// into an empty result. The boolean reports whether the semantic side
// actually served the query.
func (m *Manager) semanticHits(ctx context.Context, query string, limit int, category string, threshold float32) ([]SearchHit, bool) {
	index, embedder, err := m.semantic.ensure(ctx)
	if err != nil {
		return nil, false
	}
	if threshold <= 0 {
		threshold = DefaultScoreThreshold
		if cfg := config.FromContext(ctx); cfg != nil && cfg.SearchScoreThreshold > 0 {
			threshold = float32(cfg.SearchScoreThreshold)
		}
	}

	embeddings, err := embedder.EmbedTexts(ctx, []string{query})
	if err != nil || len(embeddings) != 1 {
		return nil, false
	}
	points, err := index.Search(ctx, embeddings[0], limit, category, threshold)
	if err != nil {
		return nil, false
	}

	hits := make([]SearchHit, 0, len(points))
	for _, p := range points {
		hits = append(hits, SearchHit{
			Key:      p.Key,
			Content:  p.Content,
			Category: p.Category,
			Score:    p.Score,
			Source:   "semantic",
		})
	}
	return hits, true
}

// ContextFor assembles a prompt-ready context block for a topic. Hybrid
// hits are packed greedily in rank order; the first entry that would
// exceed the token budget ends the packing, so a cheap entry ranked after
// an expensive one is dropped rather than pulled forward. Returns "" when
// nothing matches.
func (m *Manager) ContextFor(ctx context.Context, topic string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 2000
		if cfg := config.FromContext(ctx); cfg != nil && cfg.ContextMaxTokens > 0 {
			maxTokens = cfg.ContextMaxTokens
		}
	}
	results, err := m.HybridSearch(ctx, topic, contextHybridLimit, "", 0)
	if err != nil {
		return "", err
	}
	if len(results.Hits) == 0 {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Memory context for: %s\n\n", topic)

	budget := maxTokens - contextHeaderTokens
	for _, hit := range results.Hits {
		content := hit.Content
		if len(content) > contextPreviewChars {
			content = content[:contextPreviewChars] + "..."
		}
		entry := fmt.Sprintf("## %s (%s)\n%s\n\n", hit.Key, hit.Category, content)
		cost := len(entry)/contextCharsPerToken + contextEntryOverhead
		if cost > budget {
			break
		}
		budget -= cost
		b.WriteString(entry)
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}
