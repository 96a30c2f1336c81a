package qdrant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hivemind/memory-store/internal/config"
	registrymigrate "github.com/hivemind/memory-store/internal/registry/migrate"
	registryvector "github.com/hivemind/memory-store/internal/registry/vector"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// ForceImport allows test packages to reference this package so its init()
// registration runs.
var ForceImport struct{}

func init() {
	registryvector.Register(registryvector.Plugin{
		Name:   "qdrant",
		Loader: load,
	})
	registrymigrate.Register(registrymigrate.Plugin{Order: 200, Migrator: &qdrantMigrator{}})
}

// qdrantMigrator creates the memory collection when it does not exist yet.
type qdrantMigrator struct{}

func (m *qdrantMigrator) Name() string { return "qdrant-collection" }
func (m *qdrantMigrator) Migrate(ctx context.Context) error {
	cfg := config.FromContext(ctx)
	if cfg == nil || cfg.VectorType != "qdrant" || !cfg.MigrateAtStart {
		return nil
	}

	migrateCtx, cancel := context.WithTimeout(ctx, cfg.QdrantStartupTimeout)
	defer cancel()

	// The vector side is best-effort: a down backend must not block the
	// relational store, so failures here only warn.
	conn, err := grpc.NewClient(cfg.QdrantAddress(), dialOptions(cfg)...)
	if err != nil {
		log.Warn("Skipping Qdrant collection init", "error", err)
		return nil
	}
	defer conn.Close()

	client := pb.NewCollectionsClient(conn)
	collectionName := effectiveCollectionName(cfg)

	_, err = client.Get(migrateCtx, &pb.GetCollectionInfoRequest{CollectionName: collectionName})
	if err == nil {
		return nil // collection exists
	}

	_, err = client.Create(migrateCtx, &pb.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     effectiveEmbeddingDimension(cfg),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		log.Warn("Skipping Qdrant collection init", "error", err)
		return nil
	}
	log.Info("Created Qdrant collection", "name", collectionName)
	return nil
}

func load(ctx context.Context) (registryvector.VectorIndex, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("qdrant: missing config in context")
	}
	conn, err := grpc.NewClient(cfg.QdrantAddress(), dialOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect: %w", err)
	}
	return &QdrantIndex{
		points:         pb.NewPointsClient(conn),
		collections:    pb.NewCollectionsClient(conn),
		conn:           conn,
		collectionName: effectiveCollectionName(cfg),
	}, nil
}

// QdrantIndex implements VectorIndex against a Qdrant gRPC backend.
type QdrantIndex struct {
	points         pb.PointsClient
	collections    pb.CollectionsClient
	conn           *grpc.ClientConn
	collectionName string
}

func (s *QdrantIndex) Name() string { return "qdrant" }

func (s *QdrantIndex) Upsert(ctx context.Context, upserts []registryvector.PointUpsert) error {
	if len(upserts) == 0 {
		return nil
	}
	points := make([]*pb.PointStruct, len(upserts))
	for i, u := range upserts {
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: registryvector.PointID(u.Key).String()}},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: u.Embedding},
				},
			},
			// The payload schema is fixed: exactly these five fields, no
			// caller-supplied extensions.
			Payload: map[string]*pb.Value{
				"key":          {Kind: &pb.Value_StringValue{StringValue: u.Key}},
				"content":      {Kind: &pb.Value_StringValue{StringValue: u.Content}},
				"category":     {Kind: &pb.Value_StringValue{StringValue: u.Category}},
				"created_at":   {Kind: &pb.Value_StringValue{StringValue: u.CreatedAt.UTC().Format(time.RFC3339)}},
				"content_hash": {Kind: &pb.Value_StringValue{StringValue: u.ContentHash}},
			},
		}
	}
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         points,
	})
	return err
}

func (s *QdrantIndex) Search(ctx context.Context, embedding []float32, limit int, category string, scoreThreshold float32) ([]registryvector.PointHit, error) {
	req := &pb.SearchPoints{
		CollectionName: s.collectionName,
		Vector:         embedding,
		Limit:          uint64(limit),
		ScoreThreshold: &scoreThreshold,
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	}
	if category != "" {
		req.Filter = categoryFilter(category)
	}
	resp, err := s.points.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	hits := make([]registryvector.PointHit, 0, len(resp.GetResult()))
	for _, pt := range resp.GetResult() {
		hit := hitFromPayload(pt.GetPayload())
		hit.Score = float64(pt.GetScore())
		hits = append(hits, hit)
	}
	return hits, nil
}

func (s *QdrantIndex) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	ids := make([]*pb.PointId, len(keys))
	for i, key := range keys {
		ids[i] = &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: registryvector.PointID(key).String()}}
	}
	_, err := s.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: s.collectionName,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{Ids: ids},
			},
		},
	})
	return err
}

func (s *QdrantIndex) Scroll(ctx context.Context, category string, limit int) ([]registryvector.PointHit, error) {
	scrollLimit := uint32(limit)
	req := &pb.ScrollPoints{
		CollectionName: s.collectionName,
		Limit:          &scrollLimit,
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	}
	if category != "" {
		req.Filter = categoryFilter(category)
	}
	resp, err := s.points.Scroll(ctx, req)
	if err != nil {
		return nil, err
	}

	hits := make([]registryvector.PointHit, 0, len(resp.GetResult()))
	for _, pt := range resp.GetResult() {
		hits = append(hits, hitFromPayload(pt.GetPayload()))
	}
	return hits, nil
}

func (s *QdrantIndex) Info(ctx context.Context) (*registryvector.IndexInfo, error) {
	resp, err := s.collections.Get(ctx, &pb.GetCollectionInfoRequest{CollectionName: s.collectionName})
	if err != nil {
		return nil, err
	}
	return &registryvector.IndexInfo{
		Collection: s.collectionName,
		Points:     resp.GetResult().GetPointsCount(),
	}, nil
}

func (s *QdrantIndex) Close() error {
	return s.conn.Close()
}

var _ registryvector.VectorIndex = (*QdrantIndex)(nil)

func hitFromPayload(payload map[string]*pb.Value) registryvector.PointHit {
	return registryvector.PointHit{
		Key:         payload["key"].GetStringValue(),
		Content:     payload["content"].GetStringValue(),
		Category:    payload["category"].GetStringValue(),
		CreatedAt:   payload["created_at"].GetStringValue(),
		ContentHash: payload["content_hash"].GetStringValue(),
	}
}

func categoryFilter(category string) *pb.Filter {
	return &pb.Filter{
		Must: []*pb.Condition{
			{
				ConditionOneOf: &pb.Condition_Field{
					Field: &pb.FieldCondition{
						Key: "category",
						Match: &pb.Match{
							MatchValue: &pb.Match_Keyword{Keyword: category},
						},
					},
				},
			},
		},
	}
}

func dialOptions(cfg *config.Config) []grpc.DialOption {
	opts := make([]grpc.DialOption, 0, 2)
	if cfg.QdrantUseTLS {
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(nil)))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	if strings.TrimSpace(cfg.QdrantAPIKey) != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(apiKeyCredentials{
			apiKey:     cfg.QdrantAPIKey,
			requireTLS: cfg.QdrantUseTLS,
		}))
	}
	return opts
}

type apiKeyCredentials struct {
	apiKey     string
	requireTLS bool
}

func (a apiKeyCredentials) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"api-key": a.apiKey}, nil
}

func (a apiKeyCredentials) RequireTransportSecurity() bool {
	return a.requireTLS
}

func effectiveEmbeddingDimension(cfg *config.Config) uint64 {
	if cfg == nil {
		return 384
	}
	if cfg.OpenAIDimensions > 0 && strings.EqualFold(cfg.EmbedType, "openai") {
		return uint64(cfg.OpenAIDimensions)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.EmbedType)) {
	case "openai":
		return 1536
	default:
		return 384
	}
}

func effectiveCollectionName(cfg *config.Config) string {
	if cfg == nil {
		return "hivemind_memory"
	}
	if name := strings.TrimSpace(cfg.QdrantCollectionName); name != "" {
		return name
	}
	prefix := strings.TrimSpace(cfg.QdrantCollectionPrefix)
	if prefix == "" {
		prefix = "hivemind"
	}
	return fmt.Sprintf("%s_memory_%d", prefix, effectiveEmbeddingDimension(cfg))
}
