package vectordb

import (
	"context"
	"fmt"

	"pdf-chat-backend/internal/config"
	"pdf-chat-backend/internal/logger"
	"pdf-chat-backend/models"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// Store is a Qdrant-backed vector index holding one collection per session.
// The collection name is the session identifier.
type Store struct {
	client *qdrant.Client
}

func NewStore(cfg *config.Config) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.QdrantHost,
		Port:   cfg.QdrantPort,
		APIKey: cfg.QdrantAPIKey,
		UseTLS: cfg.QdrantUseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return &Store{client: client}, nil
}

// Exists reports whether a collection for the session is present. This is the
// authoritative session-existence check.
func (s *Store) Exists(ctx context.Context, sessionID string) (bool, error) {
	return s.client.CollectionExists(ctx, sessionID)
}

// CreateAndPopulate creates the session's collection and bulk-inserts all
// chunks with their vectors. It fails if the collection already exists:
// session IDs are freshly generated UUIDs, so a collision is a bug and must
// not be clobbered silently. If the insert fails the half-built collection is
// dropped before the error is returned, so no partially queryable collection
// survives.
func (s *Store) CreateAndPopulate(ctx context.Context, sessionID string, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if len(vectors) == 0 {
		return fmt.Errorf("nothing to index for session %s", sessionID)
	}

	exists, err := s.client.CollectionExists(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("collection existence check failed: %w", err)
	}
	if exists {
		return fmt.Errorf("collection %s already exists", sessionID)
	}

	if err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: sessionID,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(len(vectors[0])),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	}); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.NewString()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":   chunk.Text,
				"source": chunk.Source,
				"chunk":  chunk.Order,
			}),
		}
	}

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: sessionID,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	}); err != nil {
		// Drop the half-built collection so it can never be queried.
		if delErr := s.client.DeleteCollection(ctx, sessionID); delErr != nil {
			logger.Error("Failed to drop partially populated collection", "session_id", sessionID, "error", delErr)
		}
		return fmt.Errorf("upsert points: %w", err)
	}

	return nil
}

// Query returns the k nearest chunks by cosine similarity, best first.
func (s *Store) Query(ctx context.Context, sessionID string, vector []float32, k int) ([]models.RetrievedChunk, error) {
	if k <= 0 {
		k = 5
	}
	limit := uint64(k)

	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: sessionID,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	results := make([]models.RetrievedChunk, 0, len(resp))
	for _, point := range resp {
		content := ""
		metadata := make(map[string]any)
		for key, value := range point.Payload {
			converted := convertValue(value)
			if key == "text" {
				if text, ok := converted.(string); ok {
					content = text
				}
				continue
			}
			metadata[key] = converted
		}
		results = append(results, models.RetrievedChunk{
			Content:  content,
			Metadata: metadata,
			Score:    point.Score,
		})
	}

	return results, nil
}

// Delete removes the session's collection. It is idempotent: deleting an
// absent collection is a no-op.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	exists, err := s.client.CollectionExists(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("collection existence check failed: %w", err)
	}
	if !exists {
		return nil
	}
	return s.client.DeleteCollection(ctx, sessionID)
}

func (s *Store) Close() error {
	return s.client.Close()
}

func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		out := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			out[i] = convertValue(item)
		}
		return out
	case *qdrant.Value_StructValue:
		out := make(map[string]any)
		for key, item := range val.StructValue.Fields {
			out[key] = convertValue(item)
		}
		return out
	}
	return nil
}
