package store

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"inspire/internal/domain"
	"inspire/internal/port"
)

// pointNamespace derives stable point UUIDs from passage IDs, so repeated
// ingests overwrite instead of duplicating.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("inspire/passage"))

// QdrantIndex is a vector index backed by a Qdrant collection. Vectors are
// requested back with every search hit because the reranker needs them.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantIndex connects to Qdrant at url ("host:port" of the gRPC
// endpoint) and ensures the collection exists with the given dimension.
func NewQdrantIndex(ctx context.Context, url, collection string, dimension int) (*QdrantIndex, error) {
	host, portStr, err := net.SplitHostPort(url)
	if err != nil {
		host = url
		portStr = "6334"
	}

	grpcPort, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port in qdrant url: %w", err)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: grpcPort,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	idx := &QdrantIndex{
		client:     client,
		collection: collection,
	}

	exists, err := client.CollectionExists(ctx, collection)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		err = client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(dimension),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to create collection: %w", err)
		}
	}

	return idx, nil
}

func (s *QdrantIndex) Upsert(ctx context.Context, passages []domain.Passage) error {
	if len(passages) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(passages))
	for i, p := range passages {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.NewSHA1(pointNamespace, []byte(p.ID)).String()),
			Vectors: qdrant.NewVectors(p.Embedding...),
			Payload: map[string]*qdrant.Value{
				"passage_id": qdrant.NewValueString(p.ID),
				"project_id": qdrant.NewValueString(p.ProjectID),
				"title":      qdrant.NewValueString(p.Title),
				"text":       qdrant.NewValueString(p.Text),
				"awards":     qdrant.NewValueString(strings.Join(p.Awards, "|")),
			},
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

func (s *QdrantIndex) Search(ctx context.Context, vector []float32, k int) ([]port.SearchHit, error) {
	response, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]port.SearchHit, 0, len(response))
	for _, point := range response {
		p := domain.Passage{}

		if payload := point.Payload; payload != nil {
			if v, ok := payload["passage_id"]; ok {
				p.ID = v.GetStringValue()
			}
			if v, ok := payload["project_id"]; ok {
				p.ProjectID = v.GetStringValue()
			}
			if v, ok := payload["title"]; ok {
				p.Title = v.GetStringValue()
			}
			if v, ok := payload["text"]; ok {
				p.Text = v.GetStringValue()
			}
			if v, ok := payload["awards"]; ok {
				if s := v.GetStringValue(); s != "" {
					p.Awards = strings.Split(s, "|")
				}
			}
		}

		if vectors := point.Vectors; vectors != nil {
			if dense := vectors.GetVector(); dense != nil {
				p.Embedding = dense.GetData()
			}
		}

		hits = append(hits, port.SearchHit{
			Passage: p,
			Score:   float64(point.Score),
		})
	}

	return hits, nil
}

func (s *QdrantIndex) Count(ctx context.Context) (int, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return int(count), nil
}

func (s *QdrantIndex) Close() error {
	return s.client.Close()
}

// Ensure the adapters implement VectorIndex.
var (
	_ port.VectorIndex = (*BoltIndex)(nil)
	_ port.VectorIndex = (*MemoryIndex)(nil)
	_ port.VectorIndex = (*QdrantIndex)(nil)
)
