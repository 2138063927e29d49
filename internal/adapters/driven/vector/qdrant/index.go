// Package qdrant stores semantic index entries in a Qdrant collection.
//
// The collection is created on first write, sized to the first embedding,
// with cosine distance. Point IDs are UUIDv5 values derived from the entry
// key so re-indexing a chunk replaces its previous point.
package qdrant

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// keyNamespace scopes UUIDv5 point IDs to askdocs entry keys.
var keyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("askdocs:semantic-entry"))

// Payload field names.
const (
	fieldKey          = "key"
	fieldDocumentID   = "document_id"
	fieldDocumentName = "document_name"
	fieldChunkIndex   = "chunk_index"
	fieldContent      = "content"
)

// Config addresses the Qdrant gRPC endpoint.
type Config struct {
	Host       string
	Port       int
	UseTLS     bool
	APIKey     string
	Collection string
}

// Index is a driven.VectorIndex backed by Qdrant.
type Index struct {
	client     *qdrant.Client
	collection string
	log        *logger.Logger

	mu    sync.Mutex
	ready bool
}

// New connects to Qdrant. The collection is not touched until the first call.
func New(cfg Config, log *logger.Logger) (*Index, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection name: %w", domain.ErrInvalidInput)
	}
	if log == nil {
		log = logger.Nop()
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		UseTLS: cfg.UseTLS,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating qdrant client: %w", err)
	}

	return &Index{
		client:     client,
		collection: cfg.Collection,
		log:        log.Component("qdrant"),
	}, nil
}

// ensureCollection creates the collection sized to dim if it does not exist.
func (i *Index) ensureCollection(ctx context.Context, dim int) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ready {
		return nil
	}

	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		return fmt.Errorf("checking collection %s: %w", i.collection, err)
	}
	if !exists {
		i.log.Info("creating collection %s with %d dimensions", i.collection, dim)
		err = i.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: i.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(dim), //nolint:gosec // dimension is positive
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("creating collection %s: %w", i.collection, err)
		}
	}
	i.ready = true
	return nil
}

// Upsert writes entries as points, waiting for the write to be applied.
func (i *Index) Upsert(ctx context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := i.ensureCollection(ctx, len(entries[0].Embedding)); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, len(entries))
	for n, e := range entries {
		if len(e.Embedding) == 0 {
			return fmt.Errorf("entry %s: empty embedding: %w", e.Key, domain.ErrInvalidInput)
		}
		points[n] = &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(e.Key)),
			Vectors: qdrant.NewVectors(e.Embedding...),
			Payload: qdrant.NewValueMap(payloadFor(e)),
		}
	}

	_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: i.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

// Search queries the k nearest points. A missing collection yields no hits.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		return nil, fmt.Errorf("checking collection %s: %w", i.collection, err)
	}
	if !exists {
		return nil, nil
	}

	result, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(uint64(k)), //nolint:gosec // k is positive
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(result))
	for _, point := range result {
		entry, ok := entryFromPayload(point.GetPayload())
		if !ok {
			i.log.Warn("skipping point without entry payload")
			continue
		}
		hits = append(hits, driven.VectorHit{
			Entry:    entry,
			Distance: 1 - float64(point.GetScore()),
		})
	}
	return hits, nil
}

// Reset deletes the collection. It is recreated on the next write.
func (i *Index) Reset(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		return fmt.Errorf("checking collection %s: %w", i.collection, err)
	}
	if exists {
		if err := i.client.DeleteCollection(ctx, i.collection); err != nil {
			return fmt.Errorf("deleting collection %s: %w", i.collection, err)
		}
	}
	i.ready = false
	return nil
}

// Close closes the gRPC connection.
func (i *Index) Close() error {
	return i.client.Close()
}

// PointID maps an entry key to a stable UUID string.
func PointID(key string) string {
	return uuid.NewSHA1(keyNamespace, []byte(key)).String()
}

func payloadFor(e driven.VectorEntry) map[string]any {
	return map[string]any{
		fieldKey:          e.Key,
		fieldDocumentID:   e.DocumentID,
		fieldDocumentName: e.DocumentName,
		fieldChunkIndex:   int64(e.ChunkIndex),
		fieldContent:      e.Content,
	}
}

func entryFromPayload(payload map[string]*qdrant.Value) (driven.VectorEntry, bool) {
	key := payload[fieldKey].GetStringValue()
	if key == "" {
		return driven.VectorEntry{}, false
	}
	return driven.VectorEntry{
		Key:          key,
		DocumentID:   payload[fieldDocumentID].GetIntegerValue(),
		DocumentName: payload[fieldDocumentName].GetStringValue(),
		ChunkIndex:   int(payload[fieldChunkIndex].GetIntegerValue()),
		Content:      payload[fieldContent].GetStringValue(),
	}, true
}
