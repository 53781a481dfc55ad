package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tallen12/Resume-RAG/codec"
	"github.com/tallen12/Resume-RAG/llm/embedding"
)

type storedDocument struct {
	id        uuid.UUID
	content   string
	metadata  []byte
	embedding []float64
}

// MemoryStore is an in-memory VectorStore ranked by cosine similarity.
type MemoryStore[M any] struct {
	model  embedding.Model
	codec  *codec.JSONCodec[M]
	logger *zap.Logger

	mu        sync.RWMutex
	documents []storedDocument
}

var _ VectorStore[struct{}] = (*MemoryStore[struct{}])(nil)

// NewMemoryStore returns an empty store. A nil codec uses the default
// JSONCodec[M].
func NewMemoryStore[M any](model embedding.Model, c *codec.JSONCodec[M], logger *zap.Logger) *MemoryStore[M] {
	if c == nil {
		c = codec.NewJSONCodec[M]()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore[M]{
		model:  model,
		codec:  c,
		logger: logger.With(zap.String("component", "memory_vector_store")),
	}
}

// Add stores texts with zero metadata.
func (s *MemoryStore[M]) Add(ctx context.Context, texts []string) ([]uuid.UUID, error) {
	return s.AddWithMetadata(ctx, texts, make([]M, len(texts)))
}

// AddWithMetadata stores texts and their metadata.
func (s *MemoryStore[M]) AddWithMetadata(ctx context.Context, texts []string, metadata []M) ([]uuid.UUID, error) {
	if len(texts) != len(metadata) {
		return nil, fmt.Errorf("got %d texts and %d metadata values", len(texts), len(metadata))
	}
	if len(texts) == 0 {
		return []uuid.UUID{}, nil
	}

	encoded := make([][]byte, len(metadata))
	for i, m := range metadata {
		data, err := s.codec.Encode(m)
		if err != nil {
			return nil, fmt.Errorf("metadata %d: %w", i, err)
		}
		encoded[i] = data
	}

	vectors, err := s.model.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if err := embedding.CheckCount(len(texts), vectors); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(texts))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, text := range texts {
		ids[i] = uuid.New()
		s.documents = append(s.documents, storedDocument{
			id:        ids[i],
			content:   text,
			metadata:  encoded[i],
			embedding: vectors[i],
		})
	}

	s.logger.Debug("documents added to vector store",
		zap.Int("count", len(texts)),
		zap.Int("total", len(s.documents)))
	return ids, nil
}

// Lookup embeds query, decodes each candidate's metadata, applies filter and
// returns the topK best matches.
func (s *MemoryStore[M]) Lookup(ctx context.Context, query string, filter FilterFunc[M], topK int) ([]Document[M], error) {
	if topK <= 0 {
		return []Document[M]{}, nil
	}
	if filter == nil {
		filter = AcceptAll[M]()
	}

	q, err := embedding.EmbedOne(ctx, s.model, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		doc   Document[M]
		score float64
	}

	s.mu.RLock()
	candidates := make([]scored, 0, len(s.documents))
	for _, d := range s.documents {
		meta, err := s.codec.Decode(d.metadata)
		if err != nil {
			s.mu.RUnlock()
			return nil, fmt.Errorf("document %s: %w", d.id, err)
		}
		doc := Document[M]{ID: d.id, Content: d.content, Metadata: meta}
		if !filter(doc) {
			continue
		}
		candidates = append(candidates, scored{doc: doc, score: cosineSimilarity(q, d.embedding)})
	}
	s.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if topK > len(candidates) {
		topK = len(candidates)
	}

	out := make([]Document[M], topK)
	for i := range out {
		out[i] = candidates[i].doc
	}
	return out, nil
}

// Count returns the number of stored documents.
func (s *MemoryStore[M]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
