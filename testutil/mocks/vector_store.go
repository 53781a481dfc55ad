package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tallen12/Resume-RAG/rag"
)

// MockLookup 记录单次 Lookup 调用
type MockLookup struct {
	Query string
	TopK  int
}

// MockVectorStore 是 rag.VectorStore 的模拟实现。
//
// Lookup 按插入顺序返回通过过滤的文档，不计算相似度。
type MockVectorStore[M any] struct {
	mu sync.Mutex

	docs    []rag.Document[M]
	err     error
	lookups []MockLookup
}

// NewMockVectorStore 创建空的 MockVectorStore
func NewMockVectorStore[M any]() *MockVectorStore[M] {
	return &MockVectorStore[M]{}
}

// WithDocuments 预置文档
func (s *MockVectorStore[M]) WithDocuments(docs ...rag.Document[M]) *MockVectorStore[M] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, docs...)
	return s
}

// WithError 设置所有操作返回的错误
func (s *MockVectorStore[M]) WithError(err error) *MockVectorStore[M] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// Add 实现 rag.VectorStore
func (s *MockVectorStore[M]) Add(ctx context.Context, texts []string) ([]uuid.UUID, error) {
	return s.AddWithMetadata(ctx, texts, make([]M, len(texts)))
}

// AddWithMetadata 实现 rag.VectorStore
func (s *MockVectorStore[M]) AddWithMetadata(_ context.Context, texts []string, metadata []M) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	ids := make([]uuid.UUID, len(texts))
	for i, text := range texts {
		var meta M
		if i < len(metadata) {
			meta = metadata[i]
		}
		ids[i] = uuid.New()
		s.docs = append(s.docs, rag.Document[M]{ID: ids[i], Content: text, Metadata: meta})
	}
	return ids, nil
}

// Lookup 实现 rag.VectorStore
func (s *MockVectorStore[M]) Lookup(_ context.Context, query string, filter rag.FilterFunc[M], topK int) ([]rag.Document[M], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, MockLookup{Query: query, TopK: topK})
	if s.err != nil {
		return nil, s.err
	}
	if filter == nil {
		filter = rag.AcceptAll[M]()
	}
	out := []rag.Document[M]{}
	for _, d := range s.docs {
		if len(out) >= topK {
			break
		}
		if filter(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Lookups 返回 Lookup 调用记录
func (s *MockVectorStore[M]) Lookups() []MockLookup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MockLookup(nil), s.lookups...)
}
