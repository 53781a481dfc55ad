package mocks

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/tallen12/Resume-RAG/llm/embedding"
)

// MockEmbeddingModel 是 embedding.Model 的模拟实现。
//
// 向量为词袋哈希：每个小写单词映射到固定维度中的一个槽位并计数，
// 相同文本总得到相同向量，共享单词的文本余弦相似度更高。
type MockEmbeddingModel struct {
	mu sync.Mutex

	dims  int
	err   error
	calls [][]string
}

var _ embedding.Model = (*MockEmbeddingModel)(nil)

// NewMockEmbeddingModel 创建指定维度的 MockEmbeddingModel
func NewMockEmbeddingModel(dims int) *MockEmbeddingModel {
	if dims <= 0 {
		dims = 64
	}
	return &MockEmbeddingModel{dims: dims}
}

// WithError 设置返回错误
func (m *MockEmbeddingModel) WithError(err error) *MockEmbeddingModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Embed 实现 embedding.Model
func (m *MockEmbeddingModel) Embed(_ context.Context, texts []string) ([][]float64, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), texts...))
	err := m.err
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = m.vector(text)
	}
	return out, nil
}

func (m *MockEmbeddingModel) vector(text string) []float64 {
	v := make([]float64, m.dims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?()\"'")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		v[h.Sum32()%uint32(m.dims)]++
	}
	return v
}

// Calls 返回每次调用的输入
func (m *MockEmbeddingModel) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.calls...)
}
