package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallen12/Resume-RAG/llm/embedding"
)

type owner struct {
	Name string `json:"name,omitempty"`
}

// keywords embeds text as counts of a fixed vocabulary.
var keywords = embedding.ModelFunc(func(_ context.Context, texts []string) ([][]float64, error) {
	vocab := []string{"go", "python", "kubernetes", "sql"}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v := make([]float64, len(vocab))
		for j, w := range vocab {
			v[j] = float64(strings.Count(strings.ToLower(text), w))
		}
		out[i] = v
	}
	return out, nil
})

func seeded(t *testing.T) *MemoryStore[owner] {
	t.Helper()
	store := NewMemoryStore[owner](keywords, nil, nil)
	_, err := store.AddWithMetadata(context.Background(),
		[]string{
			"built go services on kubernetes",
			"python data pipelines with sql",
			"go and sql migrations",
		},
		[]owner{{Name: "ada"}, {Name: "ada"}, {Name: "grace"}},
	)
	require.NoError(t, err)
	return store
}

func TestMemoryStore_AddMintsUniqueIDs(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore[owner](keywords, nil, nil)
	ids, err := store.Add(context.Background(), []string{"go", "sql"})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
	assert.NotEqual(t, uuid.Nil, ids[0])
	assert.Equal(t, 2, store.Count())

	ids, err = store.Add(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMemoryStore_LookupRanksBySimilarity(t *testing.T) {
	t.Parallel()

	docs, err := seeded(t).Lookup(context.Background(), "go kubernetes", nil, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "built go services on kubernetes", docs[0].Content)
	assert.Equal(t, "go and sql migrations", docs[1].Content)
	assert.Equal(t, "ada", docs[0].Metadata.Name)
}

func TestMemoryStore_LookupAppliesFilterBeforeTopK(t *testing.T) {
	t.Parallel()

	onlyAda := func(d Document[owner]) bool { return d.Metadata.Name == "ada" }
	docs, err := seeded(t).Lookup(context.Background(), "sql", onlyAda, 5)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, d := range docs {
		assert.Equal(t, "ada", d.Metadata.Name)
	}
	assert.Equal(t, "python data pipelines with sql", docs[0].Content)
}

func TestMemoryStore_LookupEdgeCases(t *testing.T) {
	t.Parallel()

	store := seeded(t)

	docs, err := store.Lookup(context.Background(), "go", AcceptAll[owner](), 0)
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = NewMemoryStore[owner](keywords, nil, nil).Lookup(context.Background(), "go", nil, 3)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryStore_Errors(t *testing.T) {
	t.Parallel()

	_, err := seeded(t).AddWithMetadata(context.Background(), []string{"a", "b"}, []owner{{}})
	assert.Error(t, err)

	boom := errors.New("boom")
	failing := embedding.ModelFunc(func(context.Context, []string) ([][]float64, error) { return nil, boom })
	_, err = NewMemoryStore[owner](failing, nil, nil).Add(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, boom)

	short := embedding.ModelFunc(func(context.Context, []string) ([][]float64, error) { return [][]float64{}, nil })
	_, err = NewMemoryStore[owner](short, nil, nil).Add(context.Background(), []string{"x"})
	assert.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 2}))
}
