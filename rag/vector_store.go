package rag

import (
	"context"

	"github.com/google/uuid"
)

// Document is a stored text with its metadata.
type Document[M any] struct {
	ID       uuid.UUID `json:"id"`
	Content  string    `json:"content"`
	Metadata M         `json:"metadata"`
}

// FilterFunc decides whether a candidate document may appear in a lookup
// result.
type FilterFunc[M any] func(doc Document[M]) bool

// AcceptAll returns a filter that keeps every document.
func AcceptAll[M any]() FilterFunc[M] {
	return func(Document[M]) bool { return true }
}

// VectorStore stores texts and finds the ones most similar to a query.
type VectorStore[M any] interface {
	// Add stores texts with zero metadata and returns their new IDs in order.
	Add(ctx context.Context, texts []string) ([]uuid.UUID, error)
	// AddWithMetadata stores texts with one metadata value each.
	AddWithMetadata(ctx context.Context, texts []string, metadata []M) ([]uuid.UUID, error)
	// Lookup returns at most topK documents accepted by filter, most similar
	// first. A nil filter accepts everything.
	Lookup(ctx context.Context, query string, filter FilterFunc[M], topK int) ([]Document[M], error)
}
