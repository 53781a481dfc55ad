// Package embedding defines the text embedding model contract and generic
// wrappers such as batch splitting.
package embedding

import (
	"context"
	"fmt"

	"github.com/tallen12/Resume-RAG/types"
)

// Model turns text into vectors.
//
// Embed returns one vector per input, in input order. An empty input yields
// an empty result and no error; implementations must not call their backend
// for it.
type Model interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(ctx context.Context, texts []string) ([][]float64, error)

func (f ModelFunc) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return f(ctx, texts)
}

// EmbedOne embeds a single string.
func EmbedOne(ctx context.Context, m Model, text string) ([]float64, error) {
	vectors, err := m.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if err := CheckCount(1, vectors); err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// CheckCount reports a backend that returned a different number of vectors
// than it was given inputs.
func CheckCount(inputs int, vectors [][]float64) error {
	if len(vectors) != inputs {
		return types.NewError(types.ErrInvalidResponse,
			fmt.Sprintf("embedding returned %d vectors for %d inputs", len(vectors), inputs))
	}
	return nil
}

// Batched splits requests into chunks of at most maxBatch inputs and
// concatenates the results in order. maxBatch <= 0 disables splitting.
func Batched(m Model, maxBatch int) Model {
	return ModelFunc(func(ctx context.Context, texts []string) ([][]float64, error) {
		if len(texts) == 0 {
			return [][]float64{}, nil
		}
		if maxBatch <= 0 || len(texts) <= maxBatch {
			vectors, err := m.Embed(ctx, texts)
			if err != nil {
				return nil, err
			}
			return vectors, CheckCount(len(texts), vectors)
		}

		out := make([][]float64, 0, len(texts))
		for start := 0; start < len(texts); start += maxBatch {
			end := min(start+maxBatch, len(texts))
			vectors, err := m.Embed(ctx, texts[start:end])
			if err != nil {
				return nil, fmt.Errorf("embed inputs %d-%d: %w", start, end-1, err)
			}
			if err := CheckCount(end-start, vectors); err != nil {
				return nil, err
			}
			out = append(out, vectors...)
		}
		return out, nil
	})
}
