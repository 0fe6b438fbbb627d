package embedding

import (
	"context"
	"hash/fnv"
)

// Mock is a test double for Embedder. Behavior is injected through the
// function field; without one it returns a small deterministic vector
// derived from the text hash.
type Mock struct {
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	Calls int
}

func (m *Mock) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.Calls++
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}

	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, 8)
	for i := range vector {
		seed = seed*1664525 + 1013904223
		vector[i] = float32(seed%1000) / 1000.0
	}
	return vector, nil
}
