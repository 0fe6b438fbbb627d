// Package embedding turns enriched transactions into fixed-length
// vectors via an external OpenAI-compatible embedding service.
package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder generates a vector embedding for a text. The model call may
// take seconds; callers must never hold a database lock across it.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Config selects the embedding endpoint and model.
type Config struct {
	Host    string
	Model   string
	Dim     int // expected vector length, 0 disables the check
	Timeout time.Duration
}

// Client is the production Embedder backed by langchaingo.
type Client struct {
	embedder embeddings.Embedder
	dim      int
	timeout  time.Duration
}

// NewClient connects to an OpenAI-compatible embedding endpoint. A "none"
// token keeps local model servers that skip authentication happy.
func NewClient(cfg Config) (*Client, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.Host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("wrap embedder: %w", err)
	}

	return &Client{
		embedder: embedder,
		dim:      cfg.Dim,
		timeout:  cfg.Timeout,
	}, nil
}

// EmbedText generates the embedding for one text under the configured
// timeout.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	vectors, err := c.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("embedding model returned an empty vector")
	}

	vector := vectors[0]
	if c.dim > 0 && len(vector) != c.dim {
		slog.WarnContext(ctx, "Unexpected embedding dimension",
			"got", len(vector),
			"want", c.dim)
	}
	return vector, nil
}
