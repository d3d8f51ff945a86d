package match

import (
	"context"
	"fmt"
	"math"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// EmbeddingScorer scores semantic similarity as the cosine of two text
// embeddings, clamped to [0, 1].
type EmbeddingScorer struct {
	name     string
	embedder embeddings.Embedder
}

// NewOpenAIScorer builds a scorer backed by the OpenAI embeddings API.
// An empty model uses the provider default.
func NewOpenAIScorer(apiKey, model string) (*EmbeddingScorer, error) {
	opts := []openai.Option{openai.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, openai.WithEmbeddingModel(model))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create openai embedder: %w", err)
	}
	return &EmbeddingScorer{name: "openai", embedder: embedder}, nil
}

// NewOllamaScorer builds a scorer backed by a local Ollama server.
func NewOllamaScorer(serverURL, model string) (*EmbeddingScorer, error) {
	if model == "" {
		model = "nomic-embed-text"
	}
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create ollama embedder: %w", err)
	}
	return &EmbeddingScorer{name: "ollama", embedder: embedder}, nil
}

func (s *EmbeddingScorer) Name() string { return s.name }

// Similarity embeds both strings in one round-trip and returns their cosine.
func (s *EmbeddingScorer) Similarity(ctx context.Context, a, b string) (float64, error) {
	vecs, err := s.embedder.EmbedDocuments(ctx, []string{a, b})
	if err != nil {
		return 0, fmt.Errorf("embed texts: %w", err)
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("expected 2 embeddings, got %d", len(vecs))
	}
	return cosine(vecs[0], vecs[1]), nil
}

// cosine returns the cosine similarity clamped to [0, 1]; anti-correlated
// vectors are as good as unrelated for this purpose.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	c := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
