package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// VectorCache is a bounded process-wide cache of query embeddings, injected
// into the embedding provider at construction.
type VectorCache interface {
	Get(key string) ([]float32, bool)
	Set(key string, vec []float32)
	Clear()
}
