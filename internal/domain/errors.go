package domain

import "errors"

var (
	// ErrInvalidInput signals a malformed or empty input value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrThrottled signals a throttling response from the embedding backend.
	// Retried inside the embedding provider, never at the orchestrator level.
	ErrThrottled = errors.New("embedding backend throttled")
	// ErrEmbeddingProvider signals an embedding backend failure
	// (retry exhaustion or a non-throttling error).
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrBackend signals a retrieval backend failure (semantic, keyword or count).
	ErrBackend = errors.New("retrieval backend error")
)
