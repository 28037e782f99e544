// Package embedding turns query text into fixed-length vectors, with a
// process-wide cache and a bounded retry policy for throttling errors.
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/findex/internal/domain"
	"github.com/kailas-cloud/findex/internal/metrics"
)

const (
	// MaxInputChars is the input size limit of the embedding backend;
	// longer text is truncated before the call.
	MaxInputChars = 8000
	// maxAttempts bounds the retry loop for throttling errors.
	maxAttempts = 3
	// initialBackoff is the first retry delay; it doubles per attempt (1s, 2s).
	initialBackoff = time.Second
)

// Provider generates query embeddings. The cache is shared across requests;
// the retry loop is local to the requesting call.
type Provider struct {
	backend domain.Embedder
	cache   domain.VectorCache
	backoff time.Duration
	logger  *zap.Logger
}

// New creates an embedding provider around a backend and an injected cache.
func New(backend domain.Embedder, cache domain.VectorCache, logger *zap.Logger) *Provider {
	return &Provider{backend: backend, cache: cache, backoff: initialBackoff, logger: logger}
}

// Embed returns the embedding for text. Empty or whitespace-only text fails
// with domain.ErrInvalidInput. A cache hit returns immediately with no backend
// call; a miss truncates the text to MaxInputChars and calls the backend,
// retrying only throttling errors up to 3 attempts with 1s/2s backoff.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	normalized := normalize(text)
	if normalized == "" {
		return nil, fmt.Errorf("empty text: %w", domain.ErrInvalidInput)
	}

	key := cacheKey(normalized)
	if vec, ok := p.cache.Get(key); ok {
		metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
		return vec, nil
	}
	metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()

	input := truncate(text, MaxInputChars)

	start := time.Now()
	result, err := p.embedWithRetry(ctx, input)
	duration := time.Since(start)

	if err != nil {
		return nil, err
	}

	p.cache.Set(key, result.Embedding)
	metrics.EmbeddingDuration.Observe(duration.Seconds())
	p.logger.Debug("Embedded query text",
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result.Embedding, nil
}

// EmbedBatch embeds each unique text once, reusing the cache across the batch,
// and returns vectors aligned to the original input order.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	unique := make(map[string][]float32, len(texts))
	for _, text := range texts {
		norm := normalize(text)
		if _, seen := unique[norm]; seen {
			continue
		}
		vec, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		unique[norm] = vec
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = unique[normalize(text)]
	}
	return out, nil
}

// ClearCache drops all cached embeddings.
func (p *Provider) ClearCache() {
	p.cache.Clear()
}

// embedWithRetry calls the backend, retrying throttling errors with
// exponential backoff. Non-throttling errors propagate immediately.
func (p *Provider) embedWithRetry(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	var lastErr error
	backoff := p.backoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			p.logger.Warn("Embedding backend throttled, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxAttempts),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return domain.EmbeddingResult{}, fmt.Errorf("embed canceled: %w", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		result, err := p.backend.Embed(ctx, text)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, domain.ErrThrottled) {
			return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
		}
		lastErr = err
	}

	return domain.EmbeddingResult{}, fmt.Errorf(
		"embed text: retries exhausted after %d attempts: %w", maxAttempts, lastErr)
}

// normalize canonicalizes text for cache keying: identical queries modulo
// case and surrounding whitespace share one cache entry.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func cacheKey(normalized string) string {
	h := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(h[:])
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
