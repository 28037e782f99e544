package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/findex/internal/cache"
	"github.com/kailas-cloud/findex/internal/domain"
)

// mockBackend scripts a sequence of per-call errors; nil means success.
type mockBackend struct {
	vec      []float32
	script   []error
	calls    int
	lastText string
}

func (m *mockBackend) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	idx := m.calls
	m.calls++
	m.lastText = text
	if idx < len(m.script) && m.script[idx] != nil {
		return domain.EmbeddingResult{}, m.script[idx]
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 7}, nil
}

func newProvider(backend *mockBackend) *Provider {
	p := New(backend, cache.NewLRU(64), zap.NewNop())
	p.backoff = time.Millisecond // keep retry tests fast
	return p
}

func throttled() error {
	return fmt.Errorf("status 429: %w", domain.ErrThrottled)
}

func TestEmbed_EmptyTextInvalid(t *testing.T) {
	backend := &mockBackend{vec: []float32{1}}
	p := newProvider(backend)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := p.Embed(context.Background(), text)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", text, err)
		}
	}
	if backend.calls != 0 {
		t.Fatalf("backend must not be called for blank text, got %d calls", backend.calls)
	}
}

func TestEmbed_CacheIdempotence(t *testing.T) {
	backend := &mockBackend{vec: []float32{0.1, 0.2, 0.3}}
	p := newProvider(backend)

	first, err := p.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if backend.calls != 1 {
		t.Fatalf("expected exactly one backend call, got %d", backend.calls)
	}
	if len(first) != len(second) {
		t.Fatal("expected identical vectors from cache")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("expected identical vectors from cache")
		}
	}
}

func TestEmbed_CacheKeyNormalized(t *testing.T) {
	backend := &mockBackend{vec: []float32{1}}
	p := newProvider(backend)

	variants := []string{"Hello World", "  hello world  ", "HELLO WORLD"}
	for _, v := range variants {
		if _, err := p.Embed(context.Background(), v); err != nil {
			t.Fatalf("unexpected error for %q: %v", v, err)
		}
	}
	if backend.calls != 1 {
		t.Fatalf("case/whitespace variants must share one cache entry, got %d calls", backend.calls)
	}
}

func TestEmbed_TruncatesLongInput(t *testing.T) {
	backend := &mockBackend{vec: []float32{1}}
	p := newProvider(backend)

	long := strings.Repeat("x", MaxInputChars+500)
	if _, err := p.Embed(context.Background(), long); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.lastText) != MaxInputChars {
		t.Fatalf("expected input truncated to %d chars, got %d", MaxInputChars, len(backend.lastText))
	}
}

func TestEmbed_RetriesThrottling(t *testing.T) {
	backend := &mockBackend{
		vec:    []float32{1},
		script: []error{throttled(), throttled(), nil},
	}
	p := newProvider(backend)

	vec, err := p.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if len(vec) != 1 {
		t.Fatalf("unexpected vector %v", vec)
	}
	if backend.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", backend.calls)
	}
}

func TestEmbed_RetryExhaustion(t *testing.T) {
	backend := &mockBackend{
		script: []error{throttled(), throttled(), throttled()},
	}
	p := newProvider(backend)

	_, err := p.Embed(context.Background(), "query")
	if !errors.Is(err, domain.ErrThrottled) {
		t.Fatalf("expected last throttling error wrapped, got %v", err)
	}
	if backend.calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", backend.calls)
	}
}

func TestEmbed_NonThrottlingNotRetried(t *testing.T) {
	backend := &mockBackend{
		script: []error{fmt.Errorf("boom: %w", domain.ErrEmbeddingProvider)},
	}
	p := newProvider(backend)

	_, err := p.Embed(context.Background(), "query")
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("non-throttling errors must not be retried, got %d calls", backend.calls)
	}
}

func TestEmbed_BackoffDoubles(t *testing.T) {
	backend := &mockBackend{
		vec:    []float32{1},
		script: []error{throttled(), throttled(), nil},
	}
	p := New(backend, cache.NewLRU(4), zap.NewNop())
	p.backoff = 20 * time.Millisecond

	start := time.Now()
	if _, err := p.Embed(context.Background(), "query"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 20ms + 40ms of cumulative backoff at minimum.
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("expected cumulative backoff >= 60ms, elapsed %v", elapsed)
	}
}

func TestEmbed_CancellationDuringBackoff(t *testing.T) {
	backend := &mockBackend{
		script: []error{throttled(), throttled(), throttled()},
	}
	p := New(backend, cache.NewLRU(4), zap.NewNop())
	p.backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := p.Embed(ctx, "query")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestClearCache(t *testing.T) {
	backend := &mockBackend{vec: []float32{1}}
	p := newProvider(backend)

	if _, err := p.Embed(context.Background(), "query"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.ClearCache()
	if _, err := p.Embed(context.Background(), "query"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if backend.calls != 2 {
		t.Fatalf("expected one new backend call after ClearCache, got %d total", backend.calls)
	}
}

func TestEmbedBatch_Deduplicates(t *testing.T) {
	backend := &mockBackend{vec: []float32{0.5}}
	p := newProvider(backend)

	texts := []string{"alpha", "beta", "Alpha", "alpha", "beta"}
	vectors, err := p.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vectors) != len(texts) {
		t.Fatalf("expected %d vectors aligned to input, got %d", len(texts), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != 1 {
			t.Fatalf("missing vector at index %d", i)
		}
	}
	// "alpha"/"Alpha" normalize to one entry; "beta" is the second.
	if backend.calls != 2 {
		t.Fatalf("expected 2 backend calls for 2 unique texts, got %d", backend.calls)
	}
}

func TestEmbedBatch_PropagatesFailure(t *testing.T) {
	backend := &mockBackend{
		script: []error{nil, fmt.Errorf("boom: %w", domain.ErrEmbeddingProvider)},
		vec:    []float32{1},
	}
	p := newProvider(backend)

	_, err := p.EmbedBatch(context.Background(), []string{"one", "two"})
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
