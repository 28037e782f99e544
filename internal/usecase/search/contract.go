package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/findex/internal/domain"
	"github.com/kailas-cloud/findex/internal/domain/search/filter"
	"github.com/kailas-cloud/findex/internal/domain/search/result"
)

// SemanticStore retrieves candidates by vector similarity.
type SemanticStore interface {
	Query(
		ctx context.Context, vector []float32,
		tiers domain.TierSet, filters filter.Filters,
		limit, offset int,
	) ([]result.SemanticCandidate, error)
}

// KeywordStore retrieves candidates by full-text relevance.
type KeywordStore interface {
	Query(
		ctx context.Context, text string,
		tiers domain.TierSet, filters filter.Filters,
		limit, offset int,
	) ([]result.KeywordCandidate, error)
}

// CountStore returns the authoritative total of items matching
// visibility and filters, independent of candidate retrieval.
type CountStore interface {
	Count(ctx context.Context, tiers domain.TierSet, filters filter.Filters) (int, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Event describes one completed search for analytics.
type Event struct {
	Query       string
	ResultCount int
	Total       int
	Duration    time.Duration
	Filters     filter.Filters
	Tiers       []domain.Tier
}

// AnalyticsRecorder accepts search events without blocking. Implementations
// own their error handling; a failed record never surfaces to the caller.
type AnalyticsRecorder interface {
	Record(event Event)
}
