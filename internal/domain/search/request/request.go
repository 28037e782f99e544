// Package request defines the validated search request value object.
package request

import (
	"fmt"

	"github.com/kailas-cloud/findex/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 20
	MinLimit       = 1
	MaxLimit       = 100
)

// Request is a validated search request.
type Request struct {
	query   string
	filters filter.Filters
	limit   int
	offset  int
}

// New validates and normalizes search parameters.
// Limit defaults to 20 when unset; limit outside [1,100] or negative offset is rejected.
// An empty query is accepted here — the orchestrator short-circuits it to an empty page.
func New(query string, filters filter.Filters, limit, offset int) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < MinLimit || limit > MaxLimit {
		return Request{}, fmt.Errorf("limit must be between %d and %d", MinLimit, MaxLimit)
	}
	if offset < 0 {
		return Request{}, fmt.Errorf("offset must be non-negative")
	}

	return Request{query: query, filters: filters, limit: limit, offset: offset}, nil
}

// Query returns the free-text query.
func (r *Request) Query() string { return r.query }

// Filters returns the structured filters.
func (r *Request) Filters() filter.Filters { return r.filters }

// Limit returns the maximum page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the pagination offset.
func (r *Request) Offset() int { return r.offset }
