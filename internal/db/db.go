// Package db defines the storage contracts the repositories consume.
package db

import (
	"context"
	"time"
)

// Store is the database facade used by the content repository.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KNNQuery is a vector similarity search against an FT index.
// Filter is a prebuilt FT.SEARCH pre-filter expression ("" for none).
type KNNQuery struct {
	IndexName    string
	Filter       string
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is a BM25 full-text search against an FT index.
// Filter is a prebuilt FT.SEARCH pre-filter expression ("" for none).
type TextQuery struct {
	IndexName    string
	Query        string
	Filter       string
	TopK         int
	ReturnFields []string
}

// SearchEntry is one hit with its score and returned fields.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// SearchResult is the raw outcome of an FT.SEARCH call.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// Searcher provides search operations over FT indexes.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchBM25(ctx context.Context, q *TextQuery) (*SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}
