// Package result holds the per-channel retrieval candidates and the final
// search page. Semantic and keyword candidates are distinct types on purpose:
// their raw scores live on incompatible scales and must only meet inside the
// fusion map, never through a shared field.
package result

import "github.com/kailas-cloud/findex/internal/domain"

// SemanticCandidate is a content item with a raw vector-similarity score
// (backend-defined scale, typically [0,1] or [-1,1]).
type SemanticCandidate struct {
	Item       domain.ContentItem
	Similarity float64
}

// KeywordCandidate is a content item with a raw full-text rank score
// (backend-defined scale, unbounded positive).
type KeywordCandidate struct {
	Item domain.ContentItem
	Rank float64
}

// Page is one page of fused search results. Total always comes from the
// count store and may legitimately exceed the number of fused candidates.
type Page struct {
	Items  []domain.ContentItem `json:"items"`
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// EmptyPage returns a page with no items for the given window.
func EmptyPage(limit, offset int) Page {
	return Page{Items: []domain.ContentItem{}, Total: 0, Limit: limit, Offset: offset}
}
