package content

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/findex/internal/db"
	"github.com/kailas-cloud/findex/internal/domain"
	"github.com/kailas-cloud/findex/internal/domain/search/filter"
)

type fakeStore struct {
	knnResult  *db.SearchResult
	bm25Result *db.SearchResult
	count      int
	err        error

	lastKNN       *db.KNNQuery
	lastText      *db.TextQuery
	lastCountIdx  string
	lastCountExpr string
}

func (f *fakeStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	f.lastKNN = q
	return f.knnResult, f.err
}

func (f *fakeStore) SearchBM25(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	f.lastText = q
	return f.bm25Result, f.err
}

func (f *fakeStore) SearchCount(_ context.Context, index, query string) (int, error) {
	f.lastCountIdx = index
	f.lastCountExpr = query
	return f.count, f.err
}

func publicTiers() domain.TierSet {
	return domain.NewTierSet(domain.TierPublic, domain.TierCommunity)
}

func mustFilters(t *testing.T, contentTypes []string, dr filter.DateRange) filter.Filters {
	t.Helper()
	f, err := filter.New(contentTypes, nil, nil, dr, nil)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	return f
}

func TestSemanticQuery_BuildsVisibilityFilter(t *testing.T) {
	store := &fakeStore{knnResult: &db.SearchResult{}}
	repo := New(store, "findex:")

	_, err := repo.Semantic().Query(
		context.Background(), []float32{0.1}, publicTiers(),
		mustFilters(t, nil, filter.DateRange{}), 10, 0,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.lastKNN == nil {
		t.Fatal("expected KNN query")
	}
	if !strings.Contains(store.lastKNN.Filter, "@visibility:{public|community}") {
		t.Fatalf("visibility clause missing from filter %q", store.lastKNN.Filter)
	}
	if store.lastKNN.K != 10 {
		t.Fatalf("expected K=10, got %d", store.lastKNN.K)
	}
}

func TestSemanticQuery_ParsesCandidates(t *testing.T) {
	store := &fakeStore{knnResult: &db.SearchResult{
		Total: 1,
		Entries: []db.SearchEntry{{
			Key:   "findex:content:doc-1",
			Score: 0.87,
			Fields: map[string]string{
				"title":        "Intro to Go",
				"content_type": "article",
				"visibility":   "public",
				"owner_id":     "u-7",
				"tags":         "go, tutorial",
				"published_at": "1742000000",
				"views":        "1234",
			},
		}},
	}}
	repo := New(store, "findex:")

	candidates, err := repo.Semantic().Query(
		context.Background(), []float32{0.1}, publicTiers(),
		mustFilters(t, nil, filter.DateRange{}), 10, 0,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}

	c := candidates[0]
	if c.Item.ID != "doc-1" {
		t.Fatalf("expected key prefix stripped, got %q", c.Item.ID)
	}
	if c.Similarity != 0.87 {
		t.Fatalf("expected raw similarity preserved, got %f", c.Similarity)
	}
	if c.Item.Visibility != domain.TierPublic || c.Item.ContentType != "article" {
		t.Fatalf("unexpected item %+v", c.Item)
	}
	if len(c.Item.Tags) != 2 || c.Item.Tags[0] != "go" {
		t.Fatalf("unexpected tags %v", c.Item.Tags)
	}
	if c.Item.Metrics["views"] != 1234 {
		t.Fatalf("unexpected metrics %v", c.Item.Metrics)
	}
	if c.Item.PublishedAt != time.Unix(1742000000, 0).UTC() {
		t.Fatalf("unexpected publish date %v", c.Item.PublishedAt)
	}
}

func TestKeywordQuery_BuildsContentTypeAndDateFilter(t *testing.T) {
	store := &fakeStore{bm25Result: &db.SearchResult{}}
	repo := New(store, "findex:")

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.Keyword().Query(
		context.Background(), "go generics", publicTiers(),
		mustFilters(t, []string{"article", "video"}, filter.DateRange{From: from}), 20, 0,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := store.lastText.Filter
	if !strings.Contains(f, "@content_type:{article|video}") {
		t.Fatalf("content type clause missing from %q", f)
	}
	if !strings.Contains(f, "@published_at:[1735689600 +inf]") {
		t.Fatalf("date clause missing from %q", f)
	}
}

func TestCount_StarQueryWithoutFilters(t *testing.T) {
	store := &fakeStore{count: 42}
	repo := New(store, "findex:")

	total, err := repo.Counts().Count(
		context.Background(), domain.TierSet{},
		mustFilters(t, nil, filter.DateRange{}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 42 {
		t.Fatalf("expected 42, got %d", total)
	}
	if store.lastCountIdx != "findex:content:idx" {
		t.Fatalf("unexpected index %q", store.lastCountIdx)
	}
}

func TestQueries_WrapBackendError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	repo := New(store, "findex:")
	filters := mustFilters(t, nil, filter.DateRange{})

	if _, err := repo.Semantic().Query(
		context.Background(), []float32{1}, publicTiers(), filters, 10, 0,
	); !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("semantic: expected ErrBackend, got %v", err)
	}
	if _, err := repo.Keyword().Query(
		context.Background(), "q", publicTiers(), filters, 10, 0,
	); !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("keyword: expected ErrBackend, got %v", err)
	}
	if _, err := repo.Counts().Count(
		context.Background(), publicTiers(), filters,
	); !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("count: expected ErrBackend, got %v", err)
	}
}

func TestEscapeTagValue(t *testing.T) {
	got := escapeTagValue("c++ lang")
	if got != `c\+\+\ lang` {
		t.Fatalf("unexpected escaping %q", got)
	}
}
