// Package content implements the semantic, keyword and count stores consumed
// by the search orchestrator, backed by a single FT index over content hashes.
package content

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/findex/internal/db"
	"github.com/kailas-cloud/findex/internal/domain"
	"github.com/kailas-cloud/findex/internal/domain/search/filter"
	"github.com/kailas-cloud/findex/internal/domain/search/result"
)

// Indexed field names of the content hash.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldContentType = "content_type"
	fieldVisibility  = "visibility"
	fieldOwnerID     = "owner_id"
	fieldTags        = "tags"
	fieldBadges      = "badges"
	fieldPublishedAt = "published_at"
	fieldURL         = "url"
	fieldThumbnail   = "thumbnail_url"
)

var returnFields = []string{
	fieldTitle, fieldDescription, fieldContentType, fieldVisibility,
	fieldOwnerID, fieldTags, fieldPublishedAt, fieldURL, fieldThumbnail,
}

// store is the consumer interface for content search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements the orchestrator's SemanticStore, KeywordStore and CountStore.
type Repo struct {
	store     store
	keyPrefix string
	indexName string
}

// New creates a content repository over the FT index derived from keyPrefix.
func New(s store, keyPrefix string) *Repo {
	return &Repo{
		store:     s,
		keyPrefix: keyPrefix,
		indexName: keyPrefix + "content:idx",
	}
}

// Semantic returns the vector-similarity store view of the repository.
func (r *Repo) Semantic() *SemanticRepo { return &SemanticRepo{r} }

// Keyword returns the full-text store view of the repository.
func (r *Repo) Keyword() *KeywordRepo { return &KeywordRepo{r} }

// Counts returns the count store view of the repository.
func (r *Repo) Counts() *CountRepo { return &CountRepo{r} }

// SemanticRepo retrieves candidates by vector similarity.
type SemanticRepo struct{ repo *Repo }

// Query runs a KNN search restricted to the given tiers and filters.
func (s *SemanticRepo) Query(
	ctx context.Context, vector []float32,
	tiers domain.TierSet, filters filter.Filters,
	limit, offset int,
) ([]result.SemanticCandidate, error) {
	q := &db.KNNQuery{
		IndexName:    s.repo.indexName,
		Filter:       buildFilter(tiers, filters),
		Vector:       vector,
		K:            limit + offset,
		ReturnFields: returnFields,
	}

	sr, err := s.repo.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w: %w", err, domain.ErrBackend)
	}

	entries := skipOffset(sr, offset)
	candidates := make([]result.SemanticCandidate, 0, len(entries))
	for _, entry := range entries {
		candidates = append(candidates, result.SemanticCandidate{
			Item:       s.repo.parseItem(entry),
			Similarity: entry.Score,
		})
	}
	return candidates, nil
}

// KeywordRepo retrieves candidates by full-text relevance.
type KeywordRepo struct{ repo *Repo }

// Query runs a BM25 search restricted to the given tiers and filters.
func (k *KeywordRepo) Query(
	ctx context.Context, text string,
	tiers domain.TierSet, filters filter.Filters,
	limit, offset int,
) ([]result.KeywordCandidate, error) {
	q := &db.TextQuery{
		IndexName:    k.repo.indexName,
		Query:        text,
		Filter:       buildFilter(tiers, filters),
		TopK:         limit + offset,
		ReturnFields: returnFields,
	}

	sr, err := k.repo.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w: %w", err, domain.ErrBackend)
	}

	entries := skipOffset(sr, offset)
	candidates := make([]result.KeywordCandidate, 0, len(entries))
	for _, entry := range entries {
		candidates = append(candidates, result.KeywordCandidate{
			Item: k.repo.parseItem(entry),
			Rank: entry.Score,
		})
	}
	return candidates, nil
}

// CountRepo returns authoritative match counts.
type CountRepo struct{ repo *Repo }

// Count returns the total number of items matching tiers and filters.
func (c *CountRepo) Count(
	ctx context.Context, tiers domain.TierSet, filters filter.Filters,
) (int, error) {
	query := buildFilter(tiers, filters)
	if query == "" {
		query = "*"
	}

	total, err := c.repo.store.SearchCount(ctx, c.repo.indexName, query)
	if err != nil {
		return 0, fmt.Errorf("search count: %w: %w", err, domain.ErrBackend)
	}
	return total, nil
}

func skipOffset(sr *db.SearchResult, offset int) []db.SearchEntry {
	if sr == nil || offset >= len(sr.Entries) {
		return nil
	}
	return sr.Entries[offset:]
}

// parseItem hydrates a ContentItem from flat hash fields.
func (r *Repo) parseItem(entry db.SearchEntry) domain.ContentItem {
	item := domain.ContentItem{
		ID: strings.TrimPrefix(entry.Key, r.keyPrefix+"content:"),
	}

	for k, v := range entry.Fields {
		switch k {
		case fieldTitle:
			item.Title = v
		case fieldDescription:
			item.Description = v
		case fieldContentType:
			item.ContentType = v
		case fieldVisibility:
			item.Visibility = domain.Tier(v)
		case fieldOwnerID:
			item.OwnerID = v
		case fieldTags:
			item.Tags = splitTags(v)
		case fieldPublishedAt:
			if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
				item.PublishedAt = time.Unix(ts, 0).UTC()
			}
		case fieldURL:
			item.URL = v
		case fieldThumbnail:
			item.ThumbnailURL = v
		default:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				if item.Metrics == nil {
					item.Metrics = make(map[string]float64)
				}
				item.Metrics[k] = f
			}
		}
	}

	return item
}

func splitTags(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// --- Filter building ---

// buildFilter translates the resolved tiers and request filters into an
// FT.SEARCH pre-filter expression. The visibility clause is always present:
// no candidate outside the caller's tiers can reach fusion.
func buildFilter(tiers domain.TierSet, filters filter.Filters) string {
	var parts []string

	if !tiers.IsEmpty() {
		tierValues := make([]string, 0, len(tiers))
		for _, t := range tiers.Slice() {
			tierValues = append(tierValues, string(t))
		}
		parts = append(parts, buildTagFilter(fieldVisibility, tierValues))
	}

	if values := filters.ContentTypes(); len(values) > 0 {
		parts = append(parts, buildTagFilter(fieldContentType, values))
	}
	if values := filters.Tags(); len(values) > 0 {
		parts = append(parts, buildTagFilter(fieldTags, values))
	}
	if values := filters.Badges(); len(values) > 0 {
		parts = append(parts, buildTagFilter(fieldBadges, values))
	}
	if dr := filters.DateRange(); !dr.IsZero() {
		parts = append(parts, buildDateFilter(fieldPublishedAt, dr))
	}

	return strings.Join(parts, " ")
}

func buildTagFilter(field string, values []string) string {
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		escaped = append(escaped, escapeTagValue(v))
	}
	return fmt.Sprintf("@%s:{%s}", field, strings.Join(escaped, "|"))
}

func buildDateFilter(field string, dr filter.DateRange) string {
	from := "-inf"
	if !dr.From.IsZero() {
		from = strconv.FormatInt(dr.From.Unix(), 10)
	}
	to := "+inf"
	if !dr.To.IsZero() {
		to = strconv.FormatInt(dr.To.Unix(), 10)
	}
	return fmt.Sprintf("@%s:[%s %s]", field, from, to)
}

// escapeTagValue escapes characters that terminate or split TAG values.
func escapeTagValue(v string) string {
	replacer := strings.NewReplacer(
		" ", `\ `, ",", `\,`, ".", `\.`, "<", `\<`, ">", `\>`,
		"{", `\{`, "}", `\}`, "[", `\[`, "]", `\]`, `"`, `\"`,
		"'", `\'`, ":", `\:`, ";", `\;`, "!", `\!`, "@", `\@`,
		"#", `\#`, "$", `\$`, "%", `\%`, "^", `\^`, "&", `\&`,
		"*", `\*`, "(", `\(`, ")", `\)`, "-", `\-`, "+", `\+`,
		"=", `\=`, "~", `\~`, "|", `\|`, "/", `\/`, `\`, `\\`,
	)
	return replacer.Replace(v)
}
