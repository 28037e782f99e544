package search

import (
	"sort"

	"github.com/kailas-cloud/findex/internal/domain"
	"github.com/kailas-cloud/findex/internal/domain/search/result"
)

// Fusion weights. Fixed constants of the design, not request-tunable.
const (
	semanticWeight = 0.7
	keywordWeight  = 0.3
)

// fuse merges semantic and keyword candidates into one ordered page.
// Each channel is normalized by its own max score (floor 1 so already-small
// scores are not inflated), then combined per item id:
// combined = 0.7*simNorm + 0.3*rankNorm. Items found by only one channel
// keep that channel's weighted share. Equal scores order by ascending id so
// pagination is deterministic. Scores never leave this function.
func fuse(
	semantic []result.SemanticCandidate,
	keyword []result.KeywordCandidate,
	limit, offset int,
) []domain.ContentItem {
	type scored struct {
		item  domain.ContentItem
		score float64
	}

	maxSimilarity := 1.0
	for _, c := range semantic {
		if c.Similarity > maxSimilarity {
			maxSimilarity = c.Similarity
		}
	}
	maxRank := 1.0
	for _, c := range keyword {
		if c.Rank > maxRank {
			maxRank = c.Rank
		}
	}

	merged := make(map[string]*scored, len(semantic)+len(keyword))

	for _, c := range semantic {
		merged[c.Item.ID] = &scored{
			item:  c.Item,
			score: c.Similarity / maxSimilarity * semanticWeight,
		}
	}

	for _, c := range keyword {
		contribution := c.Rank / maxRank * keywordWeight
		if existing, ok := merged[c.Item.ID]; ok {
			existing.score += contribution
		} else {
			merged[c.Item.ID] = &scored{item: c.Item, score: contribution}
		}
	}

	ranked := make([]*scored, 0, len(merged))
	for _, s := range merged {
		ranked = append(ranked, s)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].item.ID < ranked[j].item.ID
	})

	if offset >= len(ranked) {
		return []domain.ContentItem{}
	}
	end := offset + limit
	if end > len(ranked) {
		end = len(ranked)
	}

	items := make([]domain.ContentItem, 0, end-offset)
	for _, s := range ranked[offset:end] {
		items = append(items, s.item)
	}
	return items
}
