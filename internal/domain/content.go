package domain

import "time"

// Tier is a content visibility tier gating which viewers may see an item.
type Tier string

// Visibility tiers, from least to most restricted.
const (
	TierPublic       Tier = "public"
	TierCommunity    Tier = "community"
	TierEmployeeOnly Tier = "employee_only"
	TierPrivate      Tier = "private"
)

// IsValid reports whether t is a known visibility tier.
func (t Tier) IsValid() bool {
	switch t {
	case TierPublic, TierCommunity, TierEmployeeOnly, TierPrivate:
		return true
	}
	return false
}

// TierSet is a set of visibility tiers.
type TierSet map[Tier]struct{}

// NewTierSet builds a set from the given tiers.
func NewTierSet(tiers ...Tier) TierSet {
	s := make(TierSet, len(tiers))
	for _, t := range tiers {
		s[t] = struct{}{}
	}
	return s
}

// Contains reports whether t is in the set.
func (s TierSet) Contains(t Tier) bool {
	_, ok := s[t]
	return ok
}

// Intersect returns the tiers present in both sets.
func (s TierSet) Intersect(other TierSet) TierSet {
	out := make(TierSet)
	for t := range s {
		if other.Contains(t) {
			out[t] = struct{}{}
		}
	}
	return out
}

// IsEmpty reports whether the set has no tiers.
func (s TierSet) IsEmpty() bool { return len(s) == 0 }

// Slice returns the tiers in stable (tier-name) order.
func (s TierSet) Slice() []Tier {
	ordered := []Tier{TierPublic, TierCommunity, TierEmployeeOnly, TierPrivate}
	out := make([]Tier, 0, len(s))
	for _, t := range ordered {
		if s.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// ContentItem is a searchable content record. The search core treats it as
// opaque beyond ID and Visibility.
type ContentItem struct {
	ID           string             `json:"id"`
	OwnerID      string             `json:"owner_id"`
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	ContentType  string             `json:"content_type"`
	Visibility   Tier               `json:"visibility"`
	Tags         []string           `json:"tags,omitempty"`
	PublishedAt  time.Time          `json:"published_at"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
	URL          string             `json:"url,omitempty"`
	ThumbnailURL string             `json:"thumbnail_url,omitempty"`
}
