// Package filter defines the structured content filters a search request may carry.
package filter

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/findex/internal/domain"
)

// MaxValuesPerGroup is the maximum number of values per filter group.
const MaxValuesPerGroup = 32

// DateRange bounds the publish date of matched items. Zero values mean unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether the range has no bounds.
func (r DateRange) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Filters narrows a search to matching content. All groups combine with AND;
// values inside a group combine with OR.
type Filters struct {
	contentTypes []string
	tags         []string
	badges       []string
	dateRange    DateRange
	visibility   []domain.Tier
}

// New validates and creates Filters.
func New(
	contentTypes, tags, badges []string,
	dateRange DateRange,
	visibility []domain.Tier,
) (Filters, error) {
	for name, group := range map[string][]string{
		"content_types": contentTypes,
		"tags":          tags,
		"badges":        badges,
	} {
		if len(group) > MaxValuesPerGroup {
			return Filters{}, fmt.Errorf("too many %s values (max %d)", name, MaxValuesPerGroup)
		}
	}
	if !dateRange.From.IsZero() && !dateRange.To.IsZero() && dateRange.To.Before(dateRange.From) {
		return Filters{}, fmt.Errorf("date range end before start")
	}
	for _, t := range visibility {
		if !t.IsValid() {
			return Filters{}, fmt.Errorf("unknown visibility tier %q", t)
		}
	}
	return Filters{
		contentTypes: contentTypes,
		tags:         tags,
		badges:       badges,
		dateRange:    dateRange,
		visibility:   visibility,
	}, nil
}

// ContentTypes returns the requested content type values.
func (f Filters) ContentTypes() []string { return f.contentTypes }

// Tags returns the requested tag values.
func (f Filters) Tags() []string { return f.tags }

// Badges returns the requested badge values.
func (f Filters) Badges() []string { return f.badges }

// DateRange returns the publish date bounds.
func (f Filters) DateRange() DateRange { return f.dateRange }

// Visibility returns the caller-requested visibility subset
// (intersected with the allowed set before any backend query).
func (f Filters) Visibility() []domain.Tier { return f.visibility }

// IsEmpty reports whether no filter group is set.
func (f Filters) IsEmpty() bool {
	return len(f.contentTypes) == 0 && len(f.tags) == 0 && len(f.badges) == 0 &&
		f.dateRange.IsZero() && len(f.visibility) == 0
}
