// Package visibility derives the set of content tiers a caller may see.
package visibility

import "github.com/kailas-cloud/findex/internal/domain"

// Context carries the caller identity facts relevant to visibility.
// Token verification happens at the boundary; this layer trusts the flags.
type Context struct {
	IsAuthenticated bool
	Badges          []string
	IsEmployee      bool
}

// Resolver computes effective visibility tier sets.
type Resolver struct {
	communityBadges map[string]struct{}
}

// New creates a resolver. communityBadges is the set of badges that grant
// access to community-tier content.
func New(communityBadges []string) *Resolver {
	set := make(map[string]struct{}, len(communityBadges))
	for _, b := range communityBadges {
		if b != "" {
			set[b] = struct{}{}
		}
	}
	return &Resolver{communityBadges: set}
}

// Resolve returns the tiers the caller is allowed to see, intersected with the
// caller-requested subset when one is given. An empty result means the
// orchestrator must short-circuit to an empty page without querying backends.
//
// Unauthenticated callers get exactly {public}. Authenticated callers with a
// community-recognized badge additionally get {community}; employees get
// {employee_only} on top.
func (r *Resolver) Resolve(auth Context, requested []domain.Tier) domain.TierSet {
	allowed := domain.NewTierSet(domain.TierPublic)

	if auth.IsAuthenticated {
		if r.hasCommunityBadge(auth.Badges) {
			allowed[domain.TierCommunity] = struct{}{}
		}
		if auth.IsEmployee {
			allowed[domain.TierEmployeeOnly] = struct{}{}
		}
	}

	if len(requested) == 0 {
		return allowed
	}
	return allowed.Intersect(domain.NewTierSet(requested...))
}

func (r *Resolver) hasCommunityBadge(badges []string) bool {
	for _, b := range badges {
		if _, ok := r.communityBadges[b]; ok {
			return true
		}
	}
	return false
}
