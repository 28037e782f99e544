package visibility

import (
	"testing"

	"github.com/kailas-cloud/findex/internal/domain"
)

func TestResolve(t *testing.T) {
	resolver := New([]string{"mvp", "moderator"})

	cases := []struct {
		name      string
		auth      Context
		requested []domain.Tier
		want      []domain.Tier
	}{
		{
			name: "anonymous gets exactly public",
			auth: Context{},
			want: []domain.Tier{domain.TierPublic},
		},
		{
			name: "authenticated without community badge gets public only",
			auth: Context{IsAuthenticated: true, Badges: []string{"early-adopter"}},
			want: []domain.Tier{domain.TierPublic},
		},
		{
			name: "community badge adds community tier",
			auth: Context{IsAuthenticated: true, Badges: []string{"mvp"}},
			want: []domain.Tier{domain.TierPublic, domain.TierCommunity},
		},
		{
			name: "employee adds employee tier",
			auth: Context{IsAuthenticated: true, IsEmployee: true},
			want: []domain.Tier{domain.TierPublic, domain.TierEmployeeOnly},
		},
		{
			name: "employee flag ignored for unauthenticated caller",
			auth: Context{IsEmployee: true, Badges: []string{"mvp"}},
			want: []domain.Tier{domain.TierPublic},
		},
		{
			name:      "requested subset intersects allowed",
			auth:      Context{IsAuthenticated: true, Badges: []string{"moderator"}},
			requested: []domain.Tier{domain.TierCommunity},
			want:      []domain.Tier{domain.TierCommunity},
		},
		{
			name:      "anonymous requesting employee-only gets empty set",
			auth:      Context{},
			requested: []domain.Tier{domain.TierEmployeeOnly},
			want:      nil,
		},
		{
			name:      "private is never granted",
			auth:      Context{IsAuthenticated: true, IsEmployee: true, Badges: []string{"mvp"}},
			requested: []domain.Tier{domain.TierPrivate},
			want:      nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolver.Resolve(tc.auth, tc.requested)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got.Slice())
			}
			for _, tier := range tc.want {
				if !got.Contains(tier) {
					t.Fatalf("expected %v, got %v", tc.want, got.Slice())
				}
			}
		})
	}
}
