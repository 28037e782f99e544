package request

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/findex/internal/domain/search/filter"
)

func TestNew(t *testing.T) {
	cases := []struct {
		name    string
		query   string
		limit   int
		offset  int
		wantErr bool
	}{
		{name: "valid", query: "golang", limit: 20, offset: 0},
		{name: "empty query allowed", query: "", limit: 10, offset: 0},
		{name: "limit defaults when zero", query: "q", limit: 0, offset: 0},
		{name: "min limit", query: "q", limit: 1, offset: 0},
		{name: "max limit", query: "q", limit: 100, offset: 0},
		{name: "limit too large", query: "q", limit: 101, wantErr: true},
		{name: "negative limit", query: "q", limit: -1, wantErr: true},
		{name: "negative offset", query: "q", limit: 10, offset: -1, wantErr: true},
		{name: "large offset ok", query: "q", limit: 10, offset: 100000},
		{name: "query too long", query: strings.Repeat("x", MaxQueryLength+1), limit: 10, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := New(tc.query, filter.Filters{}, tc.limit, tc.offset)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.limit == 0 && req.Limit() != DefaultLimit {
				t.Fatalf("expected default limit %d, got %d", DefaultLimit, req.Limit())
			}
		})
	}
}
