package usecase

import (
	"context"
	"testing"

	"github.com/copyforge/backend/internal/domain"
)

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name string
		nq   domain.NormalizedQuery
		want string
	}{
		{"brand prepended", domain.NormalizedQuery{ProductName: "sauvage", Brand: "dior"}, "dior sauvage"},
		{"brand already in product", domain.NormalizedQuery{ProductName: "dior sauvage", Brand: "dior"}, "dior sauvage"},
		{"no brand", domain.NormalizedQuery{ProductName: "sauvage"}, "sauvage"},
		{"empty", domain.NormalizedQuery{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildSearchQuery(tt.nq); got != tt.want {
				t.Errorf("buildSearchQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsExactMatch(t *testing.T) {
	nq := domain.NormalizedQuery{
		ProductName:   "sauvage",
		Brand:         "dior",
		ProductTokens: []string{"sauvage"},
		BrandTokens:   []string{"dior"},
	}

	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"all tokens present", "Sauvage Dior - Eau de Parfum", true},
		{"case and accents folded", "SAUVAGE Dior Édition", true},
		{"brand missing", "Sauvage Eau de Parfum", false},
		{"product missing", "Dior J'adore Eau de Parfum", false},
		{"empty title", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isExactMatch(nq, tt.title); got != tt.want {
				t.Errorf("isExactMatch(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}

	t.Run("no product tokens never matches", func(t *testing.T) {
		if isExactMatch(domain.NormalizedQuery{}, "anything") {
			t.Error("isExactMatch with no tokens = true, want false")
		}
	})
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	nq := domain.NormalizedQuery{
		ProductName:   "sauvage",
		Brand:         "dior",
		ProductTokens: []string{"sauvage"},
		BrandTokens:   []string{"dior"},
	}

	t.Run("exact trusted match earns the full sub-score", func(t *testing.T) {
		client := &mockSearchClient{resp: sauvageResponse()}
		s := NewLookupService(client, testTrustedDomains, false)

		result := s.Lookup(ctx, nq)
		if !result.Found || result.Degraded {
			t.Fatalf("Found=%v Degraded=%v, want a normal result", result.Found, result.Degraded)
		}
		if len(result.Candidates) != 3 {
			t.Fatalf("len(Candidates) = %d, want 3", len(result.Candidates))
		}
		if !result.Candidates[0].ExactMatch {
			t.Error("top candidate not flagged as an exact match")
		}
		// base 40 + volume 6 + full overlap 30 + trusted 20
		if result.SearchScore != 96 {
			t.Errorf("SearchScore = %.1f, want 96", result.SearchScore)
		}
	})

	t.Run("transport failure degrades to zero signal", func(t *testing.T) {
		client := &mockSearchClient{err: domain.ErrSearchUnavailable}
		s := NewLookupService(client, testTrustedDomains, false)

		result := s.Lookup(ctx, nq)
		if !result.Degraded {
			t.Error("Degraded = false, want true on transport failure")
		}
		if result.Found || len(result.Candidates) != 0 || result.SearchScore != 0 {
			t.Error("degraded lookup must carry no candidates and no score")
		}
	})

	t.Run("missing credentials degrade the same way", func(t *testing.T) {
		client := &mockSearchClient{err: domain.ErrSearchNotConfigured}
		s := NewLookupService(client, testTrustedDomains, false)

		result := s.Lookup(ctx, nq)
		if !result.Degraded || result.Found {
			t.Errorf("Degraded=%v Found=%v, want degraded empty result", result.Degraded, result.Found)
		}
	})

	t.Run("empty result set is found=false without degradation", func(t *testing.T) {
		client := &mockSearchClient{resp: &domain.SearchResponse{}}
		s := NewLookupService(client, testTrustedDomains, false)

		result := s.Lookup(ctx, nq)
		if result.Found || result.Degraded {
			t.Errorf("Found=%v Degraded=%v, want neither for an empty result set", result.Found, result.Degraded)
		}
		if result.SearchScore != 0 {
			t.Errorf("SearchScore = %.1f, want 0", result.SearchScore)
		}
	})

	t.Run("empty query skips the search call", func(t *testing.T) {
		client := &mockSearchClient{resp: sauvageResponse()}
		s := NewLookupService(client, testTrustedDomains, false)

		result := s.Lookup(ctx, domain.NormalizedQuery{})
		if client.calls != 0 {
			t.Errorf("search calls = %d, want 0 for an empty query", client.calls)
		}
		if result.Found || result.Degraded {
			t.Error("empty query must produce an empty non-degraded result")
		}
	})
}
