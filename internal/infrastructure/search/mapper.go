package search

import (
	"strings"

	"github.com/copyforge/backend/internal/domain"
)

// MapToCandidates converts raw search items to domain candidates.
// Popularity is a rank-derived proxy in [0,1]: the top result gets 1.0 and
// each following rank decays, floored so tail results keep a small weight.
// Exact-match detection is left to the lookup stage, which owns the
// normalized query tokens.
func MapToCandidates(items []domain.SearchItem, trustedDomains []string) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(items))

	for i, item := range items {
		candidates = append(candidates, domain.Candidate{
			ProductName: CleanTitle(item.Title),
			Source:      item.DisplayLink,
			SourceURL:   item.Link,
			Snippet:     item.Snippet,
			Trusted:     IsTrustedHost(item.DisplayLink, trustedDomains),
			Popularity:  popularityForRank(i),
		})
	}

	return candidates
}

// popularityForRank maps a zero-based result rank to a 0-1 popularity proxy
func popularityForRank(rank int) float64 {
	p := 1.0 - 0.15*float64(rank)
	if p < 0.1 {
		p = 0.1
	}
	return p
}

// CleanTitle strips site branding from a result title.
// Retailer pages title like "Sauvage Eau de Parfum | Sephora"; everything
// after the first pipe is the site name, not the product.
func CleanTitle(title string) string {
	if idx := strings.Index(title, "|"); idx > 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}

// IsTrustedHost checks whether a display host belongs to one of the
// designated beauty-catalog domains, including subdomains
func IsTrustedHost(host string, trustedDomains []string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return false
	}
	for _, d := range trustedDomains {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
