package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/copyforge/backend/internal/domain"
	"github.com/copyforge/backend/internal/infrastructure/search"
)

// Search sub-score bonuses. Sub-scores are capped, summed, then clamped to
// [0,100]. This score feeds, but is not identical to, the final confidence.
const (
	searchBaseScore      = 40.0 // having any result at all
	resultVolumeBonusPer = 2.0  // per returned item
	resultVolumeBonusCap = 10.0
	tokenOverlapBonusMax = 30.0 // query-token overlap with top result title
	trustedSourceBonus   = 20.0 // top result hosted on a trusted catalog
)

// LookupService queries the external search capability for entities matching
// the normalized input and turns raw results into ranked candidates.
// Lookup failure is a data outcome, never an error: the pipeline must still
// be able to proceed to fuzzy correction or refusal with zero signal.
type LookupService struct {
	client             domain.SearchClient
	trustedDomains     []string
	enableDebugLogging bool
}

// NewLookupService creates a new candidate lookup service
func NewLookupService(client domain.SearchClient, trustedDomains []string, enableDebugLogging bool) *LookupService {
	return &LookupService{
		client:             client,
		trustedDomains:     trustedDomains,
		enableDebugLogging: enableDebugLogging,
	}
}

// Lookup runs one search for the normalized query and scores the result set.
// Transport failures and missing credentials degrade to Found=false.
func (s *LookupService) Lookup(ctx context.Context, nq domain.NormalizedQuery) *domain.LookupResult {
	query := buildSearchQuery(nq)
	result := &domain.LookupResult{Query: query}

	if query == "" {
		return result
	}

	resp, err := s.client.Search(ctx, query)
	if err != nil {
		if s.enableDebugLogging {
			log.Printf("[LOOKUP] Search degraded for %q: %v", query, err)
		}
		result.Degraded = true
		return result
	}

	if len(resp.Items) == 0 {
		return result
	}

	candidates := search.MapToCandidates(resp.Items, s.trustedDomains)
	for i := range candidates {
		candidates[i].ExactMatch = isExactMatch(nq, candidates[i].ProductName)
		if candidates[i].ExactMatch {
			candidates[i].Brand = nq.Brand
		}
	}

	result.Found = true
	result.Candidates = candidates
	result.TotalResults = resp.TotalResults
	result.SearchScore = scoreSearchResults(nq, candidates, len(resp.Items))

	if s.enableDebugLogging {
		log.Printf("[LOOKUP] %q: %d candidates, sub-score %.1f, top %q (%s)",
			query, len(candidates), result.SearchScore, candidates[0].ProductName, candidates[0].Source)
	}

	return result
}

// buildSearchQuery combines brand and product into one focused search string.
// Brand goes first unless the product name already contains it.
func buildSearchQuery(nq domain.NormalizedQuery) string {
	product := nq.ProductName
	if nq.Brand == "" {
		return product
	}
	if strings.Contains(product, nq.Brand) {
		return product
	}
	return strings.TrimSpace(nq.Brand + " " + product)
}

// isExactMatch reports whether a candidate title contains every product
// token and every brand token of the normalized query
func isExactMatch(nq domain.NormalizedQuery, title string) bool {
	if len(nq.ProductTokens) == 0 {
		return false
	}

	titleTokens := make(map[string]bool)
	for _, p := range splitTokenPairs(title) {
		titleTokens[p.Norm] = true
	}

	for _, t := range nq.ProductTokens {
		if !titleTokens[t] {
			return false
		}
	}
	for _, t := range nq.BrandTokens {
		if !titleTokens[t] {
			return false
		}
	}
	return true
}

// scoreSearchResults computes the 0-100 search sub-score:
// base score for any result, capped volume bonus, token overlap with the
// top title, and a trusted-host bonus for the top result.
func scoreSearchResults(nq domain.NormalizedQuery, candidates []domain.Candidate, itemCount int) float64 {
	if len(candidates) == 0 {
		return 0
	}

	score := searchBaseScore

	volume := resultVolumeBonusPer * float64(itemCount)
	if volume > resultVolumeBonusCap {
		volume = resultVolumeBonusCap
	}
	score += volume

	score += tokenOverlapBonusMax * topTitleOverlap(nq, candidates[0].ProductName)

	if candidates[0].Trusted {
		score += trustedSourceBonus
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// topTitleOverlap returns the fraction of query tokens (product + brand)
// present in the top result title
func topTitleOverlap(nq domain.NormalizedQuery, title string) float64 {
	queryTokens := append(append([]string{}, nq.ProductTokens...), nq.BrandTokens...)
	if len(queryTokens) == 0 {
		return 0
	}

	titleTokens := make(map[string]bool)
	for _, p := range splitTokenPairs(title) {
		titleTokens[p.Norm] = true
	}

	matched := 0
	for _, t := range queryTokens {
		if titleTokens[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}
