package usecase

import (
	"log"

	"github.com/copyforge/backend/internal/domain"
)

// Fuzzy-path score composition. Exact lookup matches score highest (the
// search sub-score carries through), fuzzy/phonetic matches are capped below
// the auto-accept band, and zero signal scores exactly 0.
const (
	fuzzyBaseScore        = 40.0
	fuzzySimilarityWeight = 30.0
	phoneticMatchBonus    = 8.0
	popularityBonusMax    = 6.0
	fuzzyScoreCeiling     = 84.0 // fuzzy corrections never auto-accept silently

	weakSignalFactor  = 0.5 // results exist but none exact, none correctable
	weakSignalCeiling = 55.0
)

// Scorer combines lookup strength, fuzzy distance, phonetic distance, and
// source popularity into a single confidence score in [0,100]. The score is
// a pure function of its inputs: identical signals always reproduce it.
type Scorer struct {
	enableDebugLogging bool
}

// NewScorer creates a new confidence scorer
func NewScorer(enableDebugLogging bool) *Scorer {
	return &Scorer{enableDebugLogging: enableDebugLogging}
}

// Score computes the confidence score for one pipeline run.
// best is the top-ranked correction proposal, or nil when none survived.
func (s *Scorer) Score(lookup *domain.LookupResult, best *Proposal) float64 {
	score := s.compute(lookup, best)

	if s.enableDebugLogging {
		log.Printf("[SCORE] confidence=%.1f (found=%v, exact=%v, searchScore=%.1f, proposal=%v)",
			score, lookup.Found, hasExactMatch(lookup), lookup.SearchScore, best != nil)
	}

	return score
}

func (s *Scorer) compute(lookup *domain.LookupResult, best *Proposal) float64 {
	// Exact lookup hit: the search sub-score (base + volume + overlap +
	// trusted-source bonuses) is the confidence
	if lookup.Found && hasExactMatch(lookup) {
		return clampScore(lookup.SearchScore)
	}

	// Fuzzy correction available: weighted below exact matches
	if best != nil {
		score := fuzzyBaseScore + best.Similarity*fuzzySimilarityWeight
		if best.PhoneticMatch {
			score += phoneticMatchBonus
		}
		pop := best.Popularity
		if pop > 1 {
			pop = 1
		}
		score += pop * popularityBonusMax
		if score > fuzzyScoreCeiling {
			score = fuzzyScoreCeiling
		}
		return clampScore(score)
	}

	// Results exist but none matched exactly and none was correctable:
	// weak evidence that something similar exists, well below acceptance
	if lookup.Found {
		score := lookup.SearchScore * weakSignalFactor
		if score > weakSignalCeiling {
			score = weakSignalCeiling
		}
		return clampScore(score)
	}

	// No signal at all scores exactly 0, the explicit floor
	return 0
}

// hasExactMatch reports whether any candidate matched the query exactly
func hasExactMatch(lookup *domain.LookupResult) bool {
	for _, c := range lookup.Candidates {
		if c.ExactMatch {
			return true
		}
	}
	return false
}

// clampScore bounds a score to [0,100]
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
