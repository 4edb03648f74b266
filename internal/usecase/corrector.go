package usecase

import (
	"log"
	"sort"
	"strings"

	"github.com/copyforge/backend/internal/domain"
)

// Proposal is one corrected-candidate suggestion from the fuzzy corrector
type Proposal struct {
	Candidate            domain.Candidate
	CorrectedProductName string
	CorrectedBrand       string
	Similarity           float64 // 0-1, edit-distance derived
	EditDistance         int
	PhoneticMatch        bool
	Popularity           float64
}

// Corrector proposes the closest known candidate for inputs that produced no
// exact lookup hit, using string-edit distance plus a phonetic code to catch
// misheard or mis-transliterated names.
type Corrector struct {
	minSimilarity      float64
	enableDebugLogging bool
}

// NewCorrector creates a fuzzy corrector. minSimilarity is the floor below
// which a candidate is not worth proposing (default 0.6).
func NewCorrector(minSimilarity float64, enableDebugLogging bool) *Corrector {
	if minSimilarity <= 0 || minSimilarity > 1 {
		minSimilarity = 0.6
	}
	return &Corrector{
		minSimilarity:      minSimilarity,
		enableDebugLogging: enableDebugLogging,
	}
}

// Propose builds ranked correction proposals from the candidate list.
// Exact-match candidates are skipped: there is nothing to correct.
func (c *Corrector) Propose(nq domain.NormalizedQuery, candidates []domain.Candidate) []Proposal {
	if len(nq.ProductTokens) == 0 {
		return nil
	}

	var proposals []Proposal
	for _, cand := range candidates {
		if cand.ExactMatch {
			continue
		}

		p, ok := c.proposeFrom(nq, cand)
		if !ok {
			continue
		}
		proposals = append(proposals, p)
	}

	rankProposals(proposals)

	if c.enableDebugLogging && len(proposals) > 0 {
		log.Printf("[FUZZY] Best proposal: %q (sim=%.2f, dist=%d, phonetic=%v, pop=%.2f)",
			proposals[0].CorrectedProductName, proposals[0].Similarity,
			proposals[0].EditDistance, proposals[0].PhoneticMatch, proposals[0].Popularity)
	}

	return proposals
}

// proposeFrom aligns the query tokens against one candidate title and
// builds a correction proposal, or reports that the candidate is too far
func (c *Corrector) proposeFrom(nq domain.NormalizedQuery, cand domain.Candidate) (Proposal, bool) {
	titlePairs := splitTokenPairs(cand.ProductName)
	if len(titlePairs) == 0 {
		return Proposal{}, false
	}

	prodRaw, prodNorm, prodOK := alignTokens(nq.ProductTokens, titlePairs)
	if !prodOK {
		return Proposal{}, false
	}

	queryJoined := strings.Join(nq.ProductTokens, " ")
	dist := levenshteinDistance(queryJoined, prodNorm)
	sim := similarityFromDistance(dist, queryJoined, prodNorm)

	brandSim := 1.0
	correctedBrand := ""
	if len(nq.BrandTokens) > 0 && !containsAll(titlePairs, nq.BrandTokens) {
		bRaw, bNorm, bOK := alignTokens(nq.BrandTokens, titlePairs)
		if !bOK {
			return Proposal{}, false
		}
		brandJoined := strings.Join(nq.BrandTokens, " ")
		bDist := levenshteinDistance(brandJoined, bNorm)
		brandSim = similarityFromDistance(bDist, brandJoined, bNorm)
		if bNorm != brandJoined {
			correctedBrand = bRaw
		}
	}

	overall := sim
	if brandSim < overall {
		overall = brandSim
	}
	if overall < c.minSimilarity {
		return Proposal{}, false
	}

	correctedProduct := ""
	if prodNorm != queryJoined {
		correctedProduct = prodRaw
	}
	if correctedProduct == "" && correctedBrand == "" {
		// Nothing actually differs; not a correction
		return Proposal{}, false
	}

	return Proposal{
		Candidate:            cand,
		CorrectedProductName: correctedProduct,
		CorrectedBrand:       correctedBrand,
		Similarity:           overall,
		EditDistance:         dist,
		PhoneticMatch:        soundex(queryJoined) == soundex(prodNorm),
		Popularity:           cand.Popularity,
	}, true
}

// alignTokens maps each query token to its closest title token and returns
// the raw-cased and normalized joined forms. Fails when any token has no
// plausible counterpart (relative distance above half the token length).
func alignTokens(queryTokens []string, titlePairs []tokenPair) (raw string, normalized string, ok bool) {
	var raws, norms []string
	for _, qt := range queryTokens {
		best := -1
		bestDist := 0
		for i, tp := range titlePairs {
			d := levenshteinDistance(qt, tp.Norm)
			if best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		if best == -1 || bestDist > len(qt)/2+1 {
			return "", "", false
		}
		raws = append(raws, titlePairs[best].Raw)
		norms = append(norms, titlePairs[best].Norm)
	}
	return strings.Join(raws, " "), strings.Join(norms, " "), true
}

// containsAll reports whether every token appears verbatim in the title
func containsAll(titlePairs []tokenPair, tokens []string) bool {
	set := make(map[string]bool, len(titlePairs))
	for _, tp := range titlePairs {
		set[tp.Norm] = true
	}
	for _, t := range tokens {
		if !set[t] {
			return false
		}
	}
	return true
}

// similarityFromDistance converts an edit distance to a 0-1 similarity
func similarityFromDistance(dist int, a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	sim := 1.0 - float64(dist)/float64(maxLen)
	if sim < 0 {
		sim = 0
	}
	return sim
}

// rankProposals orders proposals by the correction policy: within a
// one-edit band of the best distance, a more popular (more frequently
// attested) candidate outranks a marginally closer string match. This is
// policy, not correctness: a widely attested entity is a safer correction
// than a rare near-exact one.
func rankProposals(ps []Proposal) {
	if len(ps) < 2 {
		return
	}

	minDist := ps[0].EditDistance
	for _, p := range ps[1:] {
		if p.EditDistance < minDist {
			minDist = p.EditDistance
		}
	}

	band := func(p Proposal) int {
		if p.EditDistance <= minDist+1 {
			return 0
		}
		return p.EditDistance
	}

	sort.SliceStable(ps, func(i, j int) bool {
		bi, bj := band(ps[i]), band(ps[j])
		if bi != bj {
			return bi < bj
		}
		if ps[i].Popularity != ps[j].Popularity {
			return ps[i].Popularity > ps[j].Popularity
		}
		if ps[i].PhoneticMatch != ps[j].PhoneticMatch {
			return ps[i].PhoneticMatch
		}
		return ps[i].Similarity > ps[j].Similarity
	})
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Two rows instead of the full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// soundexCodes maps consonants to their Soundex digit
var soundexCodes = map[byte]byte{
	'b': '1', 'f': '1', 'p': '1', 'v': '1',
	'c': '2', 'g': '2', 'j': '2', 'k': '2', 'q': '2', 's': '2', 'x': '2', 'z': '2',
	'd': '3', 't': '3',
	'l': '4',
	'm': '5', 'n': '5',
	'r': '6',
}

// soundex computes a Soundex-style phonetic code over the letters of s,
// catching misheard names ("jador" and "jadore" share a code)
func soundex(s string) string {
	var letters []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			letters = append(letters, c)
		}
	}
	if len(letters) == 0 {
		return ""
	}

	code := []byte{letters[0] - 'a' + 'A'}
	lastDigit := soundexCodes[letters[0]]
	for _, c := range letters[1:] {
		d, ok := soundexCodes[c]
		if !ok {
			// Vowels and h/w/y reset the adjacency rule
			lastDigit = 0
			continue
		}
		if d == lastDigit {
			continue
		}
		code = append(code, d)
		lastDigit = d
		if len(code) == 4 {
			break
		}
	}

	for len(code) < 4 {
		code = append(code, '0')
	}
	return string(code)
}
