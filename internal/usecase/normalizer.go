package usecase

import (
	"log"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/copyforge/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex    = regexp.MustCompile(`[^\w\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)

	// Matches size/volume patterns common on beauty listings: "100 ml",
	// "3.4 fl oz", "50ml", "1.7oz", "200 g"
	sizePatternRegex = regexp.MustCompile(
		`(?i)\b\d+[.,]?\d*\s*(?:fl\s*oz|oz|ml|cl|l|litres?|liters?|g|gr|grammes?|grams?|kg)\b`,
	)
)

// diacriticFold strips combining marks after canonical decomposition, so
// "Guérlain" and "Guerlain" normalize to the same string
var diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// retailNoiseWords are listing/packaging terms that carry no identity signal
var retailNoiseWords = map[string]bool{
	// Packaging / formats
	"coffret": true, "vaporisateur": true, "spray": true, "recharge": true,
	"refill": true, "flacon": true, "tube": true, "pot": true, "lot": true,
	"set": true, "kit": true, "format": true, "voyage": true, "travel": true,
	"miniature": true, "mini": true, "tester": true, "testeur": true,
	// Marketing
	"nouveau": true, "nouvelle": true, "new": true, "original": true,
	"authentique": true, "officiel": true, "promo": true, "promotion": true,
	"offre": true, "exclusif": true, "exclusive": true, "edition": true,
	"limitee": true, "limited": true,
}

// stopWords are short function words excluded from comparison tokens.
// "eau", "de", "parfum" stay in: they are part of product identities.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"in": true, "for": true, "with": true, "by": true, "from": true,
	"et": true, "ou": true, "du": true, "des": true, "au": true, "aux": true,
	"un": true, "une": true, "en": true, "sur": true, "avec": true,
}

// frenchMarkers are tokens whose presence suggests a French-language input
var frenchMarkers = map[string]bool{
	"de": true, "la": true, "le": true, "les": true, "pour": true,
	"femme": true, "homme": true, "nuit": true, "soin": true, "peau": true,
	"cheveux": true, "levres": true, "visage": true, "creme": true,
}

// Normalizer cleans raw user input into a canonical comparable form.
// Deterministic, no I/O, and never fails: garbage input yields a best-effort
// canonical string, not an error.
type Normalizer struct {
	enableDebugLogging bool
}

// NewNormalizer creates a new lexical normalizer
func NewNormalizer(enableDebugLogging bool) *Normalizer {
	return &Normalizer{
		enableDebugLogging: enableDebugLogging,
	}
}

// Normalize derives the canonical form of a generation request
func (n *Normalizer) Normalize(req domain.GenerationRequest) domain.NormalizedQuery {
	product := normalizeText(req.ProductName)
	brand := normalizeText(req.Brand)

	nq := domain.NormalizedQuery{
		ProductName:   product,
		Brand:         brand,
		Language:      detectLanguage(req.ProductName + " " + req.Brand),
		ProductTokens: tokenize(product),
		BrandTokens:   tokenize(brand),
	}

	if n.enableDebugLogging {
		log.Printf("[NORM] Input: %q / %q -> %q / %q (lang=%s)",
			req.ProductName, req.Brand, nq.ProductName, nq.Brand, nq.Language)
	}

	return nq
}

// normalizeText lowercases, folds diacritics, strips sizes and retail noise,
// and collapses whitespace. Always returns a usable (possibly empty) string.
func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	s = foldDiacritics(s)
	s = strings.ToLower(s)

	// Strip size/volume patterns before punctuation removal so "100ml"
	// does not survive as a bare number
	s = sizePatternRegex.ReplaceAllString(s, " ")
	s = punctuationRegex.ReplaceAllString(s, " ")

	// Drop retail noise words
	words := strings.Fields(s)
	var kept []string
	for _, w := range words {
		if retailNoiseWords[w] {
			continue
		}
		kept = append(kept, w)
	}
	s = strings.Join(kept, " ")

	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// foldDiacritics removes accents; on transform failure the input is
// returned untouched, normalization must not fail
func foldDiacritics(s string) string {
	folded, _, err := transform.String(diacriticFold, s)
	if err != nil {
		return s
	}
	return folded
}

// detectLanguage guesses "fr" or "en" from accents and French marker words.
// Advisory only: it steers the output language of generated copy, nothing
// in scoring depends on it.
func detectLanguage(raw string) string {
	for _, r := range raw {
		if r >= 0x00C0 && r <= 0x017F { // Latin-1 supplement / extended-A accents
			return "fr"
		}
	}

	markers := 0
	for _, w := range strings.Fields(strings.ToLower(raw)) {
		if frenchMarkers[w] {
			markers++
		}
	}
	if markers >= 2 {
		return "fr"
	}
	return "en"
}

// tokenize splits a normalized string into comparison tokens.
// Removes stop words, single characters, and pure numeric tokens.
func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(s) {
		if len(word) <= 1 {
			continue
		}
		if stopWords[word] {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// tokenPair keeps a token's original casing alongside its normalized form,
// so corrections can be reported with the candidate's canonical spelling
type tokenPair struct {
	Raw  string
	Norm string
}

// splitTokenPairs tokenizes raw text (e.g. a search result title) into
// (raw, normalized) pairs. Leading/trailing punctuation is trimmed from the
// raw form; inner punctuation like the apostrophe in "J'adore" is kept.
func splitTokenPairs(s string) []tokenPair {
	var pairs []tokenPair
	for _, field := range strings.Fields(s) {
		raw := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if raw == "" {
			continue
		}
		norm := normalizeToken(raw)
		if len(norm) <= 1 || stopWords[norm] || isNumeric(norm) {
			continue
		}
		pairs = append(pairs, tokenPair{Raw: raw, Norm: norm})
	}
	return pairs
}

// normalizeToken folds one token to its comparable form
func normalizeToken(s string) string {
	s = strings.ToLower(foldDiacritics(s))
	return punctuationRegex.ReplaceAllString(s, "")
}
