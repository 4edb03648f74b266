package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/copyforge/backend/internal/domain"
)

// PipelineConfig holds configuration for the resolution pipeline
type PipelineConfig struct {
	CacheTTL            time.Duration
	AutoAcceptThreshold float64
	DisclaimerThreshold float64
	FuzzyMinSimilarity  float64
	MaxAlternatives     int
	TrustedDomains      []string
	EnableDebugLogging  bool
}

// Pipeline orchestrates the product-fact resolution and copy generation
// stages: normalize, lookup, correct, score, decide, generate. Each
// invocation is independent and stateless; the only shared state is the
// injected identity cache.
type Pipeline struct {
	cache     domain.CacheRepository
	normalize *Normalizer
	lookup    *LookupService
	corrector *Corrector
	scorer    *Scorer
	gate      *Gate
	generator *ContentGenerator

	cacheTTL            time.Duration
	disclaimerThreshold float64
	debug               bool
}

// NewPipeline wires the pipeline stages from their external dependencies
func NewPipeline(
	cache domain.CacheRepository,
	searchClient domain.SearchClient,
	llm domain.TextGenerator,
	config PipelineConfig,
) *Pipeline {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 168 * time.Hour // 7 days
	}

	disclaimer := config.DisclaimerThreshold
	if disclaimer <= 0 {
		disclaimer = 60.0
	}

	return &Pipeline{
		cache:     cache,
		normalize: NewNormalizer(config.EnableDebugLogging),
		lookup:    NewLookupService(searchClient, config.TrustedDomains, config.EnableDebugLogging),
		corrector: NewCorrector(config.FuzzyMinSimilarity, config.EnableDebugLogging),
		scorer:    NewScorer(config.EnableDebugLogging),
		gate: NewGate(GateConfig{
			AutoAcceptThreshold: config.AutoAcceptThreshold,
			DisclaimerThreshold: disclaimer,
			MaxAlternatives:     config.MaxAlternatives,
		}),
		generator:           NewContentGenerator(llm, config.EnableDebugLogging),
		cacheTTL:            cacheTTL,
		disclaimerThreshold: disclaimer,
		debug:               config.EnableDebugLogging,
	}
}

// Run executes one pipeline invocation. It returns either generated content
// or a structured refusal, never both and never neither; any unexpected
// error inside a stage is caught, logged, and surfaced as a generic
// internal error so no stack detail reaches the caller boundary.
func (p *Pipeline) Run(ctx context.Context, req domain.GenerationRequest) (result *domain.PipelineResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PIPELINE] panic recovered: %v", r)
			result = nil
			err = domain.ErrInternal
		}
	}()

	if req.ProductName == "" || req.Brand == "" {
		return nil, domain.ErrInvalidRequest
	}
	if _, ok := domain.ParseCategory(string(req.Category)); !ok {
		return nil, domain.ErrInvalidRequest
	}

	audit := newAuditTrail()
	audit.addf("input: product=%q brand=%q category=%q", req.ProductName, req.Brand, req.Category)

	nq := p.normalize.Normalize(req)
	audit.addf("normalized: product=%q brand=%q lang=%s", nq.ProductName, nq.Brand, nq.Language)

	identity, cached := p.cachedIdentity(ctx, nq)
	var decision domain.Decision

	if cached {
		audit.addf("cache: hit (score=%.1f)", identity.ConfidenceScore)
		// Replays a previously resolved run; only accepted resolutions
		// are ever cached, so the gate cannot refuse here
		decision = p.gate.Decide(identity.ConfidenceScore, identity.CorrectedProductName == "" && identity.CorrectedBrand == "", nil, nil)
		decision.CorrectedProductName = identity.CorrectedProductName
		decision.CorrectedBrand = identity.CorrectedBrand
		if decision.Kind == domain.DecisionAcceptWithDisclaimer {
			decision.Disclaimer = disclaimerMessage(identity.CorrectedProductName, identity.CorrectedBrand)
		}
	} else {
		lookup := p.lookup.Lookup(ctx, nq)
		p.auditLookup(audit, lookup)

		proposals := p.corrector.Propose(nq, lookup.Candidates)
		best := bestProposal(proposals)
		if best != nil {
			audit.addf("fuzzy: proposal product=%q brand=%q sim=%.2f dist=%d phonetic=%v popularity=%.2f",
				best.CorrectedProductName, best.CorrectedBrand,
				best.Similarity, best.EditDistance, best.PhoneticMatch, best.Popularity)
		} else {
			audit.addf("fuzzy: no proposal")
		}

		score := p.scorer.Score(lookup, best)
		audit.addf("score: %.1f", score)

		decision = p.gate.Decide(score, hasExactMatch(lookup), best, lookup.Candidates)
		p.storeIdentity(ctx, nq, lookup, &decision)
	}

	audit.addf("decision: %s", decision.Kind)

	if !decision.Accepted() {
		audit.addf("generation: skipped")
		return &domain.PipelineResult{
			Status: domain.StatusRefused,
			Refusal: &domain.Refusal{
				ConfidenceScore: decision.ConfidenceScore,
				Message:         decision.ClarifyMessage,
				Alternatives:    decision.Alternatives,
				InternalLog:     audit.String(),
			},
		}, nil
	}

	productName, brand := acceptedIdentity(req, &decision)
	content, err := p.generator.Generate(ctx, productName, brand, req.Category, nq.Language)
	if err != nil {
		log.Printf("[PIPELINE] generation failed for %q / %q: %v", productName, brand, err)
		audit.addf("generation: failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	audit.addf("generation: ok")

	content.ConfidenceScore = decision.ConfidenceScore
	content.CorrectedProductName = decision.CorrectedProductName
	content.CorrectedBrand = decision.CorrectedBrand
	content.Message = decision.Disclaimer
	content.InternalLog = audit.String()

	return &domain.PipelineResult{
		Status:  domain.StatusGenerated,
		Content: content,
	}, nil
}

// acceptedIdentity returns the identity content generation should describe:
// the corrected fields when a correction was applied, the input otherwise
func acceptedIdentity(req domain.GenerationRequest, decision *domain.Decision) (productName, brand string) {
	productName = req.ProductName
	if decision.CorrectedProductName != "" {
		productName = decision.CorrectedProductName
	}
	brand = req.Brand
	if decision.CorrectedBrand != "" {
		brand = decision.CorrectedBrand
	}
	return productName, brand
}

// bestProposal returns the top-ranked proposal, or nil
func bestProposal(proposals []Proposal) *Proposal {
	if len(proposals) == 0 {
		return nil
	}
	return &proposals[0]
}

func (p *Pipeline) auditLookup(audit *auditTrail, lookup *domain.LookupResult) {
	switch {
	case lookup.Degraded:
		audit.addf("search: degraded, proceeding with zero lookup signal (query=%q)", lookup.Query)
	case !lookup.Found:
		audit.addf("search: no results (query=%q)", lookup.Query)
	default:
		audit.addf("search: %d candidates, sub-score=%.1f, total~%d (query=%q)",
			len(lookup.Candidates), lookup.SearchScore, lookup.TotalResults, lookup.Query)
		for i, c := range lookup.Candidates {
			if i >= 5 {
				audit.addf("candidate: ... %d more", len(lookup.Candidates)-i)
				break
			}
			audit.addf("candidate: %q source=%s exact=%v trusted=%v popularity=%.2f",
				c.ProductName, c.Source, c.ExactMatch, c.Trusted, c.Popularity)
		}
	}
}

// identityCacheKey builds the cache key for a normalized query
func identityCacheKey(nq domain.NormalizedQuery) string {
	return fmt.Sprintf("identity:%s:%s", nq.ProductName, nq.Brand)
}

// cachedIdentity looks up a previously resolved identity
func (p *Pipeline) cachedIdentity(ctx context.Context, nq domain.NormalizedQuery) (*domain.ResolvedIdentity, bool) {
	if p.cache == nil {
		return nil, false
	}

	value, err := p.cache.Get(ctx, identityCacheKey(nq))
	if err != nil {
		return nil, false
	}

	data, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}

	identity := &domain.ResolvedIdentity{}
	if v, ok := data["confidenceScore"].(float64); ok {
		identity.ConfidenceScore = v
	}
	if v, ok := data["exactMatch"].(bool); ok {
		identity.ExactMatch = v
	}
	if v, ok := data["correctedProductName"].(string); ok {
		identity.CorrectedProductName = v
	}
	if v, ok := data["correctedBrand"].(string); ok {
		identity.CorrectedBrand = v
	}

	if identity.ConfidenceScore < p.disclaimerThreshold {
		// Never replay a low-confidence resolution
		return nil, false
	}
	return identity, true
}

// storeIdentity caches an accepted resolution. Low-confidence resolutions
// are never cached so a later run re-consults the search capability.
func (p *Pipeline) storeIdentity(ctx context.Context, nq domain.NormalizedQuery, lookup *domain.LookupResult, decision *domain.Decision) {
	if p.cache == nil || !decision.Accepted() {
		return
	}

	var sources []string
	for _, c := range lookup.Candidates {
		if c.ExactMatch || c.Trusted {
			sources = append(sources, c.Source)
		}
	}

	identity := &domain.ResolvedIdentity{
		ConfidenceScore:      decision.ConfidenceScore,
		ExactMatch:           hasExactMatch(lookup),
		CorrectedProductName: decision.CorrectedProductName,
		CorrectedBrand:       decision.CorrectedBrand,
		Sources:              sources,
	}

	if err := p.cache.Set(ctx, identityCacheKey(nq), identity, p.cacheTTL); err != nil && p.debug {
		log.Printf("[PIPELINE] identity cache write failed: %v", err)
	}
}

// auditTrail accumulates the textual trace attached to every run
type auditTrail struct {
	lines []string
}

func newAuditTrail() *auditTrail {
	return &auditTrail{}
}

func (a *auditTrail) addf(format string, args ...interface{}) {
	a.lines = append(a.lines, fmt.Sprintf(format, args...))
}

func (a *auditTrail) String() string {
	return strings.Join(a.lines, "\n")
}
