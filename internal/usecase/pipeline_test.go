package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/copyforge/backend/internal/domain"
	"github.com/copyforge/backend/internal/infrastructure/cache"
)

type mockSearchClient struct {
	resp  *domain.SearchResponse
	err   error
	calls int
}

func (m *mockSearchClient) Search(_ context.Context, _ string) (*domain.SearchResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

var testTrustedDomains = []string{"fragrantica.com", "sephora.fr", "nocibe.fr"}

func newTestPipeline(search domain.SearchClient, llm domain.TextGenerator, c domain.CacheRepository) *Pipeline {
	return NewPipeline(c, search, llm, PipelineConfig{
		TrustedDomains: testTrustedDomains,
	})
}

// sauvageResponse mimics a search for a well-known product: three results,
// the top one an exact title match hosted on a trusted catalog.
func sauvageResponse() *domain.SearchResponse {
	return &domain.SearchResponse{
		Items: []domain.SearchItem{
			{Title: "Sauvage Dior - Eau de Parfum Homme | Sephora", Link: "https://www.sephora.fr/p/sauvage", DisplayLink: "www.sephora.fr"},
			{Title: "Dior Sauvage Eau de Parfum", Link: "https://www.fragrantica.com/perfume/Dior/Sauvage", DisplayLink: "www.fragrantica.com"},
			{Title: "Sauvage de Dior au meilleur prix", Link: "https://example.com/sauvage", DisplayLink: "example.com"},
		},
		TotalResults: 1250000,
	}
}

func TestRunKnownProduct(t *testing.T) {
	search := &mockSearchClient{resp: sauvageResponse()}
	llm := &stubTextGenerator{response: validPayload}
	p := newTestPipeline(search, llm, nil)

	result, err := p.Run(context.Background(), domain.GenerationRequest{
		ProductName: "Sauvage",
		Brand:       "Dior",
		Category:    domain.CategoryParfums,
	})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if result.Status != domain.StatusGenerated {
		t.Fatalf("Status = %s, want %s", result.Status, domain.StatusGenerated)
	}

	content := result.Content
	if content.ConfidenceScore < 85 {
		t.Errorf("ConfidenceScore = %.1f, want >= 85 for an exact trusted match", content.ConfidenceScore)
	}
	if content.CorrectedProductName != "" || content.CorrectedBrand != "" {
		t.Errorf("corrections = %q/%q, want none for an exact match", content.CorrectedProductName, content.CorrectedBrand)
	}
	if content.Message != "" {
		t.Errorf("Message = %q, want no disclaimer above the auto-accept threshold", content.Message)
	}
	if content.SEOTitle == "" {
		t.Error("SEOTitle is empty")
	}
	if content.InternalLog == "" {
		t.Error("InternalLog is empty, want an audit trace")
	}
}

func TestRunMisspelledProduct(t *testing.T) {
	search := &mockSearchClient{resp: &domain.SearchResponse{
		Items: []domain.SearchItem{
			{Title: "J'adore Dior - Eau de Parfum | Sephora", Link: "https://www.sephora.fr/p/jadore", DisplayLink: "www.sephora.fr"},
			{Title: "Dior J'adore Eau de Parfum", Link: "https://www.fragrantica.com/perfume/Dior/J-adore", DisplayLink: "www.fragrantica.com"},
		},
		TotalResults: 480000,
	}}
	llm := &stubTextGenerator{response: validPayload}
	p := newTestPipeline(search, llm, nil)

	result, err := p.Run(context.Background(), domain.GenerationRequest{
		ProductName: "Jador",
		Brand:       "Dior",
		Category:    domain.CategoryParfums,
	})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if result.Status != domain.StatusGenerated {
		t.Fatalf("Status = %s, want %s", result.Status, domain.StatusGenerated)
	}

	content := result.Content
	if content.ConfidenceScore < 60 || content.ConfidenceScore >= 85 {
		t.Errorf("ConfidenceScore = %.1f, want the disclaimer band [60,85)", content.ConfidenceScore)
	}
	if content.CorrectedProductName != "J'adore" {
		t.Errorf("CorrectedProductName = %q, want %q", content.CorrectedProductName, "J'adore")
	}
	if content.Message == "" {
		t.Error("Message is empty, want a correction disclaimer")
	}
}

func TestRunUnknownProduct(t *testing.T) {
	search := &mockSearchClient{resp: &domain.SearchResponse{}}
	llm := &stubTextGenerator{response: validPayload}
	p := newTestPipeline(search, llm, nil)

	result, err := p.Run(context.Background(), domain.GenerationRequest{
		ProductName: "Parfum XYZ 2099",
		Brand:       "MarqueInconnue",
		Category:    domain.CategoryParfums,
	})
	if err != nil {
		t.Fatalf("Run() error = %v, want a refusal result, not an error", err)
	}
	if result.Status != domain.StatusRefused {
		t.Fatalf("Status = %s, want %s", result.Status, domain.StatusRefused)
	}

	refusal := result.Refusal
	if refusal.ConfidenceScore != 0 {
		t.Errorf("ConfidenceScore = %.1f, want 0 with no signal at all", refusal.ConfidenceScore)
	}
	if refusal.Message == "" {
		t.Error("Message is empty, want a clarification request")
	}
	if !strings.Contains(refusal.InternalLog, "generation: skipped") {
		t.Error("InternalLog does not record that generation was skipped")
	}
}

func TestRunSearchDegraded(t *testing.T) {
	search := &mockSearchClient{err: domain.ErrSearchUnavailable}
	llm := &stubTextGenerator{response: validPayload}
	p := newTestPipeline(search, llm, nil)

	result, err := p.Run(context.Background(), domain.GenerationRequest{
		ProductName: "Sauvage",
		Brand:       "Dior",
		Category:    domain.CategoryParfums,
	})
	if err != nil {
		t.Fatalf("Run() error = %v, search failure must degrade, not fail the run", err)
	}
	if result.Status != domain.StatusRefused {
		t.Fatalf("Status = %s, want %s with zero lookup signal", result.Status, domain.StatusRefused)
	}
	if !strings.Contains(result.Refusal.InternalLog, "degraded") {
		t.Error("InternalLog does not record the degraded search")
	}
}

func TestRunGenerationFailure(t *testing.T) {
	search := &mockSearchClient{resp: sauvageResponse()}
	llm := &stubTextGenerator{response: "Je ne peux pas répondre en JSON."}
	p := newTestPipeline(search, llm, nil)

	_, err := p.Run(context.Background(), domain.GenerationRequest{
		ProductName: "Sauvage",
		Brand:       "Dior",
		Category:    domain.CategoryParfums,
	})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("Run() error = %v, want ErrGenerationFailed", err)
	}
}

func TestRunInvalidRequest(t *testing.T) {
	p := newTestPipeline(&mockSearchClient{}, &stubTextGenerator{}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.GenerationRequest
	}{
		{"empty product name", domain.GenerationRequest{Brand: "Dior", Category: domain.CategoryParfums}},
		{"empty brand", domain.GenerationRequest{ProductName: "Sauvage", Category: domain.CategoryParfums}},
		{"unknown category", domain.GenerationRequest{ProductName: "Sauvage", Brand: "Dior", Category: "Gadgets"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Run(ctx, tt.req)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Fatalf("Run() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestRunIdentityCache(t *testing.T) {
	search := &mockSearchClient{resp: sauvageResponse()}
	llm := &stubTextGenerator{response: validPayload}
	p := newTestPipeline(search, llm, cache.NewMemoryCache())

	req := domain.GenerationRequest{
		ProductName: "Sauvage",
		Brand:       "Dior",
		Category:    domain.CategoryParfums,
	}

	first, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	second, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if search.calls != 1 {
		t.Errorf("search calls = %d, want 1: second run must resolve from cache", search.calls)
	}
	if first.Content.ConfidenceScore != second.Content.ConfidenceScore {
		t.Errorf("scores differ across runs: %.1f vs %.1f", first.Content.ConfidenceScore, second.Content.ConfidenceScore)
	}
	if !strings.Contains(second.Content.InternalLog, "cache: hit") {
		t.Error("second run InternalLog does not record the cache hit")
	}
}

func TestRunRefusalNotCached(t *testing.T) {
	search := &mockSearchClient{resp: &domain.SearchResponse{}}
	p := newTestPipeline(search, &stubTextGenerator{response: validPayload}, cache.NewMemoryCache())

	req := domain.GenerationRequest{
		ProductName: "Parfum XYZ 2099",
		Brand:       "MarqueInconnue",
		Category:    domain.CategoryParfums,
	}

	for i := 0; i < 2; i++ {
		result, err := p.Run(context.Background(), req)
		if err != nil {
			t.Fatalf("Run() #%d error = %v", i+1, err)
		}
		if result.Status != domain.StatusRefused {
			t.Fatalf("Run() #%d status = %s, want refusal", i+1, result.Status)
		}
	}

	if search.calls != 2 {
		t.Errorf("search calls = %d, want 2: refusals must not be cached", search.calls)
	}
}

func TestRunIdempotent(t *testing.T) {
	search := &mockSearchClient{resp: sauvageResponse()}
	llm := &stubTextGenerator{response: validPayload}
	p := newTestPipeline(search, llm, nil)

	req := domain.GenerationRequest{
		ProductName: "Sauvage",
		Brand:       "Dior",
		Category:    domain.CategoryParfums,
	}

	var scores []float64
	for i := 0; i < 3; i++ {
		result, err := p.Run(context.Background(), req)
		if err != nil {
			t.Fatalf("Run() #%d error = %v", i+1, err)
		}
		scores = append(scores, result.Content.ConfidenceScore)
	}
	for i := 1; i < len(scores); i++ {
		if scores[i] != scores[0] {
			t.Fatalf("score varies across identical runs: %v", scores)
		}
	}
}
