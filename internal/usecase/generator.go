package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/copyforge/backend/internal/domain"
)

// ContentGenerator drives the external language model with the structured
// instruction template and validates its response against the output
// contract. An unparseable or incomplete response is a hard failure for the
// run: no partial or guessed content is ever returned.
type ContentGenerator struct {
	llm                domain.TextGenerator
	enableDebugLogging bool
}

// NewContentGenerator creates a new content generator
func NewContentGenerator(llm domain.TextGenerator, enableDebugLogging bool) *ContentGenerator {
	return &ContentGenerator{
		llm:                llm,
		enableDebugLogging: enableDebugLogging,
	}
}

// llmPayload is the JSON shape the instruction template contracts for
type llmPayload struct {
	SEOTitle            string `json:"seoTitle"`
	ShortDescription    string `json:"shortDescription"`
	LongDescription     string `json:"longDescription"`
	MainKeyword         string `json:"mainKeyword"`
	SuggestedCategory   string `json:"suggestedCategory"`
	ScentNotesAvailable *bool  `json:"scentNotesAvailable"`
	ScentNotes          *struct {
		Top   []string `json:"top"`
		Heart []string `json:"heart"`
		Base  []string `json:"base"`
	} `json:"scentNotes"`
}

// Generate produces marketing copy for an accepted product identity.
// Returns ErrGenerationFailed when the model output violates the contract
// and ErrLLMUnavailable when the model call itself fails; both are fatal
// for the run.
func (g *ContentGenerator) Generate(
	ctx context.Context,
	productName, brand string,
	category domain.Category,
	language string,
) (*domain.GeneratedContent, error) {
	raw, err := g.llm.Complete(ctx, buildSystemPrompt(), buildUserPrompt(productName, brand, category, language))
	if err != nil {
		return nil, err
	}

	if g.enableDebugLogging {
		log.Printf("[GEN] Model returned %d bytes for %q / %q (template %s)", len(raw), productName, brand, promptVersion)
	}

	jsonText, err := extractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	var payload llmPayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrGenerationFailed, err)
	}

	if err := validatePayload(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	content := &domain.GeneratedContent{
		SEOTitle:          strings.TrimSpace(payload.SEOTitle),
		ShortDescription:  strings.TrimSpace(payload.ShortDescription),
		LongDescription:   strings.TrimSpace(payload.LongDescription),
		MainKeyword:       strings.TrimSpace(payload.MainKeyword),
		SuggestedCategory: strings.TrimSpace(payload.SuggestedCategory),
	}

	// Perfumes: carry the scent pyramid through when the model sourced it,
	// otherwise mark it explicitly unavailable rather than fabricating one
	if category == domain.CategoryParfums {
		if notes := scentNotesFrom(&payload); notes != nil {
			content.ScentNotes = notes
		} else {
			content.ScentNotesUnavailable = true
		}
	}

	if g.enableDebugLogging {
		if n := utf8.RuneCountInString(content.SEOTitle); n < 45 || n > 70 {
			log.Printf("[GEN] SEO title length %d outside 50-60 target: %q", n, content.SEOTitle)
		}
	}

	return content, nil
}

// validatePayload enforces the required-field contract
func validatePayload(p *llmPayload) error {
	required := map[string]string{
		"seoTitle":          p.SEOTitle,
		"shortDescription":  p.ShortDescription,
		"longDescription":   p.LongDescription,
		"mainKeyword":       p.MainKeyword,
		"suggestedCategory": p.SuggestedCategory,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("missing required field %q", field)
		}
	}
	return nil
}

// scentNotesFrom returns a populated scent pyramid, or nil when the model
// declared it unavailable or returned an empty one
func scentNotesFrom(p *llmPayload) *domain.ScentNotes {
	if p.ScentNotesAvailable != nil && !*p.ScentNotesAvailable {
		return nil
	}
	if p.ScentNotes == nil {
		return nil
	}
	if len(p.ScentNotes.Top) == 0 && len(p.ScentNotes.Heart) == 0 && len(p.ScentNotes.Base) == 0 {
		return nil
	}
	return &domain.ScentNotes{
		Top:   p.ScentNotes.Top,
		Heart: p.ScentNotes.Heart,
		Base:  p.ScentNotes.Base,
	}
}

// extractJSON locates the JSON object inside a model response that may wrap
// it in prose or markdown fences
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	// Strip markdown code fences if present
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in model response")
	}

	return s[start : end+1], nil
}
