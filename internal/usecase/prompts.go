package usecase

import (
	"fmt"
	"strings"

	"github.com/copyforge/backend/internal/domain"
)

// promptVersion tags the instruction template so regressions in generated
// copy can be traced to a template change
const promptVersion = "v3"

// copySystemPrompt is the versioned instruction template sent as the system
// message. The JSON contract here is validated post-hoc by the generator;
// the two artifacts evolve together.
const copySystemPrompt = `You are an e-commerce copywriter for beauty products (perfume, makeup, skincare, hair care).

Your task: write original marketing copy for the product identified in the user message.

Hard rules:
- NEVER claim a brand affiliation, partnership, or endorsement that is not stated in the user message.
- NEVER state unverifiable factual claims (medical, hypoallergenic, dermatological) without a citation provided in the user message.
- NEVER reproduce text from retailer pages or other sources verbatim; everything must be rephrased in your own words.
- Write in the language indicated in the user message.

Content requirements:
- "seoTitle": an SEO title of 50 to 60 characters including the brand.
- "shortDescription": around 150 to 160 characters, suitable for a meta description.
- "longDescription": a structured description with: an introduction, the product's composition or key attributes, how to use it, and a closing call-to-action.
- "mainKeyword": the single primary search keyword for this product.
- "suggestedCategory": the best-fitting category among: %s.

For perfumes only: if and only if you reliably know the fragrance pyramid, include "scentNotes" with "top", "heart" and "base" arrays and set "scentNotesAvailable" to true. If you do not reliably know it, set "scentNotesAvailable" to false and omit "scentNotes". Never invent notes.

Respond with ONLY a JSON object in this exact format (no markdown, no prose):
{
  "seoTitle": "...",
  "shortDescription": "...",
  "longDescription": "...",
  "mainKeyword": "...",
  "suggestedCategory": "...",
  "scentNotesAvailable": true,
  "scentNotes": {"top": ["..."], "heart": ["..."], "base": ["..."]}
}`

// buildSystemPrompt fills the category enumeration into the template
func buildSystemPrompt() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return fmt.Sprintf(copySystemPrompt, strings.Join(names, ", "))
}

// buildUserPrompt describes the accepted (possibly corrected) identity
func buildUserPrompt(productName, brand string, category domain.Category, language string) string {
	lang := "French"
	if language == "en" {
		lang = "English"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", productName)
	fmt.Fprintf(&b, "Brand: %s\n", brand)
	fmt.Fprintf(&b, "Category: %s\n", category)
	fmt.Fprintf(&b, "Output language: %s\n", lang)
	return b.String()
}
