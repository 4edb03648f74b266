package llm

import (
	"context"
	"fmt"

	"github.com/copyforge/backend/internal/domain"
)

// Generator adapts a Provider to the domain TextGenerator port.
// It pins a low temperature for reproducible copy and requests JSON mode;
// the usecase layer still extracts and validates the JSON object itself,
// since not every gateway honors the response format hint.
type Generator struct {
	provider    Provider
	temperature float64
}

// NewGenerator wraps a provider as a domain text generator
func NewGenerator(provider Provider) *Generator {
	return &Generator{
		provider:    provider,
		temperature: 0.3,
	}
}

// Complete sends a system + user prompt pair and returns the raw model text
func (g *Generator) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := g.provider.Complete(ctx, CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userPrompt},
		},
		Temperature: g.temperature,
		JSONMode:    true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	return resp.Content, nil
}
