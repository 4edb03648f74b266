package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/copyforge/backend/internal/domain"
)

type recordingProvider struct {
	lastReq CompletionRequest
	resp    *CompletionResponse
	err     error
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return p.resp, nil
}

func TestGeneratorComplete(t *testing.T) {
	t.Run("returns the raw model text", func(t *testing.T) {
		provider := &recordingProvider{resp: &CompletionResponse{Content: `{"seoTitle":"x"}`}}
		g := NewGenerator(provider)

		got, err := g.Complete(context.Background(), "system text", "user text")
		if err != nil {
			t.Fatalf("Complete() error = %v, want nil", err)
		}
		if got != `{"seoTitle":"x"}` {
			t.Errorf("Complete() = %q, want the provider content", got)
		}
	})

	t.Run("sends both prompts with JSON mode and a low temperature", func(t *testing.T) {
		provider := &recordingProvider{resp: &CompletionResponse{Content: "{}"}}
		g := NewGenerator(provider)

		if _, err := g.Complete(context.Background(), "system text", "user text"); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}

		req := provider.lastReq
		if len(req.Messages) != 2 {
			t.Fatalf("len(Messages) = %d, want 2", len(req.Messages))
		}
		if req.Messages[0].Role != RoleSystem || req.Messages[0].Content != "system text" {
			t.Errorf("first message = %+v, want the system prompt", req.Messages[0])
		}
		if req.Messages[1].Role != RoleUser || req.Messages[1].Content != "user text" {
			t.Errorf("second message = %+v, want the user prompt", req.Messages[1])
		}
		if !req.JSONMode {
			t.Error("JSONMode = false, want true")
		}
		if req.Temperature <= 0 || req.Temperature > 0.5 {
			t.Errorf("Temperature = %.2f, want a low fixed value", req.Temperature)
		}
	})

	t.Run("wraps provider failures as unavailability", func(t *testing.T) {
		provider := &recordingProvider{err: errors.New("connection refused")}
		g := NewGenerator(provider)

		_, err := g.Complete(context.Background(), "system text", "user text")
		if !errors.Is(err, domain.ErrLLMUnavailable) {
			t.Fatalf("Complete() error = %v, want ErrLLMUnavailable", err)
		}
	})
}
