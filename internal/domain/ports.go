package domain

import (
	"context"
	"time"
)

// SearchClient defines the interface to the external web-search capability.
// Implementations return ErrSearchNotConfigured / ErrSearchUnavailable on
// missing credentials or transport failure; callers degrade both to an
// empty result set rather than propagating.
type SearchClient interface {
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// TextGenerator defines the interface to the external generative-text
// capability. The returned text is not guaranteed to be pure JSON; callers
// are responsible for extraction and validation.
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
