package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSearchUnavailable is returned by the search client when the external
	// search capability fails; the lookup boundary degrades it to zero signal
	ErrSearchUnavailable = errors.New("search request failed")

	// ErrSearchNotConfigured is returned when search credentials are missing
	ErrSearchNotConfigured = errors.New("search credentials not configured")

	// ErrGenerationFailed is returned when the generative model's output
	// cannot be parsed or validated against the expected schema
	ErrGenerationFailed = errors.New("content generation failed")

	// ErrLLMUnavailable is returned when the generative model call itself fails
	ErrLLMUnavailable = errors.New("language model request failed")

	// ErrRateLimited is returned when the per-IP rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInternal is surfaced at the orchestrator boundary for any
	// unexpected error; details are logged, never shown to the caller
	ErrInternal = errors.New("internal pipeline error")
)
