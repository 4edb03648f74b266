package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/copyforge/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the Google Custom Search JSON API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	engineID    string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new search API client.
// The free Custom Search tier allows 100 queries per day; the limiter is
// set well below the per-second burst the API tolerates.
func NewClient(apiKey, engineID, baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Limit(1), 5) // 1 req/sec, burst of 5

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      apiKey,
		engineID:    engineID,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Configured reports whether the client has credentials to make API calls
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.engineID != ""
}

// exponentialBackoff returns the wait duration before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(250<<attempt) * time.Millisecond
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "CopyForge/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}

	return resp, nil
}

// wireResponse mirrors the Custom Search JSON API shape we consume
type wireResponse struct {
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		DisplayLink string `json:"displayLink"`
	} `json:"items"`
}

// Search queries the Custom Search API for candidate product pages.
// Returns ErrSearchNotConfigured when credentials are missing; callers are
// expected to degrade both error cases to an empty result set.
func (c *Client) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	if !c.Configured() {
		return nil, domain.ErrSearchNotConfigured
	}

	if c.debug {
		log.Printf("[SEARCH] Search called with query: %q", query)
	}

	endpoint := fmt.Sprintf("%s/v1", c.baseURL)
	params := url.Values{}
	params.Add("q", query)
	params.Add("key", c.apiKey)
	params.Add("cx", c.engineID)
	params.Add("num", "10") // top 10 results

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[SEARCH] Request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			if ctx.Err() != nil {
				return nil, lastErr
			}
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		// Quota exhaustion and server errors are retried; the caller treats
		// persistent failure as zero lookup signal, not a fatal error
		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[SEARCH] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrSearchUnavailable, resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var wire wireResponse
		if err := json.Unmarshal(body, &wire); err != nil {
			return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrSearchUnavailable, err)
		}

		result := &domain.SearchResponse{
			TotalResults: parseTotalResults(wire.SearchInformation.TotalResults),
		}
		for _, item := range wire.Items {
			result.Items = append(result.Items, domain.SearchItem{
				Title:       item.Title,
				Link:        item.Link,
				Snippet:     item.Snippet,
				DisplayLink: item.DisplayLink,
			})
		}

		if c.debug {
			log.Printf("[SEARCH] Found %d items (~%d total) for query: %q", len(result.Items), result.TotalResults, query)
		}
		return result, nil
	}

	if c.debug {
		log.Printf("[SEARCH] All retries failed for query: %q", query)
	}
	return nil, lastErr
}

// parseTotalResults parses the API's string-typed result estimate
func parseTotalResults(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
